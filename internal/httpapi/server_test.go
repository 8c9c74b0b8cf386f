package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarishgunaS/sisypho-sdk/internal/capture"
	"github.com/HarishgunaS/sisypho-sdk/internal/model"
)

func testServer(t *testing.T) (*httptest.Server, *capture.EventQueue) {
	t.Helper()
	queue := capture.NewEventQueue(500)
	srv := httptest.NewServer(NewServer("", queue, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, queue
}

func pushN(queue *capture.EventQueue, n int) {
	for i := 0; i < n; i++ {
		queue.Push(model.CapturedEvent{
			ID:        "id",
			Timestamp: time.Now(),
			Kind:      model.KindClick,
			Source:    "tap",
			Details:   map[string]string{"x": "1"},
		})
	}
}

func TestGetEvents(t *testing.T) {
	srv, queue := testServer(t)
	pushN(queue, 3)

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var events []model.CapturedEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.Len(t, events, 3)
	assert.Equal(t, 3, queue.Count(), "plain GET must not consume the queue")
}

func TestGetEventsEmptyIsArray(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	var events []model.CapturedEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.NotNil(t, events, "empty queue must serialize as [], not null")
	assert.Len(t, events, 0)
}

func TestGetEventsDrain(t *testing.T) {
	srv, queue := testServer(t)
	pushN(queue, 5)

	resp, err := http.Get(srv.URL + "/events?drain=true")
	require.NoError(t, err)
	defer resp.Body.Close()

	var events []model.CapturedEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.Len(t, events, 5)
	assert.Equal(t, 0, queue.Count(), "drain consumes the queue atomically")
}

func TestGetCount(t *testing.T) {
	srv, queue := testServer(t)
	pushN(queue, 7)

	resp, err := http.Get(srv.URL + "/count")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body["count"])
}

func TestGetStats(t *testing.T) {
	srv, queue := testServer(t)
	queue.Push(model.CapturedEvent{Kind: model.KindClick, Source: "tap", Timestamp: time.Now()})
	queue.Push(model.CapturedEvent{Kind: model.KindKeyboard, Source: "tap", Timestamp: time.Now()})

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats capture.QueueStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1, stats.ByKind[model.KindClick])
	assert.Equal(t, 2, stats.BySource["tap"])
}

func TestDeleteEvents(t *testing.T) {
	srv, queue := testServer(t)
	pushN(queue, 4)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["success"])
	assert.Equal(t, 0, queue.Count())
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/count", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := testServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
