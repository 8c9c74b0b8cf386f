package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/output"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Read captured events from a running recorder",
	Long: `Fetch captured events from a recorder started with 'sisypho record'.

By default prints the currently queued events once and exits. With --follow,
polls the recorder and streams newly captured events as JSONL to stdout,
draining the queue on each poll so every event is emitted exactly once.

Use Ctrl+C or --duration to stop following.

Examples:
  sisypho events
  sisypho events --follow --interval 500
  sisypho events --follow --duration 30`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().Int("port", viper.GetInt(recordPortKey), "Recorder HTTP port")
	eventsCmd.Flags().Bool("follow", false, "Poll continuously and stream events as JSONL")
	eventsCmd.Flags().Bool("drain", false, "Consume events from the recorder's queue (implied by --follow)")
	eventsCmd.Flags().Int("interval", 1000, "Polling interval in milliseconds")
	eventsCmd.Flags().Int("duration", 0, "Max seconds to follow (0 = until Ctrl+C)")
}

func fetchEvents(client *http.Client, port int, drain bool) ([]model.CapturedEvent, error) {
	url := fmt.Sprintf("http://localhost:%d/events", port)
	if drain {
		url += "?drain=true"
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recorder returned %s", resp.Status)
	}
	var events []model.CapturedEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	follow, _ := cmd.Flags().GetBool("follow")
	drain, _ := cmd.Flags().GetBool("drain")
	intervalMs, _ := cmd.Flags().GetInt("interval")
	durationSec, _ := cmd.Flags().GetInt("duration")

	client := &http.Client{Timeout: 5 * time.Second}

	if !follow {
		events, err := fetchEvents(client, port, drain)
		if err != nil {
			return fmt.Errorf("is a recorder running on port %d? %w", port, err)
		}
		return output.Print(output.EventsResult{Count: len(events), Events: events})
	}

	// Follow mode always streams JSONL regardless of --format, so the
	// output is consumable line by line.
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	interval := time.Duration(intervalMs) * time.Millisecond
	var deadline time.Time
	if durationSec > 0 {
		deadline = time.Now().Add(time.Duration(durationSec) * time.Second)
	}
	start := time.Now()
	eventCount := 0

	for {
		if durationSec > 0 && time.Now().After(deadline) {
			break
		}

		events, err := fetchEvents(client, port, true)
		if err != nil {
			enc.Encode(map[string]interface{}{
				"type":  "error",
				"ts":    time.Now().Unix(),
				"error": err.Error(),
			})
			time.Sleep(interval)
			continue
		}
		for _, ev := range events {
			enc.Encode(ev)
			eventCount++
		}

		time.Sleep(interval)
	}

	enc.Encode(map[string]interface{}{
		"type":    "done",
		"ts":      time.Now().Unix(),
		"events":  eventCount,
		"elapsed": time.Since(start).Seconds(),
	})
	return nil
}
