package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

type countingReader struct {
	fakeReader
	rootReads int
}

func (r *countingReader) ApplicationRoot() (platform.Element, error) {
	r.rootReads++
	return r.root, nil
}

func TestRootCache_ServesCachedRootWithinTTL(t *testing.T) {
	reader := &countingReader{fakeReader: fakeReader{root: &fakeNode{snap: model.ElementSnapshot{Role: "Window"}}}}
	cache := newRootCache(time.Minute)

	first, err := cache.Root(reader)
	require.NoError(t, err)
	second, err := cache.Root(reader)
	require.NoError(t, err)

	assert.Same(t, first.(*fakeNode), second.(*fakeNode))
	assert.Equal(t, 1, reader.rootReads)
}

func TestRootCache_ZeroTTLDisablesCaching(t *testing.T) {
	reader := &countingReader{fakeReader: fakeReader{root: &fakeNode{}}}
	cache := newRootCache(0)

	_, err := cache.Root(reader)
	require.NoError(t, err)
	_, err = cache.Root(reader)
	require.NoError(t, err)

	assert.Equal(t, 2, reader.rootReads)
}

func TestRootCache_InvalidateForcesReread(t *testing.T) {
	reader := &countingReader{fakeReader: fakeReader{root: &fakeNode{}}}
	cache := newRootCache(time.Minute)

	_, err := cache.Root(reader)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Root(reader)
	require.NoError(t, err)

	assert.Equal(t, 2, reader.rootReads)
}
