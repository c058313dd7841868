package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMetrics(t *testing.T) {
	before := GetMetrics()["transcription_conflicts"]
	IncrTranscriptionConflicts()
	assert.Equal(t, before+1, GetMetrics()["transcription_conflicts"])

	out := FormatMetrics()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(GetMetrics()))
	for _, l := range lines {
		assert.Len(t, strings.Fields(l), 2, l)
	}
	assert.Contains(t, out, "download_requests ")
	assert.Contains(t, out, "cache_misses ")
}

func TestTrackOperation(t *testing.T) {
	sentinel := errors.New("failed")
	var called bool
	err := TrackOperation(context.Background(), "noop", time.Hour, func(context.Context) error {
		called = true
		return sentinel
	})
	require.True(t, called)
	assert.ErrorIs(t, err, sentinel)
}
