// filename: internal/normalizer/parsers/timestamp_test.go
package parsers

import (
	"testing"
	"time"

	"github.com/novasec/honeydash/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimestamp(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"canonical", "2025-03-01T10:00:00.123Z", "2025-03-01T10:00:00.123Z", true},
		{"space separated no zone", "2025-03-01 10:00:00", "2025-03-01T10:00:00.000Z", true},
		{"T separated no zone", "2025-03-01T10:00:00", "2025-03-01T10:00:00.000Z", true},
		{"offset with colon", "2025-03-01T14:00:00+04:00", "2025-03-01T10:00:00.000Z", true},
		{"offset without colon", "2025-03-01 05:00:00-0500", "2025-03-01T10:00:00.000Z", true},
		{"microseconds", "2025-03-01T10:00:00.123456Z", "2025-03-01T10:00:00.123Z", true},
		{"minutes only", "2025-03-01T10:00Z", "2025-03-01T10:00:00.000Z", true},
		{"garbage", "not-a-date", "2025-05-01T08:30:00.000Z", false},
		{"empty", "", "2025-05-01T08:30:00.000Z", false},
		{"blank", "   ", "2025-05-01T08:30:00.000Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := NormalizeTimestamp(tt.input, now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, models.FormatISO(ts))
			assert.Equal(t, time.UTC, ts.Location())
		})
	}
}

func TestNormalizeTimestampRoundTrip(t *testing.T) {
	now := time.Now()
	for _, input := range []string{
		"2024-12-31T23:59:59.999Z",
		"1970-01-01T00:00:00.000Z",
		"2025-06-15T12:00:00.500Z",
	} {
		ts, ok := NormalizeTimestamp(input, now)
		assert.True(t, ok)
		assert.Equal(t, input, models.FormatISO(ts))

		again, ok := NormalizeTimestamp(models.FormatISO(ts), now)
		assert.True(t, ok)
		assert.True(t, ts.Equal(again))
	}
}

func TestContextTimestampCountsEstimates(t *testing.T) {
	ctx := NewContext(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, estimated := ctx.Timestamp("", "2025-01-01 00:00:00")
	assert.False(t, estimated)

	ts, estimated := ctx.Timestamp("bogus", "2025-01-01 00:00:00")
	assert.True(t, estimated, "first non-empty candidate wins even when unparseable")
	assert.Equal(t, ctx.Now, ts)

	_, estimated = ctx.Timestamp()
	assert.True(t, estimated)
	assert.Equal(t, 2, ctx.Estimated)
}
