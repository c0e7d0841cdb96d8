// filename: internal/generator/generator_test.go
package generator

import (
	"testing"
	"time"

	"github.com/novasec/honeydash/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsShape(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	events := New(42).Events(DefaultCount, now)

	require.Len(t, events, DefaultCount)
	ids := make(map[string]struct{}, len(events))
	for _, e := range events {
		ids[e.ID] = struct{}{}

		assert.False(t, e.Timestamp.After(now), e.ID)
		assert.False(t, e.Timestamp.Before(now.Add(-window)), e.ID)
		assert.NotEmpty(t, e.SrcIP)
		assert.Equal(t, protocolEvents[e.Protocol], e.EventType)
		require.NotNil(t, e.GeoIP)
		assert.Equal(t, e.GeoIP.CountryISOCode, geo.NormalizeISO2(e.GeoIP.CountryISOCode, ""))

		if e.SSH != nil {
			assert.Equal(t, "ssh", e.Protocol)
		}
		if e.HTTP != nil {
			assert.Equal(t, "http", e.Protocol)
		}
		if score, ok := e.AbuseScore(); ok {
			assert.GreaterOrEqual(t, score, 0)
			assert.Less(t, score, 100)
		}
	}
	assert.Len(t, ids, DefaultCount)
	assert.Equal(t, "evt-0001", events[0].ID)
}

func TestEventsDeterministicWithSeed(t *testing.T) {
	now := time.Now()
	a := New(7).Events(20, now)
	b := New(7).Events(20, now)

	require.Len(t, a, 20)
	for i := range a {
		assert.Equal(t, a[i].SrcIP, b[i].SrcIP)
		assert.True(t, a[i].Timestamp.Equal(b[i].Timestamp))
	}
}

func TestEventsNonPositiveCount(t *testing.T) {
	assert.Empty(t, Events(0, time.Now()))
	assert.Empty(t, Events(-3, time.Now()))
}
