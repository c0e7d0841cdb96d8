// filename: internal/normalizer/pipeline_test.go
package normalizer

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loadTime = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

const cowrieExport = `{"doc_type":"bruteforce_campaign","attack_id":"bf-1","src_ip":"203.0.113.5","start_time":"2025-03-01 09:00:00","total_login_attempts":50,"geoip":{"country_iso_code":"OMN"},"events":[{"eventid":"cowrie.login.failed","username":"root","password":"1","timestamp":"2025-03-01T09:00:01Z"},{"eventid":"cowrie.login.failed","username":"root","password":"2","timestamp":"2025-03-01T09:00:02Z"},{"eventid":"cowrie.login.failed","username":"root","password":"3","timestamp":"2025-03-01T09:00:03Z"}]}
not json at all
{"doc_type":"session","attack_id":"sess-9","src_ip":"198.51.100.7","timestamp":"2025-03-01T11:00:00Z","raw_events":[{"eventid":"cowrie.session.file_download","timestamp":"2025-03-01T11:00:05Z","url":"http://evil.test/x.sh","shasum":"abc"}],"downloads":[{"shasum":"abc","virustotal":{"malicious":3,"suspicious":1}}]}
`

const canaryExport = "{\"sensor\":\"opencanary-01\",\"protocol\":\"SSH\",\"dst_port\":\"22\",\"src_ip\":\"192.0.2.1\",\"timestamp\":\"2025-03-01T10:00:00Z\",\"geoip\":{\"country\":\"Oman\"}}\r\n" +
	"\r\n" +
	"[1,2,3]\n" +
	"{\"sensor\":\"dionaea-01\",\"protocol\":\"ftp\",\"src_ip\":\"192.0.2.2\",\"timestamp\":\"not-a-date\"}"

func newTestPipeline(files fstest.MapFS, fallback bool) *Pipeline {
	p := NewPipeline(&Config{SyntheticFallback: fallback, SyntheticCount: 20}, logging.NewNop(), files)
	p.now = func() time.Time { return loadTime }
	return p
}

func TestLoadExpandsAllSources(t *testing.T) {
	p := newTestPipeline(fstest.MapFS{
		"cowrie.ndjson": {Data: []byte(cowrieExport)},
		"canary.ndjson": {Data: []byte(canaryExport)},
		"notes.txt":     {Data: []byte("ignored")},
	}, true)

	ds, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, ds.Synthetic)
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, 4, ds.Report.Records)
	assert.Equal(t, 2, ds.Report.Dropped)
	assert.Equal(t, 1, ds.Report.EstimatedTimestamps)
	require.Len(t, ds.Report.Sources, 2)

	// fs.Glob отдает имена по алфавиту
	canary := ds.Report.Sources[0]
	assert.Equal(t, "canary.ndjson", canary.Source)
	assert.Equal(t, 4, canary.Lines)
	assert.Equal(t, 1, canary.Empty)
	assert.Equal(t, 2, canary.Parsed)
	assert.Equal(t, 1, canary.Dropped)

	for i := 1; i < len(ds.Events); i++ {
		assert.False(t, ds.Events[i].Timestamp.After(ds.Events[i-1].Timestamp), "events must be sorted newest first")
	}

	attempts, ok := ds.Attempts.Get("bf-1")
	require.True(t, ok)
	assert.Equal(t, 50, attempts)
}

func TestLoadedDatasetAggregates(t *testing.T) {
	p := newTestPipeline(fstest.MapFS{
		"cowrie.ndjson": {Data: []byte(cowrieExport)},
		"canary.ndjson": {Data: []byte(canaryExport)},
	}, false)

	ds, err := p.Load(context.Background())
	require.NoError(t, err)

	rng := models.TimeRange{From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC)}
	filtered := query.Apply(ds.Events, rng, models.Filters{})

	summary := query.Summary(filtered, ds.Attempts)
	// 50 попыток кампании; сессия без логинов и команд в таблицу не попадает
	assert.Equal(t, 50, summary.TotalAttempts)
	assert.Equal(t, 2, summary.TotalAttacks)

	countries := query.TopCountries(filtered)
	require.NotEmpty(t, countries)
	assert.Equal(t, models.TopItem{Label: "OM", Count: 4}, countries[0])

	var download *models.Event
	for i := range ds.Events {
		if ds.Events[i].EventType == models.EventFileDownload {
			download = &ds.Events[i]
		}
	}
	require.NotNil(t, download)
	det, ok := download.VTDetections()
	require.True(t, ok)
	assert.Equal(t, 4, det)

	var probe *models.Event
	for i := range ds.Events {
		if ds.Events[i].Sensor == "opencanary-01" {
			probe = &ds.Events[i]
		}
	}
	require.NotNil(t, probe)
	assert.Equal(t, "ssh", probe.Protocol)
	assert.Equal(t, 22, probe.DstPort)
}

func TestLoadUnparseableTimestampUsesLoadTime(t *testing.T) {
	p := newTestPipeline(fstest.MapFS{
		"a.ndjson": {Data: []byte(`{"id":"x","timestamp":"not-a-date"}`)},
	}, false)

	ds, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	e := ds.Events[0]
	assert.True(t, e.TimestampEstimated)
	assert.Equal(t, loadTime, e.Timestamp)
	assert.Equal(t, "2025-03-02T00:00:00.000Z", models.FormatISO(e.Timestamp))
}

func TestLoadSyntheticFallback(t *testing.T) {
	files := fstest.MapFS{"empty.ndjson": {Data: []byte("\n\ngarbage\n")}}

	ds, err := newTestPipeline(files, true).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ds.Synthetic)
	assert.Equal(t, 20, ds.Len())
	assert.Equal(t, 1, ds.Report.Dropped)

	ds, err = newTestPipeline(files, false).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ds.Synthetic)
	assert.Zero(t, ds.Len())
}

func TestLoadNoSources(t *testing.T) {
	ds, err := newTestPipeline(fstest.MapFS{}, true).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ds.Synthetic)
	assert.Empty(t, ds.Report.Sources)
}

func TestLoadBadPattern(t *testing.T) {
	p := NewPipeline(&Config{Pattern: "[", SyntheticFallback: true}, logging.NewNop(), fstest.MapFS{})

	_, err := p.Load(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeDatasetLoadFailed))
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(fstest.MapFS{"a.ndjson": {Data: []byte(`{"id":"x"}`)}}, true)
	_, err := p.Load(ctx)
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeCanceled))
}

func TestLoadIsolatedBetweenCalls(t *testing.T) {
	p := newTestPipeline(fstest.MapFS{"c.ndjson": {Data: []byte(cowrieExport)}}, false)

	first, err := p.Load(context.Background())
	require.NoError(t, err)
	second, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Attempts, second.Attempts)
	assert.Equal(t, first.Len(), second.Len())
}

func TestSortEventsStable(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		{ID: "a", Timestamp: ts},
		{ID: "b", Timestamp: ts.Add(time.Second)},
		{ID: "c", Timestamp: ts},
	}

	SortEvents(events)

	got := make([]string, 0, len(events))
	for _, e := range events {
		got = append(got, e.ID)
	}
	assert.Equal(t, "b,a,c", strings.Join(got, ","))
}

func TestGetStats(t *testing.T) {
	stats := newTestPipeline(fstest.MapFS{}, true).GetStats()

	assert.Equal(t, "*.ndjson", stats["pattern"])
	assert.Equal(t, 20, stats["synthetic_count"])
	assert.Equal(t, 4, stats["expanders"])
}
