// filename: internal/adapter/adapter_test.go
package adapter

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type staticSource struct {
	ds  *models.Dataset
	err error
}

func (s staticSource) Dataset(context.Context) (*models.Dataset, error) { return s.ds, s.err }

func testDataset() *models.Dataset {
	attempts := models.AttemptTable{}
	attempts.Record("bf-1", 50)

	events := []models.Event{
		{
			ID: "bf-1-0-0", OriginalID: "bf-1", Timestamp: now.Add(-time.Minute),
			Sensor: "cowrie", SensorType: "cowrie", SrcIP: "203.0.113.9", DstPort: 22, Protocol: "ssh",
			EventType: models.EventSSHBruteforce, Attack: models.AttackSSHBruteforce,
			GeoIP: &models.Geo{CountryISOCode: "CN"},
			SSH:   &models.Credentials{Username: "root", Password: "toor"},
			TI:    &models.ThreatIntel{AbuseIPDB: &models.AbuseIPDB{Score: 95}},
		},
		{
			ID: "bf-1-0-1", OriginalID: "bf-1", Timestamp: now.Add(-2 * time.Minute),
			Sensor: "cowrie", SensorType: "cowrie", SrcIP: "203.0.113.9", DstPort: 22, Protocol: "ssh",
			EventType: models.EventSSHBruteforce, Attack: models.AttackSSHBruteforce,
			GeoIP: &models.Geo{CountryISOCode: "CN"},
			SSH:   &models.Credentials{Username: "admin", Password: "admin"},
		},
		{
			ID: "p-2", OriginalID: "p", Timestamp: now.Add(-3 * time.Hour),
			Sensor: "opencanary", SensorType: "opencanary", SrcIP: "198.51.100.4", DstPort: 80, Protocol: "http",
			EventType: "http_login", GeoIP: &models.Geo{CountryISOCode: "OM"},
		},
	}
	return &models.Dataset{Events: events, Attempts: attempts, LoadedAt: now}
}

func newTestAdapter(src DatasetSource) *LocalAdapter {
	a := NewLocalAdapter(src, logging.NewNop())
	a.now = func() time.Time { return now }
	return a
}

func TestLocalAdapterAggregates(t *testing.T) {
	a := newTestAdapter(staticSource{ds: testDataset()})
	ctx := context.Background()
	rng := models.RangeFromPreset(models.Preset24h, now)

	summary, err := a.Summary(ctx, rng, models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 50, summary.TotalAttempts)
	assert.Equal(t, 2, summary.TotalAttacks)
	assert.Equal(t, 2, summary.UniqueCountries)

	ports, err := a.TopPorts(ctx, rng, models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.TopItem{Label: "22", Count: 2}, ports[0])

	users, err := TopSSHUsernames(ctx, a, rng, models.Filters{})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	ti, err := TISummary(ctx, a, rng, models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 1, ti.MaliciousIPs)

	series, err := a.AttacksOverTime(ctx, rng, models.Filters{Protocols: []string{"ssh"}})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 2, series[0].Count)
}

func TestLocalAdapterRecentEvents(t *testing.T) {
	a := newTestAdapter(staticSource{ds: testDataset()})
	rng := models.RangeFromPreset(models.Preset1h, now)

	page, err := a.RecentEvents(context.Background(), rng, models.Filters{}, models.Page{Page: 0, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "bf-1-0-0", page.Rows[0].ID)
}

func TestLocalAdapterMapPointsNeverNil(t *testing.T) {
	a := newTestAdapter(staticSource{ds: &models.Dataset{}})

	points, err := a.MapPoints(context.Background(), models.AllTime(now), models.Filters{})
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestLocalAdapterRejectsInvalidInput(t *testing.T) {
	a := newTestAdapter(staticSource{ds: testDataset()})
	ctx := context.Background()

	inverted := models.TimeRange{From: now, To: now.Add(-time.Hour)}
	_, err := a.Summary(ctx, inverted, models.Filters{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidTimeRange))

	_, err = a.RecentEvents(ctx, models.AllTime(now), models.Filters{}, models.Page{Page: 0, PageSize: 0})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidPagination))

	_, err = a.RecentEvents(ctx, models.AllTime(now), models.Filters{}, models.Page{Page: -1, PageSize: 10})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidPagination))
}

func TestLocalAdapterCanceledContext(t *testing.T) {
	a := newTestAdapter(staticSource{ds: testDataset()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.TopIPs(ctx, models.AllTime(now), models.Filters{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeCanceled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalAdapterDatasetFailure(t *testing.T) {
	a := newTestAdapter(staticSource{err: stderrors.New("glob failed")})

	_, err := a.EventTypes(context.Background(), models.AllTime(now), models.Filters{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeDatasetLoadFailed))
}

func TestCapabilityDefaults(t *testing.T) {
	ctx := context.Background()
	rng := models.AllTime(now)

	bare := bareAdapter{}
	users, err := TopSSHUsernames(ctx, bare, rng, models.Filters{})
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	passwords, err := TopSSHPasswords(ctx, bare, rng, models.Filters{})
	require.NoError(t, err)
	assert.Empty(t, passwords)

	ti, err := TISummary(ctx, bare, rng, models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, EmptyTISummary(), ti)

	assert.Empty(t, Capabilities(bare))
	assert.Equal(t, []string{"credential_insights", "threat_intel"}, Capabilities(newTestAdapter(nil)))
}

// bareAdapter адаптер без необязательных возможностей
type bareAdapter struct{}

func (bareAdapter) Name() string { return "bare" }
func (bareAdapter) Summary(context.Context, models.TimeRange, models.Filters) (models.KPISummary, error) {
	return models.KPISummary{}, nil
}
func (bareAdapter) AttacksOverTime(context.Context, models.TimeRange, models.Filters) ([]models.TimeSeriesPoint, error) {
	return nil, nil
}
func (bareAdapter) TopPorts(context.Context, models.TimeRange, models.Filters) ([]models.TopItem, error) {
	return nil, nil
}
func (bareAdapter) TopIPs(context.Context, models.TimeRange, models.Filters) ([]models.TopItem, error) {
	return nil, nil
}
func (bareAdapter) EventTypes(context.Context, models.TimeRange, models.Filters) ([]models.TopItem, error) {
	return nil, nil
}
func (bareAdapter) TopCountries(context.Context, models.TimeRange, models.Filters) ([]models.TopItem, error) {
	return nil, nil
}
func (bareAdapter) RecentEvents(context.Context, models.TimeRange, models.Filters, models.Page) (models.PaginatedResponse[models.Event], error) {
	return models.PaginatedResponse[models.Event]{}, nil
}
func (bareAdapter) MapPoints(context.Context, models.TimeRange, models.Filters) ([]models.MapPoint, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("anything"))

	local := newTestAdapter(staticSource{ds: testDataset()})
	r.Register(local)
	r.Register(bareAdapter{})

	assert.Same(t, local, r.Get(DefaultName))
	assert.Same(t, local, r.Get("elastic"))
	assert.Equal(t, "bare", r.Get("bare").Name())
	assert.Equal(t, []string{"bare", "local"}, r.Names())

	_, err := r.Lookup("elastic")
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeAdapterNotFound))

	got, err := r.Lookup("local")
	require.NoError(t, err)
	assert.Same(t, local, got)
}
