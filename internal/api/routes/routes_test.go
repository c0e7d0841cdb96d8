// filename: internal/api/routes/routes_test.go
package routes

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novasec/honeydash/internal/adapter"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testEvents() []models.Event {
	return []models.Event{
		{
			ID: "bf-1-0-0", OriginalID: "bf-1", Timestamp: testNow.Add(-5 * time.Minute),
			Sensor: "cowrie", SensorType: "cowrie", SrcIP: "203.0.113.9", DstPort: 22, Protocol: "ssh",
			EventType: models.EventSSHBruteforce, Attack: models.AttackSSHBruteforce,
			GeoIP: &models.Geo{CountryISOCode: "OM"},
			SSH:   &models.Credentials{Username: "root", Password: "toor"},
			TI:    &models.ThreatIntel{AbuseIPDB: &models.AbuseIPDB{Score: 90}},
		},
		{
			ID: "p-1", OriginalID: "p", Timestamp: testNow.Add(-30 * time.Minute),
			Sensor: "opencanary", SensorType: "opencanary", SrcIP: "198.51.100.4", DstPort: 80, Protocol: "http",
			EventType: "http_login", GeoIP: &models.Geo{CountryISOCode: "CN"},
		},
		{
			ID: "old-1", Timestamp: testNow.Add(-10 * 24 * time.Hour),
			Sensor: "dionaea", SensorType: "dionaea", SrcIP: "192.0.2.1", DstPort: 445, Protocol: "smb",
			EventType: "smb_probe", GeoIP: &models.Geo{CountryISOCode: "OMN"},
		},
	}
}

type fixture struct {
	router *gin.Engine
	loads  *atomic.Int32
	store  *store.EventStore
}

func newFixture(t *testing.T, loadErr error) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	loads := &atomic.Int32{}
	attempts := models.AttemptTable{}
	attempts.Record("bf-1", 50)

	s := store.New(store.LoaderFunc(func(context.Context) (*models.Dataset, error) {
		loads.Add(1)
		if loadErr != nil {
			return nil, loadErr
		}
		return &models.Dataset{Events: testEvents(), Attempts: attempts, LoadedAt: testNow}, nil
	}), time.Minute, logging.NewNop())

	registry := adapter.NewRegistry()
	registry.Register(adapter.NewLocalAdapter(s, logging.NewNop()))

	dashboard := NewDashboardHandler(registry, logging.NewNop())
	dashboard.now = func() time.Time { return testNow }
	health := NewHealthHandler(logging.NewNop(), s)
	dataset := NewDatasetHandler(s, logging.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/health", health.HealthCheck)
	v1.GET("/health/ready", health.ReadinessCheck)
	v1.GET("/health/live", health.LivenessCheck)
	v1.GET("/dataset", dataset.GetDataset)
	v1.POST("/dataset/reload", dataset.Reload)
	d := v1.Group("/dashboard")
	d.GET("/adapters", dashboard.Adapters)
	d.GET("/summary", dashboard.Summary)
	d.GET("/timeline", dashboard.Timeline)
	d.GET("/events", dashboard.Events)
	d.GET("/map", dashboard.MapPoints)
	d.GET("/threat-intel", dashboard.ThreatIntel)
	d.GET("/top/ports", dashboard.TopPorts)
	d.GET("/top/countries", dashboard.TopCountries)
	d.GET("/top/event-types", dashboard.EventTypes)
	d.GET("/top/ssh-usernames", dashboard.TopSSHUsernames)

	return fixture{router: router, loads: loads, store: s}
}

func (f fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSummaryEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/summary?preset=24h")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	s := decode[models.KPISummary](t, w)
	assert.Equal(t, 50, s.TotalAttempts)
	assert.Equal(t, 2, s.TotalAttacks)
	assert.Equal(t, 2, s.UniqueIPs)
}

func TestSummaryEndpointFilters(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/summary?preset=30d&countries=Oman&protocols=smb,SSH")
	require.Equal(t, http.StatusOK, w.Code)

	s := decode[models.KPISummary](t, w)
	assert.Equal(t, 2, s.UniqueIPs)
	assert.Equal(t, 1, s.UniqueCountries)
}

func TestTopCountriesEndpointDefaultsTo30d(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/top/countries")
	require.Equal(t, http.StatusOK, w.Code)

	top := decode[[]models.TopItem](t, w)
	require.NotEmpty(t, top)
	assert.Equal(t, models.TopItem{Label: "OM", Count: 2}, top[0])
}

func TestEventsEndpointPagination(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/events?preset=all&page=1&pageSize=2")
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[models.PaginatedResponse[map[string]any]](t, w)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "old-1", page.Rows[0]["id"])
	assert.Equal(t, "2025-02-19T12:00:00.000Z", page.Rows[0]["timestamp"])
}

func TestEventsEndpointHugePage(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/events?preset=all&page=2305843009213693952&pageSize=5")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := decode[models.PaginatedResponse[map[string]any]](t, w)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Rows)
}

func TestEventsEndpointRejectsBadPagination(t *testing.T) {
	f := newFixture(t, nil)

	for _, target := range []string{
		"/api/v1/dashboard/events?pageSize=0",
		"/api/v1/dashboard/events?pageSize=501",
		"/api/v1/dashboard/events?page=-1",
		"/api/v1/dashboard/events?page=abc",
	} {
		w := f.do(t, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "INVALID_PAGINATION", body["error"], target)
	}
}

func TestTimeRangeErrors(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/summary?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TIME_RANGE", decode[map[string]any](t, w)["error"])

	w = f.do(t, http.MethodGet, "/api/v1/dashboard/summary?from=2025-03-02T00:00:00Z&to=2025-03-01T00:00:00Z")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomRangeEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/top/ports?from=2025-02-18T00:00:00Z&to=2025-02-20T00:00:00Z")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.TopItem{{Label: "445", Count: 1}}, decode[[]models.TopItem](t, w))
}

func TestMapEndpointPinnedCountry(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/map?preset=15m&countries=OM&protocols=smb")
	require.Equal(t, http.StatusOK, w.Code)

	points := decode[[]models.MapPoint](t, w)
	require.Len(t, points, 1)
	assert.Equal(t, "OM", points[0].Country)
	assert.Equal(t, 2, points[0].Count)
}

func TestTimelineAndTIEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/timeline?preset=1h")
	require.Equal(t, http.StatusOK, w.Code)
	points := decode[[]models.TimeSeriesPoint](t, w)
	total := 0
	for _, p := range points {
		total += p.Count
	}
	assert.Equal(t, 2, total)

	w = f.do(t, http.MethodGet, "/api/v1/dashboard/threat-intel?preset=all")
	require.Equal(t, http.StatusOK, w.Code)
	ti := decode[models.TISummary](t, w)
	assert.Equal(t, 1, ti.MaliciousIPs)

	w = f.do(t, http.MethodGet, "/api/v1/dashboard/top/ssh-usernames?preset=all")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.TopItem{{Label: "root", Count: 1}}, decode[[]models.TopItem](t, w))
}

func TestAdaptersEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/adapters")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"local"`)
	assert.Contains(t, w.Body.String(), "threat_intel")
}

func TestDatasetEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/dataset/reload")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), f.loads.Load())

	w = f.do(t, http.MethodPost, "/api/v1/dataset/reload")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(2), f.loads.Load())

	w = f.do(t, http.MethodGet, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[store.Stats](t, w)
	assert.Equal(t, 3, stats.Events)
	assert.Equal(t, 2, stats.Reloads)
	assert.True(t, stats.Cached)

	w = f.do(t, http.MethodGet, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDatasetFailure(t *testing.T) {
	f := newFixture(t, stderrors.New("no such directory"))

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/summary")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DATASET_LOAD_FAILED", decode[map[string]any](t, w)["error"])

	w = f.do(t, http.MethodPost, "/api/v1/dataset/reload")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/health")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "starting", body["status"])
	assert.Equal(t, "honeydash", body["service"])

	w = f.do(t, http.MethodGet, "/api/v1/health/live")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["alive"])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "2m 5s", formatDuration(125*time.Second))
	assert.Equal(t, "3h 10m", formatDuration(3*time.Hour+10*time.Minute))
}
