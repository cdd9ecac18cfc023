package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/favorites"
	"weather-dashboard/geo"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
	"weather-dashboard/render"
)

const owmCurrent = `{
  "coord": {"lon": -0.1257, "lat": 51.5085},
  "weather": [{"id": 803, "description": "broken clouds", "icon": "04d"}],
  "main": {"temp": 14.56, "feels_like": 13.9, "temp_min": 13.1, "temp_max": 15.8, "humidity": 72},
  "visibility": 10000,
  "wind": {"speed": 4.12},
  "sys": {"country": "GB"},
  "name": "London"
}`

const owmForecast = `{
  "city": {"name": "London", "country": "GB", "timezone": 0},
  "list": [
    {"dt": 1709283600, "main": {"temp": 9.4, "temp_min": 8.1, "temp_max": 9.9}, "weather": [{"id": 500, "description": "light rain", "icon": "10d"}], "dt_txt": "2024-03-01 09:00:00"},
    {"dt": 1709294400, "main": {"temp": 11.2, "temp_min": 10.0, "temp_max": 11.5}, "weather": [{"id": 804, "description": "overcast clouds", "icon": "04d"}], "dt_txt": "2024-03-01 12:00:00"}
  ]
}`

const owmAir = `{"list": [{"main": {"aqi": 3}, "components": {"pm2_5": 8.3, "pm10": 11.2, "no2": 14.9, "o3": 61.5}}]}`

// fakeOpenWeatherMap knows London only and fails air quality when airDown is set
func fakeOpenWeatherMap(t *testing.T, airDown bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/2.5/weather":
			if r.URL.Query().Get("q") != "London" {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"cod":"404","message":"city not found"}`))
				return
			}
			w.Write([]byte(owmCurrent))
		case "/data/2.5/forecast":
			w.Write([]byte(owmForecast))
		case "/data/2.5/air_pollution":
			if airDown {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(owmAir))
		case "/geo/1.0/reverse":
			w.Write([]byte(`[{"name": "London", "country": "GB", "lat": 51.5, "lon": -0.12}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	handler http.Handler
	store   *favorites.Store
}

func newTestEnv(t *testing.T, airDown bool, opts ...dashboard.Option) *testEnv {
	t.Helper()
	srv := fakeOpenWeatherMap(t, airDown)

	collector := metrics.NewCollector("test")
	fetcher := datasource.NewFetcherWithClient(srv.Client(), collector)
	source := datasource.NewOpenWeatherMapProvider("test-key", srv.URL+"/data/2.5", srv.URL+"/geo/1.0", fetcher)

	store := favorites.NewStore(favorites.NewMemoryKV())
	board := dashboard.NewBoard()
	opts = append([]dashboard.Option{dashboard.WithMetrics(collector)}, opts...)
	dash := dashboard.New(source, store, board, opts...)

	server := NewServer(dash, board, collector, nil, config.ServerConfig{Port: 0})
	return &testEnv{handler: server.Handler(), store: store}
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t, false)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestGetWeather(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/weather/London")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := decode[render.Snapshot](t, rec)
	assert.Equal(t, models.QueryContext{City: "London", Unit: models.Metric}, snap.Query)
	require.NotNil(t, snap.Current.View)
	assert.Equal(t, "15°C", snap.Current.View.Temperature)
	require.Len(t, snap.Forecast.View, 1)
	assert.Equal(t, "11°C", snap.Forecast.View[0].Temperature)
	require.NotNil(t, snap.AirQuality.View)
	assert.Equal(t, "Moderate", snap.AirQuality.View.Level)
}

func TestGetWeather_NotFound(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/weather/Atlantis")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "City not found", body.Message)
	assert.Equal(t, http.StatusNotFound, body.Code)
}

func TestGetWeather_CanceledRequestKeepsBoard(t *testing.T) {
	env := newTestEnv(t, false)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/weather/London").Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/weather/Atlantis", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[render.Snapshot](t, rec)
	assert.Empty(t, snap.Current.Error)
	require.NotNil(t, snap.Current.View)
	assert.Equal(t, "London, GB", snap.Current.View.Title)
}

func TestGetWeather_AirQualityDownStillOK(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodGet, "/api/weather/London")
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[render.Snapshot](t, rec)
	assert.NotNil(t, snap.Current.View)
	assert.Equal(t, "Air quality data unavailable", snap.AirQuality.Error)
}

func TestToggleUnit(t *testing.T) {
	env := newTestEnv(t, false)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/weather/London").Code)

	rec := env.do(t, http.MethodPost, "/api/units/toggle")
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[render.Snapshot](t, rec)
	assert.Equal(t, models.Imperial, snap.Query.Unit)
	// the fake ignores units, so only the suffix changes
	assert.Equal(t, "15°F", snap.Current.View.Temperature)
}

func TestLocation(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		env := newTestEnv(t, false)
		rec := env.do(t, http.MethodPost, "/api/location")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.Equal(t, "Geolocation not supported", decode[ErrorResponse](t, rec).Message)
	})

	t.Run("denied", func(t *testing.T) {
		env := newTestEnv(t, false, dashboard.WithLocator(geo.StaticLocator{Denied: true}))
		rec := env.do(t, http.MethodPost, "/api/location")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Location access denied", decode[ErrorResponse](t, rec).Message)
	})

	t.Run("resolved", func(t *testing.T) {
		env := newTestEnv(t, false, dashboard.WithLocator(geo.StaticLocator{Coords: models.Coordinates{Lat: 51.5, Lon: -0.12}}))
		rec := env.do(t, http.MethodPost, "/api/location")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "London", decode[render.Snapshot](t, rec).Query.City)
	})
}

func TestFavoritesEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/api/favorites")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[FavoritesResponse](t, rec).Favorites)

	rec = env.do(t, http.MethodPost, "/api/favorites")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[FavoritesResponse](t, rec)
	require.NotNil(t, body.Added)
	assert.False(t, *body.Added, "no active city yet")

	env.do(t, http.MethodGet, "/api/weather/London")
	rec = env.do(t, http.MethodPost, "/api/favorites")
	body = decode[FavoritesResponse](t, rec)
	assert.True(t, *body.Added)
	assert.Equal(t, []string{"London"}, body.Favorites)

	rec = env.do(t, http.MethodPost, "/api/favorites/Paris/toggle")
	body = decode[FavoritesResponse](t, rec)
	assert.True(t, *body.Added)
	assert.Equal(t, []string{"London", "Paris"}, body.Favorites)

	rec = env.do(t, http.MethodPost, "/api/favorites/London/toggle")
	body = decode[FavoritesResponse](t, rec)
	assert.False(t, *body.Added)
	assert.Equal(t, []string{"Paris"}, body.Favorites)

	snap := decode[render.Snapshot](t, env.do(t, http.MethodGet, "/api/dashboard"))
	assert.Equal(t, []string{"Paris"}, snap.Favorites.View)
	assert.False(t, snap.Current.View.IsFavorite)
}

func TestFavorites_StoreFailure(t *testing.T) {
	env := newBrokenEnv(t)
	rec := env.do(t, http.MethodGet, "/api/favorites")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[ErrorResponse](t, rec).Message)
}

func newBrokenEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := favorites.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), favorites.FavoritesKey, []byte("{")))

	store := favorites.NewStore(kv)
	board := dashboard.NewBoard()
	dash := dashboard.New(nil, store, board)
	server := NewServer(dash, board, nil, nil, config.ServerConfig{})
	return &testEnv{handler: server.Handler(), store: store}
}

func TestRecents(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodGet, "/api/weather/London")
	env.do(t, http.MethodGet, "/api/weather/Atlantis")

	rec := env.do(t, http.MethodGet, "/api/recents")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"London"}, decode[RecentsResponse](t, rec).Recents)
}

func TestPage(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/?city=London")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "London, GB")
	assert.Contains(t, rec.Body.String(), "Moderate")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodGet, "/api/weather/London")

	rec := env.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `test_fetch_requests_total{endpoint="weather",outcome="ok"} 1`)
	assert.Contains(t, body, `route="/api/weather/{city}"`)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/units/toggle")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
