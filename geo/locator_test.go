package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

func TestStaticLocator(t *testing.T) {
	ctx := context.Background()
	coords := models.Coordinates{Lat: 48.8566, Lon: 2.3522}

	got, err := StaticLocator{Coords: coords}.CurrentPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, coords, got)

	_, err = StaticLocator{Coords: coords, Denied: true}.CurrentPosition(ctx)
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = StaticLocator{Coords: coords}.CurrentPosition(canceled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func newIPLocator(t *testing.T, body string, status int) *IPLocator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "status,message,lat,lon", r.URL.Query().Get("fields"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewIPLocator(srv.URL+"/json/", datasource.NewFetcherWithClient(srv.Client(), nil))
}

func TestIPLocator_Success(t *testing.T) {
	l := newIPLocator(t, `{"status":"success","lat":52.52,"lon":13.405}`, http.StatusOK)

	coords, err := l.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Lat: 52.52, Lon: 13.405}, coords)
}

func TestIPLocator_Fail(t *testing.T) {
	l := newIPLocator(t, `{"status":"fail","message":"private range"}`, http.StatusOK)

	_, err := l.CurrentPosition(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.Contains(t, err.Error(), "private range")
}

func TestIPLocator_HTTPError(t *testing.T) {
	l := newIPLocator(t, `rate limited`, http.StatusTooManyRequests)

	_, err := l.CurrentPosition(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPermissionDenied))
	assert.True(t, errors.Is(err, datasource.ErrDataNotAvailable))
}
