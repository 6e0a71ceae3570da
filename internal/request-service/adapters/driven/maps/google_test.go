package maps

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fixmate/internal/config"
	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleMaps {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := mylogger.NewWithWriter(io.Discard, "test", "test", slog.LevelError)
	return New(config.Mapsconfig{ApiKey: "test-key", BaseURL: srv.URL}, log).(*GoogleMaps)
}

func TestGeocode(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Kathmandu", r.URL.Query().Get("address"))

		io.WriteString(w, `{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 27.7172, "lng": 85.324}}}]
		}`)
	})

	coords, err := provider.Geocode(context.Background(), "Kathmandu")
	require.NoError(t, err)
	assert.Equal(t, 27.7172, coords.Latitude)
	assert.Equal(t, 85.324, coords.Longitude)
}

func TestGeocodeZeroResults(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})

	_, err := provider.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, myerrors.ErrCollaborator)
}

func TestDistanceAndDuration(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"distance": {"text": "12.4 km"},
				"duration": {"text": "28 mins"}
			}]}]
		}`)
	})

	dd, err := provider.DistanceAndDuration(context.Background(), "27.7,85.3", "27.6,85.2")
	require.NoError(t, err)
	assert.Equal(t, "12.4 km", dd.DistanceText)
	assert.Equal(t, "28 mins", dd.DurationText)
}

func TestDistanceUnreachableElement(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"status": "OK",
			"rows": [{"elements": [{"status": "NOT_FOUND"}]}]
		}`)
	})

	_, err := provider.DistanceAndDuration(context.Background(), "a", "b")
	assert.ErrorIs(t, err, myerrors.ErrCollaborator)
}

func TestAutocomplete(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Kath", r.URL.Query().Get("input"))
		io.WriteString(w, `{
			"status": "OK",
			"predictions": [{"description": "Kathmandu, Nepal"}, {"description": "Kathgodam, India"}]
		}`)
	})

	sugs, err := provider.Autocomplete(context.Background(), "Kath")
	require.NoError(t, err)
	require.Len(t, sugs, 2)
	assert.Equal(t, "Kathmandu, Nepal", sugs[0].Description)
}

func TestRoute(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"status": "OK",
			"routes": [{
				"overview_polyline": {"points": "abc123"},
				"legs": [{
					"distance": {"text": "5 km"},
					"duration": {"text": "12 mins"},
					"steps": [
						{"end_location": {"lat": 27.71, "lng": 85.32}},
						{"end_location": {"lat": 27.72, "lng": 85.33}}
					]
				}]
			}]
		}`)
	})

	route, err := provider.Route(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "5 km", route.DistanceText)
	assert.Equal(t, "12 mins", route.DurationText)
	assert.Equal(t, "abc123", route.Polyline)
	require.Len(t, route.Steps, 2)
	assert.Equal(t, 27.72, route.Steps[1].Lat)
}

func TestProviderHTTPError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := provider.Geocode(context.Background(), "anywhere")
	assert.ErrorIs(t, err, myerrors.ErrCollaborator)
}
