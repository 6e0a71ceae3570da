package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fixmate/internal/config"
	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/myerrors"
	"fixmate/internal/request-service/core/ports"
)

// GoogleMaps talks to the Google Maps web services (geocoding, distance
// matrix, place autocomplete, directions). All failures are wrapped in
// myerrors.ErrCollaborator so callers can tell provider trouble apart from
// lifecycle failures.
type GoogleMaps struct {
	cfg    config.Mapsconfig
	mylog  mylogger.Logger
	client *http.Client
}

func New(cfg config.Mapsconfig, mylog mylogger.Logger) ports.IMapsProvider {
	return &GoogleMaps{
		cfg:   cfg,
		mylog: mylog,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (g *GoogleMaps) Geocode(ctx context.Context, address string) (ports.Coordinates, error) {
	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}

	params := url.Values{"address": {address}}
	if err := g.get(ctx, "/maps/api/geocode/json", params, &payload); err != nil {
		return ports.Coordinates{}, err
	}

	if payload.Status != "OK" || len(payload.Results) == 0 {
		return ports.Coordinates{}, fmt.Errorf("%w: unable to find address (status %s)", myerrors.ErrCollaborator, payload.Status)
	}

	loc := payload.Results[0].Geometry.Location
	return ports.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

func (g *GoogleMaps) DistanceAndDuration(ctx context.Context, origin, destination string) (ports.DistanceDuration, error) {
	var payload struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Text string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Text string `json:"text"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}

	params := url.Values{
		"origins":      {origin},
		"destinations": {destination},
	}
	if err := g.get(ctx, "/maps/api/distancematrix/json", params, &payload); err != nil {
		return ports.DistanceDuration{}, err
	}

	if payload.Status != "OK" || len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return ports.DistanceDuration{}, fmt.Errorf("%w: unable to calculate distance (status %s)", myerrors.ErrCollaborator, payload.Status)
	}

	el := payload.Rows[0].Elements[0]
	if el.Status != "OK" {
		return ports.DistanceDuration{}, fmt.Errorf("%w: route unreachable (element status %s)", myerrors.ErrCollaborator, el.Status)
	}

	return ports.DistanceDuration{
		DistanceText: el.Distance.Text,
		DurationText: el.Duration.Text,
	}, nil
}

func (g *GoogleMaps) Autocomplete(ctx context.Context, input string) ([]ports.Suggestion, error) {
	var payload struct {
		Status      string `json:"status"`
		Predictions []struct {
			Description string `json:"description"`
		} `json:"predictions"`
	}

	params := url.Values{"input": {input}}
	if err := g.get(ctx, "/maps/api/place/autocomplete/json", params, &payload); err != nil {
		return nil, err
	}

	if payload.Status != "OK" {
		return nil, fmt.Errorf("%w: unable to fetch suggestions (status %s)", myerrors.ErrCollaborator, payload.Status)
	}

	out := make([]ports.Suggestion, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		out = append(out, ports.Suggestion{Description: p.Description})
	}
	return out, nil
}

func (g *GoogleMaps) Route(ctx context.Context, origin, destination string) (ports.Route, error) {
	var payload struct {
		Status string `json:"status"`
		Routes []struct {
			OverviewPolyline struct {
				Points string `json:"points"`
			} `json:"overview_polyline"`
			Legs []struct {
				Distance struct {
					Text string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Text string `json:"text"`
				} `json:"duration"`
				Steps []struct {
					EndLocation struct {
						Lat float64 `json:"lat"`
						Lng float64 `json:"lng"`
					} `json:"end_location"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}

	params := url.Values{
		"origin":      {origin},
		"destination": {destination},
	}
	if err := g.get(ctx, "/maps/api/directions/json", params, &payload); err != nil {
		return ports.Route{}, err
	}

	if payload.Status != "OK" || len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return ports.Route{}, fmt.Errorf("%w: unable to fetch directions (status %s)", myerrors.ErrCollaborator, payload.Status)
	}

	route := payload.Routes[0]
	leg := route.Legs[0]

	steps := make([]ports.LatLng, 0, len(leg.Steps))
	for _, s := range leg.Steps {
		steps = append(steps, ports.LatLng{Lat: s.EndLocation.Lat, Lng: s.EndLocation.Lng})
	}

	return ports.Route{
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
		Polyline:     route.OverviewPolyline.Points,
		Steps:        steps,
	}, nil
}

func (g *GoogleMaps) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", g.cfg.ApiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", myerrors.ErrCollaborator, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.mylog.Action("maps_request").Error("provider unreachable", err, "path", path)
		return fmt.Errorf("%w: %v", myerrors.ErrCollaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: provider returned %d", myerrors.ErrCollaborator, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", myerrors.ErrCollaborator, err)
	}
	return nil
}
