package ports

import "context"

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type DistanceDuration struct {
	DistanceText string `json:"distance"`
	DurationText string `json:"duration"`
}

type Suggestion struct {
	Description string `json:"description"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Route struct {
	DistanceText string   `json:"distance"`
	DurationText string   `json:"duration"`
	Polyline     string   `json:"polyline"`
	Steps        []LatLng `json:"steps"`
}

// IMapsProvider wraps the external mapping provider. Failures come back
// wrapped in myerrors.ErrCollaborator so callers can distinguish them from
// lifecycle failures.
type IMapsProvider interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
	DistanceAndDuration(ctx context.Context, origin, destination string) (DistanceDuration, error)
	Autocomplete(ctx context.Context, input string) ([]Suggestion, error)
	Route(ctx context.Context, origin, destination string) (Route, error)
}
