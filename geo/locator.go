// Package geo resolves the device's position for location based lookups.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

var (
	// ErrUnsupported means no position source is available
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrPermissionDenied means the position source refused to answer
	ErrPermissionDenied = errors.New("location permission denied")
)

// DefaultIPAPIURL is the ip-api.com endpoint used by IPLocator
const DefaultIPAPIURL = "http://ip-api.com/json/"

// Locator reports the current position
type Locator interface {
	CurrentPosition(ctx context.Context) (models.Coordinates, error)
}

// StaticLocator always reports the same coordinates
type StaticLocator struct {
	Coords models.Coordinates
	// Denied makes every call fail with ErrPermissionDenied
	Denied bool
}

// CurrentPosition returns the configured coordinates
func (s StaticLocator) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	if s.Denied {
		return models.Coordinates{}, ErrPermissionDenied
	}
	return s.Coords, nil
}

// IPLocator approximates the position from the caller's public IP address
type IPLocator struct {
	endpoint string
	fetcher  *datasource.Fetcher
}

// NewIPLocator creates an IP based locator; an empty endpoint uses DefaultIPAPIURL
func NewIPLocator(endpoint string, fetcher *datasource.Fetcher) *IPLocator {
	if endpoint == "" {
		endpoint = DefaultIPAPIURL
	}
	return &IPLocator{endpoint: endpoint, fetcher: fetcher}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition asks ip-api.com for the approximate coordinates
func (l *IPLocator) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	params := url.Values{}
	params.Add("fields", "status,message,lat,lon")

	var response ipAPIResponse
	if err := l.fetcher.FetchJSON(ctx, "ip_locate", l.endpoint+"?"+params.Encode(), &response); err != nil {
		return models.Coordinates{}, err
	}
	if response.Status != "success" {
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrPermissionDenied, response.Message)
	}
	return models.Coordinates{Lat: response.Lat, Lon: response.Lon}, nil
}

var (
	_ Locator = StaticLocator{}
	_ Locator = (*IPLocator)(nil)
)
