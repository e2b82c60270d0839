package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobsite-api/models"
)

// GeolocationTimeout bounds every location lookup. A provider that has not
// answered by then is treated as "no location"; clock transitions proceed
// without it.
const GeolocationTimeout = 10 * time.Second

// GeolocationProvider is the device/location boundary.
type GeolocationProvider interface {
	CurrentLocation(ctx context.Context) (models.GeoPoint, error)
}

// MapSnapshotter renders a static map image for a point. The payload goes to
// the blob store; only the key is kept on the time log.
type MapSnapshotter interface {
	Snapshot(ctx context.Context, at models.GeoPoint) ([]byte, error)
}

// HTTPGeolocationProvider asks the maps proxy for the caller's current
// location.
type HTTPGeolocationProvider struct {
	URL    string
	Client *http.Client
}

func NewHTTPGeolocationProvider(url string) *HTTPGeolocationProvider {
	return &HTTPGeolocationProvider{
		URL:    url,
		Client: &http.Client{Timeout: GeolocationTimeout},
	}
}

func (p *HTTPGeolocationProvider) CurrentLocation(ctx context.Context) (models.GeoPoint, error) {
	var point models.GeoPoint
	if p.URL == "" {
		return point, fmt.Errorf("geolocation provider not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, nil)
	if err != nil {
		return point, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return point, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return point, fmt.Errorf("geolocation provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&point); err != nil {
		return point, err
	}
	return point, nil
}

// HTTPMapSnapshotter fetches a static map image from the maps proxy.
type HTTPMapSnapshotter struct {
	URL    string
	Client *http.Client
}

func NewHTTPMapSnapshotter(url string) *HTTPMapSnapshotter {
	return &HTTPMapSnapshotter{
		URL:    url,
		Client: &http.Client{Timeout: GeolocationTimeout},
	}
}

func (m *HTTPMapSnapshotter) Snapshot(ctx context.Context, at models.GeoPoint) ([]byte, error) {
	if m.URL == "" {
		return nil, fmt.Errorf("map snapshotter not configured")
	}
	url := fmt.Sprintf("%s?lat=%f&lng=%f", m.URL, at.Lat, at.Lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("map snapshotter returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
