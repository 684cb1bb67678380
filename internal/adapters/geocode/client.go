// Package geocode implements ports.Geocoder against a Nominatim-compatible
// forward geocoding endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vtolops/skyplan/internal/core/domain"
)

// Client queries a Nominatim-style search API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a geocoding client. timeout bounds each lookup.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type nominatimHit struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns the first hit for the query, or domain.ErrNotFound.
func (c *Client) Search(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	u := fmt.Sprintf("%s?format=json&limit=1&q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "skyplan/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode upstream status %d", resp.StatusCode)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("geocode decode: %w", err)
	}
	if len(hits) == 0 {
		return nil, domain.ErrNotFound
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode lat: %w", err)
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode lon: %w", err)
	}

	return &domain.GeocodeResult{Name: hits[0].DisplayName, Lat: lat, Lng: lng}, nil
}
