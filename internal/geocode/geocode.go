// Package geocode resolves free-form addresses and postal codes to
// coordinates through a MapQuest-style geocoding endpoint. The rest of
// the application consumes it through the Geocoder interface and never
// sees the provider's wire format.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/campdir/campdir-api/internal/model"
)

var (
	ErrNoResults = errors.New("geocoder returned no results")
)

// Geocoder resolves an address to a geocoded location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Location, error)
}

// Client is an HTTP Geocoder.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a geocoding client for the given endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// geocodeResponse mirrors the subset of the provider response we read.
type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			PostalCode string `json:"postalCode"`
			Country    string `json:"adminArea1"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode resolves an address. Any failure (transport, non-200 status,
// empty result set) is an error: callers must never persist a record
// with a partially derived location.
func (c *Client) Geocode(ctx context.Context, address string) (model.Location, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return model.Location{}, fmt.Errorf("geocoder url: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("location", address)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Location{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return model.Location{}, fmt.Errorf("decoding geocoder response: %w", err)
	}

	if len(decoded.Results) == 0 || len(decoded.Results[0].Locations) == 0 {
		return model.Location{}, ErrNoResults
	}

	loc := decoded.Results[0].Locations[0]
	formatted := loc.Street
	if loc.City != "" {
		formatted += ", " + loc.City
	}
	if loc.State != "" {
		formatted += ", " + loc.State
	}

	return model.Location{
		Longitude:        loc.LatLng.Lng,
		Latitude:         loc.LatLng.Lat,
		FormattedAddress: formatted,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.PostalCode,
		Country:          loc.Country,
	}, nil
}
