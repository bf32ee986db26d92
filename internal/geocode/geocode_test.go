package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const mapquestBody = `{
	"results": [{
		"locations": [{
			"street": "233 Bay State Rd",
			"adminArea5": "Boston",
			"adminArea3": "MA",
			"postalCode": "02215",
			"adminArea1": "US",
			"latLng": {"lat": 42.3503, "lng": -71.1004}
		}]
	}]
}`

func TestGeocodeParsesProviderResponse(t *testing.T) {
	var gotKey, gotLocation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotLocation = r.URL.Query().Get("location")
		w.Write([]byte(mapquestBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key")
	loc, err := c.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}

	if gotKey != "api-key" {
		t.Errorf("key param = %q, want %q", gotKey, "api-key")
	}
	if gotLocation != "233 Bay State Rd Boston MA 02215" {
		t.Errorf("location param = %q", gotLocation)
	}
	if loc.Latitude != 42.3503 || loc.Longitude != -71.1004 {
		t.Errorf("coordinates = (%v, %v)", loc.Latitude, loc.Longitude)
	}
	if loc.City != "Boston" || loc.State != "MA" || loc.Zipcode != "02215" || loc.Country != "US" {
		t.Errorf("address components = %+v", loc)
	}
	if loc.FormattedAddress != "233 Bay State Rd, Boston, MA" {
		t.Errorf("formatted address = %q", loc.FormattedAddress)
	}
}

func TestGeocodeEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key")
	if _, err := c.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrNoResults) {
		t.Errorf("Geocode() = %v, want %v", err, ErrNoResults)
	}
}

func TestGeocodeNon200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	if _, err := c.Geocode(context.Background(), "anywhere"); err == nil {
		t.Error("Geocode() should fail on a non-200 status")
	}
}
