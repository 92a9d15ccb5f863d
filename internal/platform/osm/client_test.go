package osm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(nominatim, overpass, osrm string) *Client {
	return NewClient(nominatim, overpass, osrm, "test-agent/1.0", 5*time.Second, zerolog.Nop())
}

func TestGeocodeParsesFirstResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "jsonv2" {
			t.Errorf("expected jsonv2 format, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "28.6139", "lon": "77.2090",
			"display_name": "New Delhi, Delhi, India",
			"address": {"city": "New Delhi", "state": "Delhi", "country": "India", "country_code": "in"}
		}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, srv.URL)
	place, err := c.Geocode(context.Background(), "New Delhi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.City != "New Delhi" || place.CountryCode != "in" {
		t.Errorf("unexpected place: %+v", place)
	}
	if place.Lat != 28.6139 || place.Lon != 77.2090 {
		t.Errorf("unexpected coordinates: %f,%f", place.Lat, place.Lon)
	}
}

func TestGeocodeFallsBackThroughAddressLevels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "10.0", "lon": "20.0", "display_name": "Somewhere",
			"address": {"village": "Smallville", "state": "Kansas", "country_code": "us"}
		}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, srv.URL)
	place, err := c.Geocode(context.Background(), "Smallville")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.City != "Smallville" {
		t.Errorf("expected village fallback for city, got %q", place.City)
	}
	if place.State != "Kansas" {
		t.Errorf("expected state fallback, got %q", place.State)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, srv.URL)
	_, err := c.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchHospitalsOverpassSkipsUnnamed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements": [
			{"lat": 28.61, "lon": 77.20, "tags": {"name": "City Hospital"}},
			{"lat": 28.62, "lon": 77.21, "tags": {}},
			{"center": {"lat": 28.63, "lon": 77.22}, "tags": {"name": "Area Medical Center"}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, srv.URL)
	hospitals, err := c.SearchHospitalsOverpass(context.Background(), 28.61, 77.20, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hospitals) != 2 {
		t.Fatalf("expected 2 named hospitals, got %d", len(hospitals))
	}
	if hospitals[1].Lat != 28.63 {
		t.Errorf("expected way center to be used, got lat %f", hospitals[1].Lat)
	}
	if hospitals[0].Source != "openstreetmap_overpass" {
		t.Errorf("unexpected source %q", hospitals[0].Source)
	}
}

func TestSearchHospitalsNominatimFiltersAmenity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"lat": "28.61", "lon": "77.20", "category": "amenity", "type": "hospital", "name": "General Hospital", "display_name": "General Hospital, Delhi"},
			{"lat": "28.62", "lon": "77.21", "category": "amenity", "type": "pharmacy", "name": "Corner Pharmacy", "display_name": "Corner Pharmacy"},
			{"lat": "28.63", "lon": "77.22", "category": "amenity", "type": "hospital", "display_name": "Unnamed Clinic, Delhi"}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, srv.URL)
	hospitals, err := c.SearchHospitalsNominatim(context.Background(), 28.61, 77.20, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hospitals) != 2 {
		t.Fatalf("expected 2 hospitals, got %d", len(hospitals))
	}
	if hospitals[1].Name != "Unnamed Clinic" {
		t.Errorf("expected display name prefix fallback, got %q", hospitals[1].Name)
	}
}

func TestTableMapsDestinations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sources"); got != "0" {
			t.Errorf("expected sources=0, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"durations": [[0, 600.5, null]],
			"distances": [[0, 8200.0, null]]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, srv.URL)
	dests := []Hospital{
		{Name: "A", Lat: 28.61, Lon: 77.20},
		{Name: "B", Lat: 28.65, Lon: 77.25},
	}
	result, err := c.Table(context.Background(), 28.60, 77.19, dests)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DurationsSec[0] == nil || *result.DurationsSec[0] != 600.5 {
		t.Errorf("unexpected first duration: %v", result.DurationsSec[0])
	}
	if result.DurationsSec[1] != nil {
		t.Errorf("expected nil duration for unroutable destination")
	}
	if result.DistancesM[0] == nil || *result.DistancesM[0] != 8200.0 {
		t.Errorf("unexpected first distance: %v", result.DistancesM[0])
	}
}
