// Package osm wraps the OpenStreetMap ecosystem services the referral
// pipeline depends on: Nominatim (geocoding and amenity search), Overpass
// (POI discovery) and OSRM (travel-time tables).
package osm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a geocoding query yields no results.
var ErrNotFound = errors.New("location not found")

// Place is a geocoded location with address metadata.
type Place struct {
	DisplayName string
	Lat         float64
	Lon         float64
	City        string
	State       string // raw state name or code as reported by the geocoder
	Country     string
	CountryCode string // lowercase ISO 3166-1 alpha-2
}

// Hospital is a discovered hospital POI.
type Hospital struct {
	Name   string
	Lat    float64
	Lon    float64
	Source string
}

// TableResult holds one-to-many routing metrics from the origin to each
// destination, in destination order. Entries are nil when the router could
// not produce a route.
type TableResult struct {
	DurationsSec []*float64
	DistancesM   []*float64
}

type Client struct {
	nominatim *resty.Client
	overpass  *resty.Client
	osrm      *resty.Client
	logger    zerolog.Logger
}

func NewClient(nominatimURL, overpassURL, osrmURL, userAgent string, timeout time.Duration, logger zerolog.Logger) *Client {
	newRESTClient := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json")
	}
	return &Client{
		nominatim: newRESTClient(nominatimURL),
		overpass:  newRESTClient(overpassURL),
		osrm:      newRESTClient(osrmURL),
		logger:    logger,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		County      string `json:"county"`
		State       string `json:"state"`
		StateCode   string `json:"state_code"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// Geocode resolves a free-text location to a Place. Returns ErrNotFound when
// the geocoder has no match.
func (c *Client) Geocode(ctx context.Context, query string) (*Place, error) {
	var results []nominatimResult
	resp, err := c.nominatim.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":              query,
			"format":         "jsonv2",
			"limit":          "1",
			"addressdetails": "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nominatim search: status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: bad latitude %q", first.Lat)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: bad longitude %q", first.Lon)
	}

	city := first.Address.City
	if city == "" {
		city = first.Address.Town
	}
	if city == "" {
		city = first.Address.Village
	}
	if city == "" {
		city = first.Address.County
	}
	state := first.Address.StateCode
	if state == "" {
		state = first.Address.State
	}

	displayName := first.DisplayName
	if displayName == "" {
		displayName = query
	}

	return &Place{
		DisplayName: displayName,
		Lat:         lat,
		Lon:         lon,
		City:        city,
		State:       state,
		Country:     first.Address.Country,
		CountryCode: strings.ToLower(first.Address.CountryCode),
	}, nil
}

type overpassResponse struct {
	Elements []struct {
		Lat    *float64 `json:"lat"`
		Lon    *float64 `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// SearchHospitalsOverpass queries Overpass for hospitals within 12 km of the
// given point. Unnamed elements are skipped.
func (c *Client) SearchHospitalsOverpass(ctx context.Context, lat, lon float64, limit int) ([]Hospital, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:25];(node["amenity"="hospital"](around:12000,%f,%f);way["amenity"="hospital"](around:12000,%f,%f););out center %d;`,
		lat, lon, lat, lon, limit)

	var parsed overpassResponse
	resp, err := c.overpass.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(query).
		SetResult(&parsed).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("overpass query: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("overpass query: status %d", resp.StatusCode())
	}

	hospitals := make([]Hospital, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		elLat, elLon := el.Lat, el.Lon
		if elLat == nil || elLon == nil {
			if el.Center == nil {
				continue
			}
			elLat, elLon = &el.Center.Lat, &el.Center.Lon
		}
		hospitals = append(hospitals, Hospital{
			Name:   name,
			Lat:    *elLat,
			Lon:    *elLon,
			Source: "openstreetmap_overpass",
		})
	}
	return hospitals, nil
}

// SearchHospitalsNominatim is the fallback hospital discovery path: a plain
// Nominatim amenity search around the point.
func (c *Client) SearchHospitalsNominatim(ctx context.Context, lat, lon float64, limit int) ([]Hospital, error) {
	var results []nominatimResult
	resp, err := c.nominatim.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":              fmt.Sprintf("hospital near %.5f,%.5f", lat, lon),
			"format":         "jsonv2",
			"limit":          strconv.Itoa(limit),
			"addressdetails": "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("nominatim hospital search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nominatim hospital search: status %d", resp.StatusCode())
	}

	hospitals := make([]Hospital, 0, len(results))
	for _, item := range results {
		if item.Category != "amenity" || item.Type != "hospital" {
			continue
		}
		name := item.Name
		if name == "" {
			name = strings.SplitN(item.DisplayName, ",", 2)[0]
		}
		if name == "" {
			continue
		}
		hLat, err := strconv.ParseFloat(item.Lat, 64)
		if err != nil {
			continue
		}
		hLon, err := strconv.ParseFloat(item.Lon, 64)
		if err != nil {
			continue
		}
		hospitals = append(hospitals, Hospital{
			Name:   name,
			Lat:    hLat,
			Lon:    hLon,
			Source: "openstreetmap_nominatim",
		})
	}
	return hospitals, nil
}

type osrmTableResponse struct {
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// Table issues a one-to-many routing table query from the origin to every
// destination in a single call.
func (c *Client) Table(ctx context.Context, originLat, originLon float64, destinations []Hospital) (*TableResult, error) {
	coords := make([]string, 0, len(destinations)+1)
	coords = append(coords, fmt.Sprintf("%.6f,%.6f", originLon, originLat))
	for _, d := range destinations {
		coords = append(coords, fmt.Sprintf("%.6f,%.6f", d.Lon, d.Lat))
	}

	var parsed osrmTableResponse
	resp, err := c.osrm.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sources":     "0",
			"annotations": "duration,distance",
		}).
		SetResult(&parsed).
		Get("/table/v1/driving/" + strings.Join(coords, ";"))
	if err != nil {
		return nil, fmt.Errorf("osrm table: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("osrm table: status %d", resp.StatusCode())
	}

	result := &TableResult{
		DurationsSec: make([]*float64, len(destinations)),
		DistancesM:   make([]*float64, len(destinations)),
	}
	if len(parsed.Durations) > 0 {
		for i := range destinations {
			if idx := i + 1; idx < len(parsed.Durations[0]) {
				result.DurationsSec[i] = parsed.Durations[0][idx]
			}
		}
	}
	if len(parsed.Distances) > 0 {
		for i := range destinations {
			if idx := i + 1; idx < len(parsed.Distances[0]) {
				result.DistancesM[i] = parsed.Distances[0][idx]
			}
		}
	}

	c.logger.Debug().Int("destinations", len(destinations)).Msg("osrm table fetched")
	return result, nil
}
