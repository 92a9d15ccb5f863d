package referral

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bhavneetv/golden-hour/internal/platform/beddata"
	"github.com/bhavneetv/golden-hour/internal/platform/osm"
)

const (
	maxDiscovered = 20
	maxCandidates = 10
	minMatchScore = 0.5
)

var latLonRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// MapService is the OpenStreetMap surface the pipeline depends on.
type MapService interface {
	Geocode(ctx context.Context, query string) (*osm.Place, error)
	SearchHospitalsOverpass(ctx context.Context, lat, lon float64, limit int) ([]osm.Hospital, error)
	SearchHospitalsNominatim(ctx context.Context, lat, lon float64, limit int) ([]osm.Hospital, error)
	Table(ctx context.Context, originLat, originLon float64, destinations []osm.Hospital) (*osm.TableResult, error)
}

// CapacitySource provides live bed availability for US states.
type CapacitySource interface {
	FetchCapacity(ctx context.Context, stateCode, city string) ([]beddata.Record, string, error)
}

type Service struct {
	maps     MapService
	capacity CapacitySource
	logger   zerolog.Logger
}

func NewService(maps MapService, capacity CapacitySource, logger zerolog.Logger) *Service {
	return &Service{maps: maps, capacity: capacity, logger: logger}
}

// origin is the resolved transfer starting point.
type origin struct {
	displayName string
	lat, lon    float64
	city        string
	stateCode   string
	country     string
	countryCode string
}

// candidate is a discovered hospital enriched with capacity and travel data.
type candidate struct {
	osm.Hospital
	matchScore float64
	hospitalID string
	icuBeds    *int
	inpatient  *int
	travelMin  *float64
	distanceKm *float64
}

// Recommend resolves the location, discovers nearby hospitals, joins bed
// capacity by fuzzy name match, ranks by capacity and travel time, and
// returns the winner. Failures degrade to a NOT_FOUND view, never an error.
func (s *Service) Recommend(ctx context.Context, location string) *RecommendationView {
	loc, err := s.resolveOrigin(ctx, location)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", location).Msg("referral location unresolved")
		return notFoundView(location)
	}

	hospitals := s.discoverHospitals(ctx, loc.lat, loc.lon)
	if len(hospitals) == 0 {
		view := notFoundView(location)
		view.ResolvedLocation = loc.displayName
		return view
	}

	capacityRows, bedWeek, scope, sources := s.loadCapacity(ctx, loc)

	candidates := make([]candidate, 0, len(hospitals))
	for _, hospital := range hospitals {
		candidates = append(candidates, matchCapacity(hospital, capacityRows))
	}
	s.attachTravelMetrics(ctx, loc.lat, loc.lon, candidates)

	best, ok := pickBest(candidates)
	if !ok {
		view := notFoundView(location)
		view.ResolvedLocation = loc.displayName
		view.BedDataWeek = bedWeek
		view.BedDataScope = scope
		return view
	}

	return &RecommendationView{
		RecommendedHospital: buildRecommended(best),
		DecisionReason:      decisionReason(loc.countryCode),
		RequestedLocation:   location,
		ResolvedLocation:    loc.displayName,
		Country:             loc.country,
		CountryCode:         loc.countryCode,
		BedDataScope:        scope,
		BedDataWeek:         bedWeek,
		DataSources:         sources,
	}
}

// resolveOrigin accepts either a literal "lat,lon" pair or a free-text
// location to geocode.
func (s *Service) resolveOrigin(ctx context.Context, location string) (*origin, error) {
	if m := latLonRe.FindStringSubmatch(location); m != nil {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, err
		}
		return &origin{displayName: location, lat: lat, lon: lon}, nil
	}

	place, err := s.maps.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}
	return &origin{
		displayName: place.DisplayName,
		lat:         place.Lat,
		lon:         place.Lon,
		city:        place.City,
		stateCode:   ParseStateCode(place.State),
		country:     place.Country,
		countryCode: place.CountryCode,
	}, nil
}

// discoverHospitals tries Overpass first, falls back to Nominatim, and caps
// the deduplicated list.
func (s *Service) discoverHospitals(ctx context.Context, lat, lon float64) []osm.Hospital {
	hospitals, err := s.maps.SearchHospitalsOverpass(ctx, lat, lon, maxDiscovered)
	if err != nil {
		s.logger.Warn().Err(err).Msg("overpass discovery failed")
		hospitals = nil
	}
	if len(hospitals) == 0 {
		hospitals, err = s.maps.SearchHospitalsNominatim(ctx, lat, lon, maxDiscovered)
		if err != nil {
			s.logger.Warn().Err(err).Msg("nominatim discovery failed")
			return nil
		}
	}

	deduped := dedupeHospitals(hospitals)
	if len(deduped) > maxCandidates {
		deduped = deduped[:maxCandidates]
	}
	return deduped
}

func dedupeHospitals(hospitals []osm.Hospital) []osm.Hospital {
	seen := make(map[string]bool)
	unique := make([]osm.Hospital, 0, len(hospitals))
	for _, hospital := range hospitals {
		key := fmt.Sprintf("%s:%.4f:%.4f", NormalizeHospitalName(hospital.Name), hospital.Lat, hospital.Lon)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, hospital)
	}
	return unique
}

// loadCapacity picks the bed availability source for the origin's country.
func (s *Service) loadCapacity(ctx context.Context, loc *origin) (rows []CapacityRecord, bedWeek, scope string, sources []string) {
	sources = []string{"OpenStreetMap Nominatim/Overpass", "OSRM Routing"}
	scope = "Map + routing only (no configured bed dataset)"

	switch loc.countryCode {
	case "", "us":
		records, week, err := s.capacity.FetchCapacity(ctx, loc.stateCode, loc.city)
		if err != nil {
			s.logger.Warn().Err(err).Str("state", loc.stateCode).Msg("bed capacity fetch failed")
		}
		for _, rec := range records {
			rows = append(rows, CapacityRecord{
				HospitalPK:             rec.HospitalPK,
				CCN:                    rec.CCN,
				Name:                   rec.Name,
				NormalizedName:         NormalizeHospitalName(rec.Name),
				City:                   rec.City,
				State:                  rec.State,
				CollectionWeek:         rec.CollectionWeek,
				AvailableInpatientBeds: rec.AvailableInpatientBeds,
				AvailableICUBeds:       rec.AvailableICUBeds,
			})
		}
		bedWeek = week
		if len(rows) > 0 {
			scope = "US HHS facility capacity dataset"
		} else {
			scope = "US map/routing fallback (no matching HHS rows)"
		}
		sources = append(sources, "HHS facility capacity dataset (healthdata.gov)")
	case "in":
		rows, bedWeek = IndiaCapacityPriors(loc.city)
		scope = "India synthetic capacity priors + map/routing"
		sources = append(sources, "India synthetic hospital capacity priors")
	}
	return rows, bedWeek, scope, sources
}

// matchCapacity joins a discovered hospital with its best-matching capacity
// row, if the similarity clears the threshold.
func matchCapacity(hospital osm.Hospital, rows []CapacityRecord) candidate {
	normalized := NormalizeHospitalName(hospital.Name)

	var best *CapacityRecord
	bestScore := 0.0
	for i := range rows {
		score := NameSimilarity(normalized, rows[i].NormalizedName)
		if score > bestScore {
			bestScore = score
			best = &rows[i]
		}
	}

	c := candidate{Hospital: hospital, matchScore: math.Round(bestScore*1000) / 1000}
	if best != nil && bestScore >= minMatchScore {
		c.hospitalID = best.CCN
		if c.hospitalID == "" {
			c.hospitalID = best.HospitalPK
		}
		c.icuBeds = best.AvailableICUBeds
		c.inpatient = best.AvailableInpatientBeds
	}
	return c
}

func (s *Service) attachTravelMetrics(ctx context.Context, originLat, originLon float64, candidates []candidate) {
	if len(candidates) == 0 {
		return
	}
	destinations := make([]osm.Hospital, len(candidates))
	for i, c := range candidates {
		destinations[i] = c.Hospital
	}
	table, err := s.maps.Table(ctx, originLat, originLon, destinations)
	if err != nil {
		s.logger.Warn().Err(err).Msg("travel table fetch failed")
		return
	}
	for i := range candidates {
		if d := table.DurationsSec[i]; d != nil {
			minutes := math.Round(*d/60*10) / 10
			candidates[i].travelMin = &minutes
		}
		if d := table.DistancesM[i]; d != nil {
			km := math.Round(*d/1000*100) / 100
			candidates[i].distanceKm = &km
		}
	}
}

// pickBest ranks reachable candidates. With any capacity signal the score
// trades beds against travel time; without one it falls back to the fastest
// reachable hospital, nudged by match quality.
func pickBest(candidates []candidate) (candidate, bool) {
	var best candidate
	bestScore := math.Inf(-1)
	found := false
	for _, c := range candidates {
		if c.travelMin == nil {
			continue
		}
		var score float64
		if c.icuBeds != nil || c.inpatient != nil {
			score = float64(intOrZero(c.icuBeds))*3.2 + float64(intOrZero(c.inpatient))*0.35 - *c.travelMin*0.9
		} else {
			score = -*c.travelMin + c.matchScore*0.2
		}
		if score > bestScore {
			bestScore = score
			best = c
			found = true
		}
	}
	return best, found
}

func buildRecommended(best candidate) RecommendedHospital {
	hospitalID := best.hospitalID
	if hospitalID == "" {
		hospitalID = "UNKNOWN"
	}
	facility := "GENERAL"
	if intOrZero(best.icuBeds) > 0 {
		facility = "ICU"
	}
	return RecommendedHospital{
		HospitalID:             hospitalID,
		Name:                   best.Name,
		DistanceKm:             best.distanceKm,
		EstimatedTravelTimeMin: best.travelMin,
		AvailableICUBeds:       intOrZero(best.icuBeds),
		AvailableInpatientBeds: intOrZero(best.inpatient),
		Facility:               facility,
		Coordinates:            &Coordinates{Lat: best.Lat, Lon: best.Lon},
		MapURL:                 mapURL(best.Lat, best.Lon),
	}
}

func decisionReason(countryCode string) string {
	switch countryCode {
	case "in":
		return "Best tradeoff between travel time and India capacity priors (when name match available)."
	case "", "us":
		return "Best tradeoff between travel time and bed availability using live map + HHS bed dataset"
	default:
		return "Fastest reachable nearby hospital based on live map + routing."
	}
}

func mapURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%g&mlon=%g#map=14/%g/%g", lat, lon, lat, lon)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
