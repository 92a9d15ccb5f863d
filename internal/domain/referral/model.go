// Package referral finds the best nearby hospital for a patient transfer by
// combining OpenStreetMap discovery, bed capacity datasets and road travel
// times.
package referral

import "strings"

// NotFound is the sentinel used when no recommendation can be produced.
const NotFound = "NOT_FOUND"

// syntheticPriorWeek labels the static India capacity priors.
const syntheticPriorWeek = "synthetic_prior_2026-02-25"

// CapacityRecord is one facility's bed availability, either from a live
// dataset or from static priors.
type CapacityRecord struct {
	HospitalPK             string
	CCN                    string
	Name                   string
	NormalizedName         string
	City                   string
	State                  string
	CollectionWeek         string
	AvailableInpatientBeds *int
	AvailableICUBeds       *int
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RecommendedHospital is the chosen transfer destination.
type RecommendedHospital struct {
	HospitalID             string       `json:"hospital_id"`
	Name                   string       `json:"name"`
	DistanceKm             *float64     `json:"distance_km"`
	EstimatedTravelTimeMin *float64     `json:"estimated_travel_time_min"`
	AvailableICUBeds       int          `json:"available_icu_beds"`
	AvailableInpatientBeds int          `json:"available_inpatient_beds"`
	Facility               string       `json:"facility"`
	Coordinates            *Coordinates `json:"coordinates,omitempty"`
	MapURL                 string       `json:"map_url,omitempty"`
}

// RecommendationView is the full referral response.
type RecommendationView struct {
	RecommendedHospital RecommendedHospital `json:"recommended_hospital"`
	DecisionReason      string              `json:"decision_reason"`
	RequestedLocation   string              `json:"requested_location"`
	ResolvedLocation    string              `json:"resolved_location,omitempty"`
	Country             string              `json:"country,omitempty"`
	CountryCode         string              `json:"country_code,omitempty"`
	BedDataScope        string              `json:"bed_data_scope,omitempty"`
	BedDataWeek         string              `json:"bed_data_week,omitempty"`
	DataSources         []string            `json:"data_sources,omitempty"`
}

func notFoundView(location string) *RecommendationView {
	return &RecommendationView{
		RecommendedHospital: RecommendedHospital{
			HospitalID: NotFound,
			Name:       NotFound,
			Facility:   NotFound,
		},
		DecisionReason:    NotFound,
		RequestedLocation: location,
	}
}

// indiaCapacityPriors are static availability estimates for major Indian
// referral hospitals, used where no live bed dataset exists.
var indiaCapacityPriors = []struct {
	HospitalID string
	Name       string
	City       string
	ICU        int
	Inpatient  int
}{
	{"IN-DEL-AIIMS", "AIIMS New Delhi", "NEW DELHI", 24, 170},
	{"IN-DEL-SAFDARJUNG", "Safdarjung Hospital", "NEW DELHI", 16, 140},
	{"IN-MUM-KEM", "KEM Hospital", "MUMBAI", 18, 155},
	{"IN-MUM-KOKILABEN", "Kokilaben Dhirubhai Ambani Hospital", "MUMBAI", 14, 120},
	{"IN-BLR-NARAYANA", "Narayana Health City", "BENGALURU", 22, 165},
	{"IN-BLR-VIKRAM", "Manipal Hospital", "BENGALURU", 12, 95},
	{"IN-CHN-APOLLO", "Apollo Hospital Chennai", "CHENNAI", 20, 150},
	{"IN-VLR-CMC", "CMC Vellore", "VELLORE", 15, 110},
	{"IN-HYD-YASHODA", "Yashoda Hospital", "HYDERABAD", 13, 100},
	{"IN-KOL-AMRI", "AMRI Hospital", "KOLKATA", 11, 92},
	{"IN-LKO-SGPGI", "Sanjay Gandhi Postgraduate Institute", "LUCKNOW", 10, 85},
	{"IN-CHD-PGIMER", "PGIMER Chandigarh", "CHANDIGARH", 14, 108},
}

// IndiaCapacityPriors returns the prior rows, filtered to the city when it
// has any, and the synthetic collection week label.
func IndiaCapacityPriors(city string) ([]CapacityRecord, string) {
	cityKey := strings.ToUpper(strings.TrimSpace(city))

	rows := indiaCapacityPriors
	if cityKey != "" {
		filtered := rows[:0:0]
		for _, row := range rows {
			if row.City == cityKey {
				filtered = append(filtered, row)
			}
		}
		if len(filtered) > 0 {
			rows = filtered
		}
	}

	records := make([]CapacityRecord, 0, len(rows))
	for _, row := range rows {
		icu, inpatient := row.ICU, row.Inpatient
		records = append(records, CapacityRecord{
			HospitalPK:             row.HospitalID,
			CCN:                    row.HospitalID,
			Name:                   row.Name,
			NormalizedName:         NormalizeHospitalName(row.Name),
			City:                   row.City,
			State:                  "IN",
			CollectionWeek:         syntheticPriorWeek,
			AvailableInpatientBeds: &inpatient,
			AvailableICUBeds:       &icu,
		})
	}
	return records, syntheticPriorWeek
}
