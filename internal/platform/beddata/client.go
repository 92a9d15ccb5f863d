// Package beddata reads hospital bed capacity from the HHS facility
// dataset on healthdata.gov (a Socrata endpoint). The dataset reports
// 7-day averages per facility; values at or below -999000 are privacy
// suppression markers and are treated as unknown.
package beddata

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const suppressedThreshold = -999000

// Record is one facility's capacity for a collection week. Availability
// fields are nil when the underlying metrics were suppressed or missing.
type Record struct {
	HospitalPK             string
	CCN                    string
	Name                   string
	City                   string
	State                  string
	CollectionWeek         string
	AvailableInpatientBeds *int
	AvailableICUBeds       *int
}

type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

func NewClient(baseURL, userAgent string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		logger: logger,
	}
}

type latestWeekRow struct {
	LatestWeek string `json:"latest_week"`
}

// LatestWeek returns the most recent collection_week present for a state,
// or "" when the state has no rows.
func (c *Client) LatestWeek(ctx context.Context, stateCode string) (string, error) {
	var rows []latestWeekRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"$select": "max(collection_week) as latest_week",
			"$where":  fmt.Sprintf("state='%s'", escapeSoQL(stateCode)),
		}).
		SetResult(&rows).
		Get("")
	if err != nil {
		return "", fmt.Errorf("bed data latest week: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("bed data latest week: status %d", resp.StatusCode())
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].LatestWeek, nil
}

type capacityRow struct {
	HospitalPK        string `json:"hospital_pk"`
	CCN               string `json:"ccn"`
	HospitalName      string `json:"hospital_name"`
	City              string `json:"city"`
	State             string `json:"state"`
	CollectionWeek    string `json:"collection_week"`
	InpatientBedsAvg  string `json:"inpatient_beds_7_day_avg"`
	InpatientUsedAvg  string `json:"inpatient_beds_used_7_day_avg"`
	ICUBedsAvg        string `json:"total_staffed_adult_icu_beds_7_day_avg"`
	ICUOccupiedAvg    string `json:"staffed_adult_icu_bed_occupancy_7_day_avg"`
}

const capacityFields = "hospital_pk,ccn,hospital_name,city,state,collection_week," +
	"inpatient_beds_7_day_avg,inpatient_beds_used_7_day_avg," +
	"total_staffed_adult_icu_beds_7_day_avg,staffed_adult_icu_bed_occupancy_7_day_avg"

// FetchCapacity loads capacity records for a state's latest collection week.
// When city is non-empty the query is filtered to that city first; if the
// filter returns nothing the whole state is fetched instead. Returns the
// records and the collection week they belong to.
func (c *Client) FetchCapacity(ctx context.Context, stateCode, city string) ([]Record, string, error) {
	if stateCode == "" {
		return nil, "", nil
	}

	latestWeek, err := c.LatestWeek(ctx, stateCode)
	if err != nil {
		return nil, "", err
	}
	if latestWeek == "" {
		return nil, "", nil
	}

	rows, err := c.queryCapacity(ctx, stateCode, latestWeek, city)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 && city != "" {
		rows, err = c.queryCapacity(ctx, stateCode, latestWeek, "")
		if err != nil {
			return nil, "", err
		}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			HospitalPK:             row.HospitalPK,
			CCN:                    row.CCN,
			Name:                   row.HospitalName,
			City:                   row.City,
			State:                  row.State,
			CollectionWeek:         row.CollectionWeek,
			AvailableInpatientBeds: availableBeds(row.InpatientBedsAvg, row.InpatientUsedAvg),
			AvailableICUBeds:       availableBeds(row.ICUBedsAvg, row.ICUOccupiedAvg),
		})
	}

	c.logger.Debug().
		Str("state", stateCode).
		Str("collection_week", latestWeek).
		Int("facilities", len(records)).
		Msg("bed capacity fetched")
	return records, latestWeek, nil
}

func (c *Client) queryCapacity(ctx context.Context, stateCode, week, city string) ([]capacityRow, error) {
	whereParts := []string{
		fmt.Sprintf("state='%s'", escapeSoQL(stateCode)),
		fmt.Sprintf("collection_week='%s'", escapeSoQL(week)),
	}
	if city != "" {
		whereParts = append(whereParts, fmt.Sprintf("upper(city)='%s'", escapeSoQL(strings.ToUpper(city))))
	}

	var rows []capacityRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"$select": capacityFields,
			"$where":  strings.Join(whereParts, " AND "),
			"$limit":  "500",
		}).
		SetResult(&rows).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("bed data capacity: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bed data capacity: status %d", resp.StatusCode())
	}
	return rows, nil
}

// parseMetric interprets a Socrata numeric string; suppressed and unparsable
// values become nil.
func parseMetric(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	if v <= suppressedThreshold {
		return nil
	}
	return &v
}

func availableBeds(totalRaw, usedRaw string) *int {
	total := parseMetric(totalRaw)
	used := parseMetric(usedRaw)
	if total == nil || used == nil {
		return nil
	}
	available := int(math.Round(*total - *used))
	if available < 0 {
		available = 0
	}
	return &available
}

func escapeSoQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
