package stats

import (
	"time"

	"regdesk/internal/registration/models"
)

// Bucket is one fixed-size period of the cumulative series. Cumulative values
// never decrease across consecutive buckets; periods without new registrations
// carry the previous values forward.
type Bucket struct {
	Label      string                      `json:"bucketLabel"`
	Start      time.Time                   `json:"start"`
	Cumulative map[models.Category]int     `json:"cumulativeCountsByCategory"`
	Total      int                         `json:"totalCumulative"`
}

// WeekCohort counts new registrations in one week relative to T0. Week 1
// starts the Monday of T0's week, not the calendar year's.
type WeekCohort struct {
	WeekIndex   int                     `json:"weekIndex"`
	StartOfWeek time.Time               `json:"startOfWeek"`
	Total       int                     `json:"totalCount"`
	PerCategory map[models.Category]int `json:"perCategoryCounts"`
}

// WeekRef points at the record week.
type WeekRef struct {
	Week  int `json:"week"`
	Count int `json:"count"`
}

// Summary carries the derived statistics. GrowthRate nil means "insufficient
// data" (fewer than two weekly cohorts); zero means measured and flat. Callers
// must be able to tell the two apart.
type Summary struct {
	GrowthRate *float64 `json:"growthRate"`
	AvgPerDay  float64  `json:"avgPerDay"`
	RecordWeek *WeekRef `json:"recordWeek"`
}

// Series is the full aggregation output. It always covers the whole history;
// display windows (most recent buckets or weeks) are the caller's concern so
// the summary stays correct regardless of what is shown.
type Series struct {
	Bucketed []Bucket     `json:"bucketed"`
	Weekly   []WeekCohort `json:"weekly"`
	Stats    Summary      `json:"stats"`
}
