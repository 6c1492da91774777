package stats

import (
	"sort"
	"time"

	"regdesk/internal/registration/models"
)

// DefaultBucketDays is the period size of the cumulative series.
const DefaultBucketDays = 5

// DefaultGrowthCapPercent bounds the reported growth when the prior week had
// zero registrations and the ratio is undefined. Display policy inherited from
// the product, not a mathematical bound.
const DefaultGrowthCapPercent = 100

// Builder derives the time series from a reconciled participant set.
type Builder struct {
	BucketDays       int
	GrowthCapPercent float64
}

func NewBuilder(bucketDays int, growthCapPercent float64) *Builder {
	if bucketDays <= 0 {
		bucketDays = DefaultBucketDays
	}
	if growthCapPercent <= 0 {
		growthCapPercent = DefaultGrowthCapPercent
	}
	return &Builder{BucketDays: bucketDays, GrowthCapPercent: growthCapPercent}
}

// BuildSeries computes the cumulative bucketed series, the weekly cohorts, and
// the summary stats over the full history from T0 (earliest registration) to
// now. Pure: no I/O, no side effects, safe to re-run on every input change.
//
// Records without a registration timestamp are tolerated and skipped. An empty
// effective set returns empty series with a nil growth rate, which callers
// must distinguish from a measured flat zero.
func (b *Builder) BuildSeries(reconciled []models.ParticipantRecord, now time.Time) Series {
	registered := make([]models.ParticipantRecord, 0, len(reconciled))
	for _, record := range reconciled {
		if !record.RegisteredAt.IsZero() {
			registered = append(registered, record)
		}
	}
	if len(registered) == 0 {
		return Series{Bucketed: []Bucket{}, Weekly: []WeekCohort{}}
	}

	sort.Slice(registered, func(i, j int) bool {
		return registered[i].RegisteredAt.Before(registered[j].RegisteredAt)
	})

	t0 := DayOf(registered[0].RegisteredAt)
	if now.Before(t0) {
		now = t0
	}

	weekly := b.buildWeekly(registered, t0, now)
	return Series{
		Bucketed: b.buildBuckets(registered, t0, now),
		Weekly:   weekly,
		Stats:    b.buildSummary(registered, weekly, t0, now),
	}
}

// buildBuckets walks the bucket grid from T0 to now, carrying cumulative
// counts forward so a period with no new registrations never shows a dip.
func (b *Builder) buildBuckets(registered []models.ParticipantRecord, t0, now time.Time) []Bucket {
	lastIndex := BucketIndex(t0, now, b.BucketDays)

	buckets := make([]Bucket, 0, lastIndex+1)
	running := map[models.Category]int{}
	total := 0
	next := 0

	for i := 0; i <= lastIndex; i++ {
		start := t0.AddDate(0, 0, i*b.BucketDays)
		end := start.AddDate(0, 0, b.BucketDays)

		for next < len(registered) && registered[next].RegisteredAt.Before(end) {
			running[registered[next].Category]++
			total++
			next++
		}

		cumulative := make(map[models.Category]int, len(models.Categories()))
		for _, category := range models.Categories() {
			cumulative[category] = running[category]
		}
		buckets = append(buckets, Bucket{
			Label:      start.Format("2006-01-02"),
			Start:      start,
			Cumulative: cumulative,
			Total:      total,
		})
	}
	return buckets
}

// buildWeekly counts new registrations per T0-anchored week, including empty
// weeks up to now so the cohort index stays contiguous.
func (b *Builder) buildWeekly(registered []models.ParticipantRecord, t0, now time.Time) []WeekCohort {
	firstWeek := WeekStart(t0)
	lastIndex := WeekIndex(t0, now)

	cohorts := make([]WeekCohort, 0, lastIndex)
	for week := 1; week <= lastIndex; week++ {
		cohorts = append(cohorts, WeekCohort{
			WeekIndex:   week,
			StartOfWeek: firstWeek.AddDate(0, 0, (week-1)*7),
			PerCategory: map[models.Category]int{},
		})
	}

	for _, record := range registered {
		week := WeekIndex(t0, record.RegisteredAt)
		if week < 1 || week > lastIndex {
			continue
		}
		cohorts[week-1].Total++
		cohorts[week-1].PerCategory[record.Category]++
	}
	return cohorts
}

func (b *Builder) buildSummary(registered []models.ParticipantRecord, weekly []WeekCohort, t0, now time.Time) Summary {
	summary := Summary{
		AvgPerDay: float64(len(registered)) / float64(max(1, DaysBetween(t0, now))),
	}

	summary.GrowthRate = b.growthRate(weekly)

	for i, cohort := range weekly {
		if summary.RecordWeek == nil || cohort.Total > summary.RecordWeek.Count {
			summary.RecordWeek = &WeekRef{Week: weekly[i].WeekIndex, Count: cohort.Total}
		}
	}
	return summary
}

// growthRate compares the two most recent weekly totals. A nil result means
// fewer than two cohorts exist; zero means two cohorts were measured flat.
func (b *Builder) growthRate(weekly []WeekCohort) *float64 {
	if len(weekly) < 2 {
		return nil
	}
	prior := weekly[len(weekly)-2].Total
	latest := weekly[len(weekly)-1].Total

	var rate float64
	switch {
	case prior == 0 && latest == 0:
		rate = 0
	case prior == 0:
		rate = b.GrowthCapPercent
	default:
		rate = (float64(latest) - float64(prior)) / float64(prior) * 100
	}
	return &rate
}
