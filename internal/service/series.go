package service

import (
	"errors"
	"sort"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

// ErrNoData indicates a user has zero log points in the analysis window.
// Non-fatal: batch callers treat it as "nothing to do".
var ErrNoData = errors.New("no log points in range")

// BuildMetricSeries reshapes raw log points into one sparse date-indexed
// series per metric key. Points that collide on the same user+date+metric
// key are averaged; notes-only points (nil value) are excluded entirely.
// Dates with no observation stay absent. The series is never zero-filled
// or forward-filled, so correlation math only ever sees real observations.
func BuildMetricSeries(points []models.LogPoint) models.MetricSeries {
	type bucket struct {
		sum   float64
		count int
	}

	sums := make(map[string]map[string]*bucket)
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		key := p.MetricKey()
		date := p.Date.Format(models.DateFormat)

		if sums[key] == nil {
			sums[key] = make(map[string]*bucket)
		}
		if b := sums[key][date]; b != nil {
			b.sum += *p.Value
			b.count++
		} else {
			sums[key][date] = &bucket{sum: *p.Value, count: 1}
		}
	}

	series := make(models.MetricSeries, len(sums))
	for key, dates := range sums {
		ds := make(models.DateSeries, len(dates))
		for date, b := range dates {
			ds[date] = b.sum / float64(b.count)
		}
		series[key] = ds
	}

	return series
}

// sortedMetricKeys returns the series' metric keys in lexical order, the
// stable iteration order used for pairwise analysis
func sortedMetricKeys(series models.MetricSeries) []string {
	keys := make([]string, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// overlappingDates returns the sorted dates present in both series
func overlappingDates(a, b models.DateSeries) []string {
	dates := make([]string, 0, len(a))
	for date := range a {
		if _, ok := b[date]; ok {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}
