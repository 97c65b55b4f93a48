package service

import (
	"math"
	"sort"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

// SelectTopCorrelations filters records through the joint significance and
// strength gate (both strict inequalities: p < significanceP AND
// |r| > minAbsR), partitions survivors by polarity, and keeps at most topN
// per group ordered strongest first. Ties in |r| break by smaller p-value,
// then by lexical pair order, so selection is deterministic even under
// floating point equality.
func SelectTopCorrelations(records []models.CorrelationRecord, significanceP, minAbsR float64, topN int) (positive, negative []models.CorrelationRecord) {
	for _, rec := range records {
		if rec.PValue >= significanceP || math.Abs(rec.Coefficient) <= minAbsR {
			continue
		}
		if rec.Coefficient > 0 {
			positive = append(positive, rec)
		} else {
			negative = append(negative, rec)
		}
	}

	sortByStrength(positive)
	sortByStrength(negative)

	if len(positive) > topN {
		positive = positive[:topN]
	}
	if len(negative) > topN {
		negative = negative[:topN]
	}

	return positive, negative
}

func sortByStrength(records []models.CorrelationRecord) {
	sort.Slice(records, func(i, j int) bool {
		absI := math.Abs(records[i].Coefficient)
		absJ := math.Abs(records[j].Coefficient)
		if absI != absJ {
			return absI > absJ
		}
		if records[i].PValue != records[j].PValue {
			return records[i].PValue < records[j].PValue
		}
		if records[i].MetricA != records[j].MetricA {
			return records[i].MetricA < records[j].MetricA
		}
		return records[i].MetricB < records[j].MetricB
	})
}
