package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

// Strength bands for the narrative. The selector's prefilter means the
// "weak" band only ever fires for 0.3 < |r| <= 0.5, which is a real,
// expected category.
const (
	strongThreshold   = 0.7
	moderateThreshold = 0.5
)

// DescribeCorrelation renders a selected correlation record as a single
// human-readable sentence. Pure function of the record and the polarity
// table; it never touches storage.
//
// lowerIsBetter marks metric keys where a higher value is worse (e.g.
// reflection_stress), flipping the better/worse wording for cross-domain
// relationships instead of assuming higher-is-better everywhere.
func DescribeCorrelation(rec models.CorrelationRecord, lowerIsBetter map[string]bool) string {
	domainA, metricA := models.SplitMetricKey(rec.MetricA)
	domainB, metricB := models.SplitMetricKey(rec.MetricB)

	absR := math.Abs(rec.Coefficient)
	strength := "weak"
	if absR > strongThreshold {
		strength = "strong"
	} else if absR > moderateThreshold {
		strength = "moderate"
	}

	direction := "negative"
	if rec.Coefficient > 0 {
		direction = "positive"
	}

	var sentence string
	if domainA == domainB {
		sentence = fmt.Sprintf("%s and %s show a %s %s correlation",
			titleWords(metricA), titleWords(metricB), strength, direction)
	} else {
		// Metric B improves with metric A when the correlation is positive,
		// unless a higher value of B is explicitly bad
		better := rec.Coefficient > 0
		if lowerIsBetter[rec.MetricB] {
			better = !better
		}
		quality := "worse"
		if better {
			quality = "better"
		}
		sentence = fmt.Sprintf("Higher %s in %s is associated with %s %s in %s",
			displayWords(metricA), domainA, quality, displayWords(metricB), domainB)
	}

	return fmt.Sprintf("%s (r=%.2f, %.1f%% relationship%s)",
		sentence, rec.Coefficient, absR*100, significanceQualifier(rec.PValue))
}

func significanceQualifier(p float64) string {
	switch {
	case p < 0.01:
		return ", highly significant"
	case p < 0.05:
		return ", significant"
	default:
		return ""
	}
}

// displayWords turns a metric name like "hours_slept" into "hours slept"
func displayWords(metric string) string {
	return strings.ReplaceAll(metric, "_", " ")
}

// titleWords turns a metric name like "hours_slept" into "Hours Slept"
func titleWords(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
