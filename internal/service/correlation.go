package service

import (
	"math"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

// CorrelationDiagnostics counts per-pair anomalies handled during one run.
// Skips never surface as errors; the counters exist for observability only.
type CorrelationDiagnostics struct {
	PairsConsidered   int
	SkippedOverlap    int
	SkippedDegenerate int
}

// PairwiseCorrelations computes the Pearson correlation and two-sided
// p-value for every unordered pair of metric keys, over the dates where
// both series have a value. Metric keys are iterated in lexical order with
// i < j, so each pair appears in exactly one orientation and re-running on
// unchanged data yields identical output ordering.
//
// Pairs are skipped without a record when fewer than minOverlap dates
// overlap, when either series has zero variance over the overlap, or when
// the computation yields a non-finite value. NaN never escapes this
// function.
func PairwiseCorrelations(series models.MetricSeries, minOverlap int) ([]models.CorrelationRecord, CorrelationDiagnostics) {
	// Pearson's test needs df = n-2 > 0
	if minOverlap < 3 {
		minOverlap = 3
	}

	keys := sortedMetricKeys(series)
	records := make([]models.CorrelationRecord, 0)
	var diag CorrelationDiagnostics

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			diag.PairsConsidered++

			dates := overlappingDates(series[keys[i]], series[keys[j]])
			if len(dates) < minOverlap {
				diag.SkippedOverlap++
				continue
			}

			x := make([]float64, len(dates))
			y := make([]float64, len(dates))
			for k, date := range dates {
				x[k] = series[keys[i]][date]
				y[k] = series[keys[j]][date]
			}

			r, ok := pearsonCorrelation(x, y)
			if !ok {
				diag.SkippedDegenerate++
				continue
			}

			p := pearsonPValue(r, len(dates))
			if math.IsNaN(p) || math.IsInf(p, 0) {
				diag.SkippedDegenerate++
				continue
			}

			records = append(records, models.CorrelationRecord{
				MetricA:     keys[i],
				MetricB:     keys[j],
				Coefficient: r,
				PValue:      p,
				SampleSize:  len(dates),
			})
		}
	}

	return records, diag
}

// pearsonCorrelation computes the Pearson correlation coefficient of two
// equal-length samples. ok is false when either sample has zero variance
// or the result is not finite.
func pearsonCorrelation(x, y []float64) (r float64, ok bool) {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var numerator, denomX, denomY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	if denomX == 0 || denomY == 0 {
		return 0, false
	}

	r = numerator / math.Sqrt(denomX*denomY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}

	// Guard against floating point drift just past the bounds
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	return r, true
}

// pearsonPValue computes the two-sided p-value for a Pearson coefficient
// under the null hypothesis of no correlation, via the exact Student's t
// distribution with n-2 degrees of freedom.
func pearsonPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))

	// Two-sided p = I_{df/(df+t^2)}(df/2, 1/2) where I is the regularized
	// incomplete beta function
	x := df / (df + t*t)
	p := regularizedIncompleteBeta(df/2, 0.5, x)

	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return p
}

// regularizedIncompleteBeta computes I_x(a, b) using the continued
// fraction expansion (Numerical Recipes 6.4)
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	front := math.Exp(lgAB - lgA - lgB + a*math.Log(x) + b*math.Log(1-x))

	// The continued fraction converges quickly for x < (a+1)/(a+b+2);
	// otherwise use the symmetry relation
	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction evaluates the incomplete beta continued fraction
// using the modified Lentz method
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-300
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		m2 := float64(2 * m)
		fm := float64(m)

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := d * c
		h *= delta

		if math.Abs(delta-1) < epsilon {
			break
		}
	}

	return h
}
