package service

import (
	"testing"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

func rec(a, b string, r, p float64) models.CorrelationRecord {
	return models.CorrelationRecord{MetricA: a, MetricB: b, Coefficient: r, PValue: p, SampleSize: 10}
}

func TestSelectTopCorrelationsJointGate(t *testing.T) {
	records := []models.CorrelationRecord{
		rec("a_x", "b_y", 0.8, 0.001),  // passes both gates
		rec("a_x", "c_z", 0.8, 0.05),   // p exactly at cutoff: excluded
		rec("a_x", "d_w", 0.3, 0.001),  // |r| exactly at cutoff: excluded
		rec("a_x", "e_v", 0.9, 0.2),    // strong but insignificant: excluded
		rec("a_x", "f_u", 0.1, 0.0001), // significant but weak: excluded
		rec("a_x", "g_t", -0.31, 0.049), // just inside both gates
	}

	positive, negative := SelectTopCorrelations(records, 0.05, 0.3, 3)

	if len(positive) != 1 || positive[0].MetricB != "b_y" {
		t.Errorf("expected only a_x/b_y in positive, got %+v", positive)
	}
	if len(negative) != 1 || negative[0].MetricB != "g_t" {
		t.Errorf("expected only a_x/g_t in negative, got %+v", negative)
	}
}

func TestSelectTopCorrelationsPolarityAndTruncation(t *testing.T) {
	records := []models.CorrelationRecord{
		rec("a_1", "b_1", 0.5, 0.01),
		rec("a_2", "b_2", 0.9, 0.01),
		rec("a_3", "b_3", 0.7, 0.01),
		rec("a_4", "b_4", 0.6, 0.01),
		rec("a_5", "b_5", -0.8, 0.01),
		rec("a_6", "b_6", -0.4, 0.01),
	}

	positive, negative := SelectTopCorrelations(records, 0.05, 0.3, 2)

	if len(positive) != 2 {
		t.Fatalf("expected 2 positive, got %d", len(positive))
	}
	if positive[0].Coefficient != 0.9 || positive[1].Coefficient != 0.7 {
		t.Errorf("expected strongest-first truncation, got %g then %g",
			positive[0].Coefficient, positive[1].Coefficient)
	}

	if len(negative) != 2 {
		t.Fatalf("expected 2 negative, got %d", len(negative))
	}
	if negative[0].Coefficient != -0.8 {
		t.Errorf("expected -0.8 first in negative, got %g", negative[0].Coefficient)
	}
}

func TestSelectTopCorrelationsTieBreaks(t *testing.T) {
	// Equal |r|: smaller p wins; equal p too: lexical pair order wins
	records := []models.CorrelationRecord{
		rec("z_m", "z_n", 0.6, 0.01),
		rec("a_m", "a_n", 0.6, 0.01),
		rec("m_m", "m_n", 0.6, 0.001),
	}

	positive, _ := SelectTopCorrelations(records, 0.05, 0.3, 3)

	if len(positive) != 3 {
		t.Fatalf("expected 3 records, got %d", len(positive))
	}
	if positive[0].MetricA != "m_m" {
		t.Errorf("expected smallest p first, got %s", positive[0].MetricA)
	}
	if positive[1].MetricA != "a_m" || positive[2].MetricA != "z_m" {
		t.Errorf("expected lexical order among full ties, got %s then %s",
			positive[1].MetricA, positive[2].MetricA)
	}
}

func TestSelectTopCorrelationsEmpty(t *testing.T) {
	positive, negative := SelectTopCorrelations(nil, 0.05, 0.3, 3)
	if len(positive) != 0 || len(negative) != 0 {
		t.Errorf("expected empty selection from no records, got %d/%d", len(positive), len(negative))
	}
}
