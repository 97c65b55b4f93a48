package models

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical day-precision format used throughout the
// engine. Log points are daily observations; time of day is never stored.
const DateFormat = "2006-01-02"

// Domain represents a life-area category that log points belong to
type Domain string

const (
	DomainSleep      Domain = "sleep"
	DomainFitness    Domain = "fitness"
	DomainClimbing   Domain = "climbing"
	DomainLearning   Domain = "learning"
	DomainReflection Domain = "reflection"
	DomainOther      Domain = "other"
)

// ValidDomains lists every recognized domain value
var ValidDomains = []Domain{
	DomainSleep,
	DomainFitness,
	DomainClimbing,
	DomainLearning,
	DomainReflection,
	DomainOther,
}

// IsValid reports whether d is one of the recognized domains
func (d Domain) IsValid() bool {
	for _, v := range ValidDomains {
		if d == v {
			return true
		}
	}
	return false
}

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LogPoint is one raw observation of a metric on a date. Value is nil for
// notes-only entries (e.g. journal text), which are excluded from numeric
// analysis but available to the summarization collaborator.
type LogPoint struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Domain    Domain    `json:"domain"`
	Metric    string    `json:"metric"`
	Value     *float64  `json:"value,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricKey returns the identifier of the series this point feeds:
// the domain and metric name joined by an underscore.
func (p LogPoint) MetricKey() string {
	return MakeMetricKey(p.Domain, p.Metric)
}

// MakeMetricKey forms a metric key from a domain and metric name
func MakeMetricKey(domain Domain, metric string) string {
	return fmt.Sprintf("%s_%s", domain, metric)
}

// SplitMetricKey splits a metric key back into its domain and metric name.
// The metric name itself may contain underscores; only the first one
// separates the domain.
func SplitMetricKey(key string) (domain, metric string) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// DateSeries maps a date (formatted as DateFormat) to the averaged value
// observed on that day. Missing days are absent, never zero-filled.
type DateSeries map[string]float64

// MetricSeries is the per-user table derived from raw log points: one
// sparse date-indexed series per metric key. Built fresh per analysis
// run and never persisted.
type MetricSeries map[string]DateSeries

// CreateLogPointRequest represents the request to record a log point
type CreateLogPointRequest struct {
	Date   string   `json:"date" binding:"required"`
	Domain Domain   `json:"domain" binding:"required"`
	Metric string   `json:"metric" binding:"required"`
	Value  *float64 `json:"value"`
	Note   *string  `json:"note"`
}

// CreateJournalEntryRequest represents the request to record a journal
// entry, stored as a reflection-domain log point whose note carries the
// free text and whose value is the optional mood score.
type CreateJournalEntryRequest struct {
	Date      string   `json:"date" binding:"required"`
	Content   string   `json:"content" binding:"required"`
	MoodScore *float64 `json:"mood_score"`
}
