// Package analytics computes descriptive statistics over biometric values
// and access-pattern summaries over audit entries. All functions are pure.
package analytics

import (
	"time"

	"biometric-service/internal/model"
)

// ValueStats summarizes the value column of a set of biometric records.
type ValueStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Summarize computes count, arithmetic mean, min and max over values.
// The second return is false when values is empty.
func Summarize(values []float64) (ValueStats, bool) {
	if len(values) == 0 {
		return ValueStats{}, false
	}

	stats := ValueStats{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Average = sum / float64(len(values))
	return stats, true
}

// AccessSummary aggregates audit entries by organization, by action and
// into an hourly time series.
type AccessSummary struct {
	TotalAccesses        int            `json:"total_accesses"`
	AccessByOrganization map[uint]int   `json:"access_by_organization"`
	AccessByAction       map[string]int `json:"access_by_action"`
	AccessTimeline       map[string]int `json:"access_timeline"`
}

// AnalyzeAccessPatterns builds an AccessSummary from audit entries. Entries
// without an organization are excluded from the per-organization counts but
// still counted in the totals and timeline. Timeline keys are hour buckets
// in RFC 3339 format.
func AnalyzeAccessPatterns(logs []model.AccessLog) AccessSummary {
	summary := AccessSummary{
		TotalAccesses:        len(logs),
		AccessByOrganization: make(map[uint]int),
		AccessByAction:       make(map[string]int),
		AccessTimeline:       make(map[string]int),
	}

	for _, log := range logs {
		if log.OrganizationID != nil {
			summary.AccessByOrganization[*log.OrganizationID]++
		}
		summary.AccessByAction[log.Action]++

		bucket := log.Timestamp.Truncate(time.Hour).Format(time.RFC3339)
		summary.AccessTimeline[bucket]++
	}

	return summary
}
