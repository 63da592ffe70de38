// Package ranking computes period-over-period change rankings: which
// entities moved the most, up or down, between a period and the one before.
package ranking

import (
	"sort"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
	"github.com/eulademuhizi/malaria-dashboard-api/pkg/utils"
)

// RankChanges compares each entity in current against the same entity in
// previous and returns the topK biggest increases and topK biggest decreases,
// ordered by absolute change.
//
// Entities missing from previous are treated as unchanged (change = 0).
// A previous value of 0 yields a percentage change of 0, never a division
// error. Ties keep the iteration order of current (stable sort). The
// function has no side effects.
func RankChanges(
	current []domain.Observation,
	previous []domain.Observation,
	metric domain.Metric,
	topK int,
) (increases, decreases []domain.ChangeRecord) {
	if len(current) == 0 || topK <= 0 {
		return nil, nil
	}

	previousByEntity := make(map[string]domain.Observation, len(previous))
	for _, obs := range previous {
		previousByEntity[obs.EntityKey()] = obs
	}

	records := make([]domain.ChangeRecord, 0, len(current))
	for _, obs := range current {
		currentValue := obs.Value(metric.Key)

		previousValue := currentValue
		if prev, ok := previousByEntity[obs.EntityKey()]; ok {
			previousValue = prev.Value(metric.Key)
		}

		change := currentValue - previousValue

		records = append(records, domain.ChangeRecord{
			Entity:         obs.Entity,
			District:       obs.District,
			CurrentValue:   currentValue,
			PreviousValue:  previousValue,
			Change:         change,
			ChangePct:      utils.PercentageChange(currentValue, previousValue),
			MetricName:     metric.ShortName,
			CurrentDisplay: formatValue(metric, currentValue),
			ChangeDisplay:  formatDelta(metric, change),
		})
	}

	increases = topBy(records, topK, func(a, b domain.ChangeRecord) bool {
		return a.Change > b.Change
	})
	decreases = topBy(records, topK, func(a, b domain.ChangeRecord) bool {
		return a.Change < b.Change
	})

	return increases, decreases
}

// topBy returns the first k records after a stable sort by less.
func topBy(records []domain.ChangeRecord, k int, less func(a, b domain.ChangeRecord) bool) []domain.ChangeRecord {
	sorted := make([]domain.ChangeRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	if k > len(sorted) {
		k = len(sorted)
	}

	return sorted[:k]
}

func formatValue(metric domain.Metric, v float64) string {
	if metric.Kind == domain.MetricKindRate {
		return utils.FormatRate(v)
	}
	return utils.FormatCount(v)
}

func formatDelta(metric domain.Metric, v float64) string {
	if metric.Kind == domain.MetricKindRate {
		return utils.FormatSignedRate(v)
	}
	return utils.FormatSignedCount(v)
}
