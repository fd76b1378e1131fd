package scoring

import (
	"math"

	"survival-coach/internal/models"
)

// trendBand is the tolerance, in score points, within which the recent and
// older halves of the history are considered stable.
const trendBand = 2.0

// AggregateStats computes average process quality across a trade history.
// Trades without a process evaluation are skipped. An empty or unevaluated
// history yields the zero-value stats with a STABLE trend.
func AggregateStats(trades []*models.Trade) models.ProcessStats {
	var evaluated []*models.ProcessEvaluation
	for _, t := range trades {
		if t != nil && t.ProcessEvaluation != nil {
			evaluated = append(evaluated, t.ProcessEvaluation)
		}
	}

	stats := models.ProcessStats{Trend: models.TrendStable, WeakestArea: models.AreaSetup}
	if len(evaluated) == 0 {
		return stats
	}

	var totalSum float64
	var dims models.DimensionScores
	for _, ev := range evaluated {
		totalSum += float64(ev.TotalProcessScore)
		dims.Setup += ev.Scores.Setup
		dims.Risk += ev.Scores.Risk
		dims.Emotion += ev.Scores.Emotion
		dims.Execution += ev.Scores.Execution
	}

	n := float64(len(evaluated))
	stats.AverageScore = round1(totalSum / n)
	stats.DetailedScores = models.DimensionScores{
		Setup:     round1(dims.Setup / n),
		Risk:      round1(dims.Risk / n),
		Emotion:   round1(dims.Emotion / n),
		Execution: round1(dims.Execution / n),
	}
	stats.WeakestArea = weakestArea(stats.DetailedScores)
	stats.Trend = computeTrend(evaluated)

	return stats
}

// computeTrend compares the mean total score of the recent half of the
// history against the older half. Evaluations are expected newest-first, the
// application state ordering.
func computeTrend(evaluated []*models.ProcessEvaluation) models.Trend {
	if len(evaluated) < 4 {
		return models.TrendStable
	}

	mid := len(evaluated) / 2
	recent := meanTotal(evaluated[:mid])
	older := meanTotal(evaluated[mid:])

	switch {
	case recent > older+trendBand:
		return models.TrendImproving
	case recent < older-trendBand:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func meanTotal(evs []*models.ProcessEvaluation) float64 {
	if len(evs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, ev := range evs {
		sum += float64(ev.TotalProcessScore)
	}
	return sum / float64(len(evs))
}
