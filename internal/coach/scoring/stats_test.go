package scoring

import (
	"testing"

	"survival-coach/internal/models"
)

func evaluatedTrade(total int, scores models.DimensionScores) *models.Trade {
	return &models.Trade{
		Status: models.TradeClosed,
		ProcessEvaluation: &models.ProcessEvaluation{
			TotalProcessScore: total,
			Scores:            scores,
		},
	}
}

func TestAggregateStatsEmptyHistory(t *testing.T) {
	stats := AggregateStats(nil)
	if stats.AverageScore != 0 {
		t.Errorf("average = %.1f, want 0", stats.AverageScore)
	}
	if stats.Trend != models.TrendStable {
		t.Errorf("trend = %s, want STABLE", stats.Trend)
	}
}

func TestAggregateStatsSkipsUnevaluated(t *testing.T) {
	trades := []*models.Trade{
		{Status: models.TradeOpen},
		evaluatedTrade(80, models.DimensionScores{Setup: 8, Risk: 8, Emotion: 8, Execution: 8}),
		{Status: models.TradeClosed},
	}

	stats := AggregateStats(trades)
	if stats.AverageScore != 80 {
		t.Errorf("average = %.1f, want 80", stats.AverageScore)
	}
}

func TestComputeTrend(t *testing.T) {
	dims := models.DimensionScores{Setup: 5, Risk: 5, Emotion: 5, Execution: 5}

	tests := []struct {
		name   string
		totals []int // newest-first
		want   models.Trend
	}{
		{"too few evaluations", []int{90, 10, 90}, models.TrendStable},
		{"improving", []int{80, 80, 60, 60}, models.TrendImproving},
		{"declining", []int{60, 60, 80, 80}, models.TrendDeclining},
		{"within band", []int{71, 71, 70, 70}, models.TrendStable},
		{"exactly at band edge", []int{72, 72, 70, 70}, models.TrendStable},
		{"just past band edge", []int{73, 73, 70, 70}, models.TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trades []*models.Trade
			for _, total := range tt.totals {
				trades = append(trades, evaluatedTrade(total, dims))
			}
			stats := AggregateStats(trades)
			if stats.Trend != tt.want {
				t.Errorf("trend = %s, want %s", stats.Trend, tt.want)
			}
		})
	}
}
