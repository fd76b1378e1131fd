package scoring

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"survival-coach/internal/models"
)

// Feature: survival-coach, Property 1: Dimension scores bounded in [1, 10], total in [0, 100]
//
// Property: For any trade and any valid self-report, every dimension score
// produced by the process scorer stays within [1, 10] and the weighted total
// stays within [0, 100].

// selfReportGen generates a valid self-report with ratings in [1, 10]
func selfReportGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.UserProcessEvaluation{}), map[string]gopter.Gen{
		"SetupClarity":           gen.IntRange(1, 10),
		"HadPredefinedEntry":     gen.Bool(),
		"HadPredefinedSL":        gen.Bool(),
		"HadPredefinedTP":        gen.Bool(),
		"FollowedPositionSizing": gen.IntRange(1, 10),
		"PlanAdherence":          gen.IntRange(1, 10),
		"ImpulsiveActions":       gen.IntRange(1, 10),
		"EmotionalInfluence":     gen.IntRange(1, 10),
		"DominantEmotion": gen.OneConstOf(
			models.EmotionPatience, models.EmotionConfidence, models.EmotionNeutral,
			models.EmotionFear, models.EmotionGreed, models.EmotionFOMO,
		),
	})
}

// tradeGen generates a closed trade with realistic sizing and entry context
func tradeGen() gopter.Gen {
	reasonings := []string{
		"",
		"gut feel",
		"breakout above key resistance with strong volume confirmation",
		"retest of support after a clean rejection wick on the hourly",
		"revenge",
	}
	return gen.Struct(reflect.TypeOf(models.Trade{}), map[string]gopter.Gen{
		"PositionSize": gen.Float64Range(1, 1000),
		"Reasoning":    gen.OneConstOf(reasonings[0], reasonings[1], reasonings[2], reasonings[3], reasonings[4]),
		"Decision":     gen.OneConstOf(models.DecisionAllow, models.DecisionWarn, models.DecisionBlock),
	}).Map(func(t models.Trade) models.Trade {
		t.Status = models.TradeClosed
		return t
	})
}

// statsAtEntryGen generates streak context captured at trade entry
func statsAtEntryGen() gopter.Gen {
	return gen.IntRange(0, 8)
}

func TestProperty_DimensionScoresWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("All dimension scores are within [1, 10]", prop.ForAll(
		func(trade models.Trade, userEval models.UserProcessEvaluation, losses int) bool {
			trade.StatsAtEntry.ConsecutiveLosses = losses
			scorer := NewProcessScorer()

			eval := scorer.Evaluate(&trade, &userEval)

			for _, score := range []float64{
				eval.Scores.Setup, eval.Scores.Risk,
				eval.Scores.Emotion, eval.Scores.Execution,
			} {
				if score < 1 || score > 10 {
					return false
				}
			}
			return true
		},
		tradeGen(),
		selfReportGen(),
		statsAtEntryGen(),
	))

	properties.Property("Total process score is within [0, 100]", prop.ForAll(
		func(trade models.Trade, userEval models.UserProcessEvaluation, losses int) bool {
			trade.StatsAtEntry.ConsecutiveLosses = losses
			scorer := NewProcessScorer()

			eval := scorer.Evaluate(&trade, &userEval)
			return eval.TotalProcessScore >= 0 && eval.TotalProcessScore <= 100
		},
		tradeGen(),
		selfReportGen(),
		statsAtEntryGen(),
	))

	properties.TestingRun(t)
}

// Feature: survival-coach, Property 2: Weakest area is the minimum-scored dimension
//
// Property: The reported weakest area always holds the minimum score among the
// four dimensions, with ties resolved to the earliest dimension in the fixed
// order setup, risk, emotion, execution.
func TestProperty_WeakestAreaIsMinimum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("Weakest area holds the minimum dimension score", prop.ForAll(
		func(trade models.Trade, userEval models.UserProcessEvaluation, losses int) bool {
			trade.StatsAtEntry.ConsecutiveLosses = losses
			scorer := NewProcessScorer()

			eval := scorer.Evaluate(&trade, &userEval)

			byArea := map[models.ProcessArea]float64{
				models.AreaSetup:     eval.Scores.Setup,
				models.AreaRisk:      eval.Scores.Risk,
				models.AreaEmotion:   eval.Scores.Emotion,
				models.AreaExecution: eval.Scores.Execution,
			}
			weakestScore := byArea[eval.WeakestArea]
			for _, score := range byArea {
				if score < weakestScore {
					return false
				}
			}

			// Ties must resolve to the earliest dimension in the fixed order.
			for _, area := range []models.ProcessArea{
				models.AreaSetup, models.AreaRisk,
				models.AreaEmotion, models.AreaExecution,
			} {
				if byArea[area] == weakestScore {
					return area == eval.WeakestArea
				}
			}
			return false
		},
		tradeGen(),
		selfReportGen(),
		statsAtEntryGen(),
	))

	properties.TestingRun(t)
}
