// Package shadow estimates whether a trader's self-report was a genuine
// reflection or a rushed formality, and converts that estimate into a
// trust-weighted XP multiplier.
package shadow

import (
	"math"

	"survival-coach/internal/models"
)

// Authenticity scoring constants. Under rushedThreshold seconds the form was
// almost certainly clicked through; over thoughtfulThreshold it was a real
// reflection. Between the two, authenticity rises linearly.
const (
	rushedThreshold     = 10.0
	thoughtfulThreshold = 120.0
	rushedScore         = 20.0
	thoughtfulScore     = 95.0
)

const (
	authenticityWeight = 0.4
	behaviorGapWeight  = 0.6
)

// maxDimensionGap is the largest possible difference between a self-rated and
// a derived dimension score on the 1-10 scale.
const maxDimensionGap = 9.0

// Engine computes shadow scores. It is stateless; a single instance can be
// shared freely.
type Engine struct{}

// NewEngine creates a shadow score engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Calculate derives the shadow score for a completed reflection. Pure
// function; a trade without a process evaluation degrades to a neutral
// behavior gap rather than erroring.
func (e *Engine) Calculate(trade *models.Trade, userEval *models.UserProcessEvaluation, interaction models.DojoInteractionData) models.ShadowScore {
	authenticity := responseAuthenticity(interaction)
	gap := behaviorGap(trade, userEval)

	raw := int(math.Round(authenticity*authenticityWeight + gap*behaviorGapWeight))

	trust := trustLevel(raw)

	return models.ShadowScore{
		RawScore:   raw,
		TrustLevel: trust,
		Breakdown: models.ShadowBreakdown{
			ResponseAuthenticity: authenticity,
			BehaviorGap:          gap,
		},
		AdjustmentFactors: adjustmentFactors(trust),
	}
}

// responseAuthenticity maps time spent on the reflection form to a 0-100
// authenticity proxy.
func responseAuthenticity(interaction models.DojoInteractionData) float64 {
	seconds := float64(interaction.EndTime-interaction.StartTime) / 1000

	if seconds < rushedThreshold {
		return rushedScore
	}
	if seconds > thoughtfulThreshold {
		return thoughtfulScore
	}

	score := rushedScore + (seconds-rushedThreshold)*
		((thoughtfulScore-rushedScore)/(thoughtfulThreshold-rushedThreshold))
	return math.Min(100, math.Round(score))
}

// behaviorGap measures how closely the trader's self-ratings track the
// derived process dimensions. Without a process evaluation on the trade the
// gap defaults to a neutral 50.
func behaviorGap(trade *models.Trade, userEval *models.UserProcessEvaluation) float64 {
	if trade.ProcessEvaluation == nil {
		return 50
	}

	derived := trade.ProcessEvaluation.Scores
	self := models.DimensionScores{
		Setup:     float64(userEval.SetupClarity),
		Risk:      float64(userEval.FollowedPositionSizing),
		Emotion:   float64(11 - userEval.EmotionalInfluence),
		Execution: float64(userEval.PlanAdherence+userEval.ImpulsiveActions) / 2,
	}

	avgDiff := (math.Abs(derived.Setup-self.Setup) +
		math.Abs(derived.Risk-self.Risk) +
		math.Abs(derived.Emotion-self.Emotion) +
		math.Abs(derived.Execution-self.Execution)) / 4

	score := 100 - (avgDiff/maxDimensionGap)*100
	return math.Max(0, math.Round(score))
}

// trustLevel buckets the raw score. Exact boundary values fall to the lower
// tier: 80 is MEDIUM, 50 is LOW.
func trustLevel(score int) models.TrustLevel {
	if score > 80 {
		return models.HighTrust
	}
	if score > 50 {
		return models.MediumTrust
	}
	return models.LowTrust
}

// adjustmentFactors is a fixed lookup keyed by trust level.
func adjustmentFactors(trust models.TrustLevel) models.AdjustmentFactors {
	switch trust {
	case models.HighTrust:
		return models.AdjustmentFactors{XPMultiplier: 1.15, VerificationLevel: models.VerificationHigh}
	case models.MediumTrust:
		return models.AdjustmentFactors{XPMultiplier: 1.0, VerificationLevel: models.VerificationMedium}
	default:
		return models.AdjustmentFactors{XPMultiplier: 0.85, VerificationLevel: models.VerificationLow}
	}
}
