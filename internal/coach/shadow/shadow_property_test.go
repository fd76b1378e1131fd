package shadow

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"survival-coach/internal/models"
)

// Feature: survival-coach, Property 3: Authenticity is bounded and monotonic in time spent
//
// Property: For any interaction duration, the authenticity proxy stays within
// [20, 95], and spending longer on the form never lowers it.
func TestProperty_AuthenticityBoundedAndMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("Authenticity is within [20, 95]", prop.ForAll(
		func(millis int64) bool {
			score := responseAuthenticity(models.DojoInteractionData{StartTime: 0, EndTime: millis})
			return score >= rushedScore && score <= thoughtfulScore
		},
		gen.Int64Range(0, 10*60*1000),
	))

	properties.Property("More time on the form never lowers authenticity", prop.ForAll(
		func(a, b int64) bool {
			if a > b {
				a, b = b, a
			}
			shorter := responseAuthenticity(models.DojoInteractionData{StartTime: 0, EndTime: a})
			longer := responseAuthenticity(models.DojoInteractionData{StartTime: 0, EndTime: b})
			return shorter <= longer
		},
		gen.Int64Range(0, 10*60*1000),
		gen.Int64Range(0, 10*60*1000),
	))

	properties.TestingRun(t)
}

// Feature: survival-coach, Property 4: Shadow score components and trust mapping are consistent
//
// Property: For any trade, self-report, and interaction timing, the raw shadow
// score stays within [0, 100], and the trust level and adjustment factors
// always agree with the raw score's tier.
func TestProperty_ShadowScoreConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	dimGen := gen.Float64Range(1, 10)

	properties.Property("Raw score in [0, 100] with matching trust tier", prop.ForAll(
		func(millis int64, clarity, sizing, influence, adherence, impulse int, setup, risk, emotion, execution float64) bool {
			engine := NewEngine()

			userEval := &models.UserProcessEvaluation{
				SetupClarity:           clarity,
				FollowedPositionSizing: sizing,
				EmotionalInfluence:     influence,
				PlanAdherence:          adherence,
				ImpulsiveActions:       impulse,
			}
			trade := &models.Trade{
				Status: models.TradeClosed,
				ProcessEvaluation: &models.ProcessEvaluation{
					Scores: models.DimensionScores{
						Setup: setup, Risk: risk, Emotion: emotion, Execution: execution,
					},
				},
			}

			score := engine.Calculate(trade, userEval, models.DojoInteractionData{StartTime: 0, EndTime: millis})

			if score.RawScore < 0 || score.RawScore > 100 {
				return false
			}

			var wantTrust models.TrustLevel
			var wantMultiplier float64
			switch {
			case score.RawScore > 80:
				wantTrust, wantMultiplier = models.HighTrust, 1.15
			case score.RawScore > 50:
				wantTrust, wantMultiplier = models.MediumTrust, 1.0
			default:
				wantTrust, wantMultiplier = models.LowTrust, 0.85
			}

			return score.TrustLevel == wantTrust &&
				score.AdjustmentFactors.XPMultiplier == wantMultiplier
		},
		gen.Int64Range(0, 10*60*1000),
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		dimGen,
		dimGen,
		dimGen,
		dimGen,
	))

	properties.TestingRun(t)
}
