// Package scoring converts a closed trade plus the trader's self-report into
// an objective-ish process quality score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"survival-coach/internal/models"
)

// ProcessScorer blends objective trade facts with the trader's self-reported
// ratings into a 0-100 process score across four weighted dimensions.
type ProcessScorer struct {
	weights DimensionWeights
}

// DimensionWeights defines the weight of each dimension in the total score.
type DimensionWeights struct {
	Setup     float64
	Risk      float64
	Emotion   float64
	Execution float64
}

// DefaultWeights returns the default dimension weights. They sum to 1.0; the
// weighted 1-10 composite is scaled by 10 onto the 0-100 range.
func DefaultWeights() DimensionWeights {
	return DimensionWeights{
		Setup:     0.25,
		Risk:      0.35,
		Emotion:   0.20,
		Execution: 0.20,
	}
}

// NewProcessScorer creates a process scorer with default weights.
func NewProcessScorer() *ProcessScorer {
	return &ProcessScorer{weights: DefaultWeights()}
}

// NewProcessScorerWithWeights creates a process scorer with custom weights.
func NewProcessScorerWithWeights(weights DimensionWeights) *ProcessScorer {
	return &ProcessScorer{weights: weights}
}

// Evaluate scores the trade's process. It is pure: all inputs are assumed
// well-formed numerics and no error conditions exist.
func (s *ProcessScorer) Evaluate(trade *models.Trade, userEval *models.UserProcessEvaluation) models.ProcessEvaluation {
	scores := models.DimensionScores{
		Setup:     s.scoreSetup(trade.Reasoning, userEval),
		Risk:      s.scoreRisk(trade.PositionSize, userEval),
		Emotion:   s.scoreEmotion(trade.StatsAtEntry.ConsecutiveLosses, userEval),
		Execution: s.scoreExecution(trade.Decision, userEval),
	}

	total := int(math.Round((scores.Setup*s.weights.Setup +
		scores.Risk*s.weights.Risk +
		scores.Execution*s.weights.Execution +
		scores.Emotion*s.weights.Emotion) * 10))

	weakest := weakestArea(scores)

	return models.ProcessEvaluation{
		TotalProcessScore: total,
		Scores:            scores,
		WeakestArea:       weakest,
		Summary:           generateSummary(total, weakest),
	}
}

// scoreSetup averages an objective setup signal against the trader's
// self-rated clarity. The objective signal rewards articulated reasoning and
// a predefined entry.
func (s *ProcessScorer) scoreSetup(reasoning string, userEval *models.UserProcessEvaluation) float64 {
	objective := 2.0
	if len(reasoning) > 10 {
		objective = 6
	}
	if len(strings.Fields(reasoning)) > 5 {
		objective = 8
	}
	if userEval.HadPredefinedEntry {
		objective += 2
	}

	return round1(float64(userEval.SetupClarity)*0.5 + objective*0.5)
}

// scoreRisk averages an objective position-size tier against the trader's
// self-rated sizing adherence. A predefined stop-loss lifts the objective
// tier, capped at 10.
func (s *ProcessScorer) scoreRisk(positionSize float64, userEval *models.UserProcessEvaluation) float64 {
	var objective float64
	switch {
	case positionSize <= 50:
		objective = 10
	case positionSize <= 100:
		objective = 8
	case positionSize <= 200:
		objective = 4
	default:
		objective = 1
	}

	if userEval.HadPredefinedSL {
		objective = math.Min(10, objective+2)
	}

	return round1(float64(userEval.FollowedPositionSizing)*0.5 + objective*0.5)
}

// scoreEmotion weighs the streak context at entry (0.3) against the inverted
// self-rated emotional influence (0.7), with a flat penalty for loss-driving
// dominant emotions. Clamped to [1, 10].
func (s *ProcessScorer) scoreEmotion(consecutiveLosses int, userEval *models.UserProcessEvaluation) float64 {
	context := 10.0
	if consecutiveLosses == 1 {
		context = 7
	} else if consecutiveLosses >= 2 {
		context = 4
	}

	impact := 1.0
	if userEval.DominantEmotion.IsNegative() {
		impact = -3
	}

	// The trader rates influence 10 = completely driven by emotion, so the
	// usable score is the inversion.
	perception := float64(11 - userEval.EmotionalInfluence)

	score := context*0.3 + perception*0.7 + impact
	return round1(math.Max(1, math.Min(10, score)))
}

// scoreExecution blends the pre-trade gate verdict (0.3) with the trader's
// plan-adherence and impulse-control ratings (0.7).
func (s *ProcessScorer) scoreExecution(decision models.Decision, userEval *models.UserProcessEvaluation) float64 {
	gate := 7.0
	switch decision {
	case models.DecisionBlock:
		gate = 1
	case models.DecisionWarn:
		gate = 5
	case models.DecisionAllow:
		gate = 9
	}

	subjective := float64(userEval.PlanAdherence+userEval.ImpulsiveActions) / 2

	return round1(gate*0.3 + subjective*0.7)
}

// weakestArea returns the dimension with the lowest score. Ties break to the
// first dimension in the fixed order setup, risk, emotion, execution.
func weakestArea(scores models.DimensionScores) models.ProcessArea {
	ordered := []struct {
		area  models.ProcessArea
		score float64
	}{
		{models.AreaSetup, scores.Setup},
		{models.AreaRisk, scores.Risk},
		{models.AreaEmotion, scores.Emotion},
		{models.AreaExecution, scores.Execution},
	}

	weakest := ordered[0]
	for _, d := range ordered[1:] {
		if d.score < weakest.score {
			weakest = d
		}
	}
	return weakest.area
}

func generateSummary(score int, weakest models.ProcessArea) string {
	switch {
	case score > 80:
		return "Excellent process discipline shown across the board."
	case score > 60:
		return fmt.Sprintf("Solid process overall, with a slight weakness in %s.", weakest)
	case score > 40:
		return fmt.Sprintf("Inconsistent process. Focus on improving your %s is recommended.", weakest)
	default:
		return fmt.Sprintf("Process breakdown detected. Critical attention needed in the area of %s.", weakest)
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
