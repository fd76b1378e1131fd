package models

// ProcessArea identifies one of the four process dimensions.
type ProcessArea string

const (
	AreaSetup     ProcessArea = "SETUP"
	AreaRisk      ProcessArea = "RISK"
	AreaEmotion   ProcessArea = "EMOTION"
	AreaExecution ProcessArea = "EXECUTION"
)

// DimensionScores holds the four per-dimension process scores, each 1-10.
type DimensionScores struct {
	Setup     float64
	Risk      float64
	Emotion   float64
	Execution float64
}

// ProcessEvaluation is the objective-side assessment of how well a closed
// trade followed the trader's process, derived deterministically from the
// trade facts and the trader's self-report.
type ProcessEvaluation struct {
	TotalProcessScore int // 0-100
	Scores            DimensionScores
	WeakestArea       ProcessArea
	Summary           string
}

// Trend describes the direction of the trader's process quality over time.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendStable    Trend = "STABLE"
	TrendDeclining Trend = "DECLINING"
)

// ProcessStats aggregates process evaluations across a trade history.
type ProcessStats struct {
	AverageScore   float64
	Trend          Trend
	WeakestArea    ProcessArea
	DetailedScores DimensionScores // per-dimension averages
}
