package models

import "time"

// Direction represents the side of a trade.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// Decision represents the pre-trade gate verdict recorded on the trade.
type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionWarn  Decision = "WARN"
	DecisionBlock Decision = "BLOCK"
)

// Emotion represents the dominant emotion the trader reported for a trade.
type Emotion string

const (
	EmotionPatience   Emotion = "PATIENCE"
	EmotionConfidence Emotion = "CONFIDENCE"
	EmotionNeutral    Emotion = "NEUTRAL"
	EmotionFear       Emotion = "FEAR"
	EmotionGreed      Emotion = "GREED"
	EmotionFOMO       Emotion = "FOMO"
)

// IsNegative reports whether the emotion is one of the loss-driving states.
func (e Emotion) IsNegative() bool {
	return e == EmotionFear || e == EmotionGreed || e == EmotionFOMO
}

// StatsAtEntry is a snapshot of the trader's streak counters taken when the
// trade was opened. The zero value means a clean slate.
type StatsAtEntry struct {
	ConsecutiveLosses int
	ConsecutiveWins   int
}

// Trade represents a single trading action. It is created OPEN, mutated once
// to attach the realized P&L on close, and mutated again to attach the two
// evaluation objects once the trader completes the reflection step. Trades
// are never deleted.
type Trade struct {
	ID           string
	Timestamp    time.Time
	Asset        string
	Direction    Direction
	EntryPrice   float64
	PositionSize float64
	PnL          float64 // meaningful only once Status is CLOSED
	Reasoning    string  // trader's stated reason for entering
	Status       TradeStatus
	Decision     Decision
	StatsAtEntry StatsAtEntry

	UserEvaluation    *UserProcessEvaluation
	ProcessEvaluation *ProcessEvaluation
	Shadow            *ShadowScore
}

// IsWin reports whether the closed trade realized a profit.
func (t *Trade) IsWin() bool {
	return t.PnL > 0
}

// UserProcessEvaluation is the trader's self-report, filled in after closing
// a trade. All ratings are on a 1-10 scale. Immutable after submission.
type UserProcessEvaluation struct {
	SetupClarity int

	HadPredefinedEntry bool
	HadPredefinedSL    bool
	HadPredefinedTP    bool

	FollowedPositionSizing int

	PlanAdherence    int
	ImpulsiveActions int // 1 = many impulsive actions, 10 = none

	EmotionalInfluence int // 1 = not at all, 10 = completely
	DominantEmotion    Emotion

	Reflection string
}

// DojoInteractionData brackets the wall-clock time the trader spent filling
// in the self-evaluation form, in milliseconds since the epoch.
type DojoInteractionData struct {
	StartTime int64
	EndTime   int64
}

// Elapsed returns how long the trader spent on the form.
func (d DojoInteractionData) Elapsed() time.Duration {
	return time.Duration(d.EndTime-d.StartTime) * time.Millisecond
}

// TraderStats holds the aggregate performance signals the surrounding
// application derives from full trade history.
type TraderStats struct {
	SurvivalDays      int
	DisciplineScore   float64 // percentage
	ConsecutiveLosses int
	ConsecutiveWins   int
}

// DetectedPattern is a behavioral pattern narrative produced by an external
// analysis service. Only the name participates in quest generation.
type DetectedPattern struct {
	PatternName      string
	Summary          string
	Evidence         []string
	Impact           string
	Psychology       string
	BreakingStrategy []string
	SuccessMetric    string
}
