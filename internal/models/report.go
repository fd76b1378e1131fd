package models

// Fingerprint summarizes the dominant behavioral drivers mined from the
// behavioral graph.
type Fingerprint struct {
	PrimaryDriver    string
	EmotionalTrigger string
	RiskTendency     string
}

// ActivePattern names the strongest repeating behavioral chain found in the
// graph, if any.
type ActivePattern struct {
	Name        string
	Description string
	Impact      string
}

// Predictions are the forward-looking warnings derived from the active
// pattern.
type Predictions struct {
	NextWeekFocus string
	PotentialRisk string
}

// Recommendations are the concrete actions derived from the active pattern.
type Recommendations struct {
	Action string
	Metric string
}

// BehavioralReport is the structured fingerprint of a trader's behavior,
// synthesized from graph statistics alone.
type BehavioralReport struct {
	Fingerprint     Fingerprint
	ActivePattern   ActivePattern
	Predictions     Predictions
	Recommendations Recommendations
}
