package models

// TrustLevel categorizes how truthful a self-report is estimated to be.
type TrustLevel string

const (
	HighTrust   TrustLevel = "HIGH_TRUST"
	MediumTrust TrustLevel = "MEDIUM_TRUST"
	LowTrust    TrustLevel = "LOW_TRUST"
)

// VerificationLevel mirrors the trust level for downstream consumers.
type VerificationLevel string

const (
	VerificationHigh   VerificationLevel = "HIGH"
	VerificationMedium VerificationLevel = "MEDIUM"
	VerificationLow    VerificationLevel = "LOW"
)

// ShadowBreakdown exposes the two constituent sub-scores of a shadow score.
type ShadowBreakdown struct {
	ResponseAuthenticity float64 // 0-100
	BehaviorGap          float64 // 0-100
}

// AdjustmentFactors are the reward adjustments keyed off the trust level.
type AdjustmentFactors struct {
	XPMultiplier      float64
	VerificationLevel VerificationLevel
}

// ShadowScore estimates how truthful a trader's self-assessment was, by
// weighing response latency against the gap between self-rated and derived
// process dimensions.
type ShadowScore struct {
	RawScore          int // 0-100
	TrustLevel        TrustLevel
	Breakdown         ShadowBreakdown
	AdjustmentFactors AdjustmentFactors
}
