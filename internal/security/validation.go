// Package security provides input validation and log-safe sanitization.
package security

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "survival-coach/internal/errors"
	"survival-coach/internal/models"
)

// Validation patterns
var (
	// Asset pattern: uppercase letters, numbers, and a single optional pair
	// separator (e.g. BTC/USDT, EURUSD, NIFTY50)
	assetPattern = regexp.MustCompile(`^[A-Z0-9]{1,15}(/[A-Z0-9]{1,15})?$`)

	// Control characters stripped from free text before logging
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// maxFreeTextLen caps the reasoning and reflection fields.
const maxFreeTextLen = 2000

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with
// errors.Is(err, apperrors.ErrInputValidation).
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInputValidation
}

// InputValidator validates reflection-form and trade input. Only
// programming-contract violations are hard errors; missing optional data is
// handled by the engines themselves.
type InputValidator struct {
	strictMode bool
}

// NewInputValidator creates a new input validator.
func NewInputValidator(strictMode bool) *InputValidator {
	return &InputValidator{strictMode: strictMode}
}

// ValidateAsset validates an asset symbol.
func (v *InputValidator) ValidateAsset(asset string) error {
	asset = strings.TrimSpace(strings.ToUpper(asset))

	if asset == "" {
		return &ValidationError{Field: "asset", Message: "asset cannot be empty"}
	}
	if len(asset) > 31 {
		return &ValidationError{Field: "asset", Message: "asset too long"}
	}
	if v.strictMode && !assetPattern.MatchString(asset) {
		return &ValidationError{Field: "asset", Message: "invalid asset format"}
	}
	return nil
}

// ValidateSelfReport validates a trader's self-evaluation. A nil report is a
// contract violation and always fails.
func (v *InputValidator) ValidateSelfReport(eval *models.UserProcessEvaluation) error {
	if eval == nil {
		return &ValidationError{Field: "self_report", Message: "self-report must not be nil"}
	}

	ratings := []struct {
		field string
		value int
	}{
		{"setup_clarity", eval.SetupClarity},
		{"followed_position_sizing", eval.FollowedPositionSizing},
		{"plan_adherence", eval.PlanAdherence},
		{"impulsive_actions", eval.ImpulsiveActions},
		{"emotional_influence", eval.EmotionalInfluence},
	}
	for _, r := range ratings {
		if r.value < 1 || r.value > 10 {
			return &ValidationError{Field: r.field, Message: "rating must be between 1 and 10"}
		}
	}

	switch eval.DominantEmotion {
	case models.EmotionPatience, models.EmotionConfidence, models.EmotionNeutral,
		models.EmotionFear, models.EmotionGreed, models.EmotionFOMO:
	default:
		return &ValidationError{Field: "dominant_emotion", Message: "unknown emotion"}
	}

	if len(eval.Reflection) > maxFreeTextLen {
		return &ValidationError{Field: "reflection", Message: "reflection too long"}
	}

	return nil
}

// ValidateInteraction validates form timing data.
func (v *InputValidator) ValidateInteraction(interaction models.DojoInteractionData) error {
	if interaction.EndTime < interaction.StartTime {
		return &ValidationError{Field: "interaction", Message: "end time precedes start time"}
	}
	return nil
}

// SanitizeForLog strips control characters from free text and truncates it so
// user input cannot mangle log output.
func SanitizeForLog(text string) string {
	text = controlChars.ReplaceAllString(text, " ")
	if len(text) > 200 {
		return text[:200] + "..."
	}
	return text
}
