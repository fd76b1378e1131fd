package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Feature: survival-coach, Property 6: Currency formatting is valid and value-preserving
//
// Property: For any amount, FormatCurrency should:
// 1. Start with $ (or -$ for negative amounts)
// 2. Have exactly 2 decimal places
// 3. Group the integer part in threes
// 4. Preserve the numeric value when parsed back
func TestProperty_CurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	groupPattern := regexp.MustCompile(`^\d{1,3}(,\d{3})*$`)

	properties.Property("FormatCurrency produces valid grouped format", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCurrency(amount)

			if amount >= 0 {
				if !strings.HasPrefix(formatted, "$") {
					t.Logf("Expected $ prefix for %f, got %s", amount, formatted)
					return false
				}
			} else if !strings.HasPrefix(formatted, "-$") {
				t.Logf("Expected -$ prefix for %f, got %s", amount, formatted)
				return false
			}

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				t.Logf("Expected 2 decimal places for %f, got %s", amount, formatted)
				return false
			}

			numPart := strings.TrimPrefix(parts[0], "-")
			numPart = strings.TrimPrefix(numPart, "$")
			if !groupPattern.MatchString(numPart) {
				t.Logf("Invalid grouping for %f: %s", amount, formatted)
				return false
			}

			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCurrency(amount)

			cleaned := strings.NewReplacer("$", "", ",", "").Replace(formatted)
			parsed, err := strconv.ParseFloat(cleaned, 64)
			if err != nil {
				t.Logf("Failed to parse %s back: %v", formatted, err)
				return false
			}

			rounded := math.Round(math.Abs(amount)*100) / 100
			if amount < 0 {
				rounded = -rounded
			}
			return math.Abs(parsed-rounded) <= 0.01
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

// Feature: survival-coach, Property 7: Progress bars are fixed-width and monotonic
//
// Property: For any progress, target, and width, ProgressBar renders exactly
// width cells between brackets, and more progress never renders fewer filled
// cells.
func TestProperty_ProgressBar(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ProgressBar renders exactly width cells", prop.ForAll(
		func(progress, target, width int) bool {
			bar := ProgressBar(progress, target, width)
			cells := strings.Count(bar, "█") + strings.Count(bar, "░")
			return strings.HasPrefix(bar, "[") && strings.HasSuffix(bar, "]") && cells == width
		},
		gen.IntRange(0, 20),
		gen.IntRange(1, 20),
		gen.IntRange(1, 40),
	))

	properties.Property("More progress never renders fewer filled cells", prop.ForAll(
		func(a, b, target, width int) bool {
			if a > b {
				a, b = b, a
			}
			return strings.Count(ProgressBar(a, target, width), "█") <=
				strings.Count(ProgressBar(b, target, width), "█")
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.IntRange(1, 20),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten..", 13, "exactly ten.."},
		{"a longer string that needs cutting", 10, "a longe..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
