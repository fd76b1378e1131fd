package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"survival-coach/internal/models"
)

// addReflectCommand adds the post-trade reflection command.
func addReflectCommand(rootCmd *cobra.Command, app *App) {
	var (
		clarity    int
		hadEntry   bool
		hadSL      bool
		hadTP      bool
		sizing     int
		adherence  int
		impulsive  int
		influence  int
		emotion    string
		reflection string
		durationS  int
	)

	cmd := &cobra.Command{
		Use:   "reflect <trade-id>",
		Short: "Submit the post-trade process reflection",
		Long: `Submit your self-evaluation for a closed trade.

The reflection drives the process score, the trust-weighted shadow score, and
the behavior graph. Take your time: rushed reflections are scored as such.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			now := time.Now().UnixMilli()
			interaction := models.DojoInteractionData{
				StartTime: now - int64(durationS)*1000,
				EndTime:   now,
			}

			eval := &models.UserProcessEvaluation{
				SetupClarity:           clarity,
				HadPredefinedEntry:     hadEntry,
				HadPredefinedSL:        hadSL,
				HadPredefinedTP:        hadTP,
				FollowedPositionSizing: sizing,
				PlanAdherence:          adherence,
				ImpulsiveActions:       impulsive,
				EmotionalInfluence:     influence,
				DominantEmotion:        models.Emotion(emotion),
				Reflection:             reflection,
			}

			processEval, shadowScore, err := app.Session.SubmitReflection(ctx, args[0], eval, interaction)
			if err != nil {
				output.Error("Failed to submit reflection: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]any{
					"process_evaluation": processEval,
					"shadow_score":       shadowScore,
				})
			}

			output.Bold("Process Evaluation")
			output.Printf("  Total Score:   %s\n", output.FormatScore(processEval.TotalProcessScore))
			output.Printf("  Setup:         %.1f/10\n", processEval.Scores.Setup)
			output.Printf("  Risk:          %.1f/10\n", processEval.Scores.Risk)
			output.Printf("  Emotion:       %.1f/10\n", processEval.Scores.Emotion)
			output.Printf("  Execution:     %.1f/10\n", processEval.Scores.Execution)
			output.Printf("  Weakest Area:  %s\n", processEval.WeakestArea)
			output.Info("%s", processEval.Summary)
			output.Println()

			output.Bold("Shadow Score")
			output.Dim("  Reflection time: %s", FormatDuration(time.Duration(interaction.EndTime-interaction.StartTime)*time.Millisecond))
			output.Printf("  Trust:         %s (raw %d)\n", shadowScore.TrustLevel, shadowScore.RawScore)
			output.Printf("  Authenticity:  %.0f/100\n", shadowScore.Breakdown.ResponseAuthenticity)
			output.Printf("  Behavior Gap:  %.0f/100\n", shadowScore.Breakdown.BehaviorGap)
			output.Printf("  XP Multiplier: %.2fx\n", shadowScore.AdjustmentFactors.XPMultiplier)

			return nil
		},
	}

	cmd.Flags().IntVar(&clarity, "clarity", 5, "Setup clarity (1-10)")
	cmd.Flags().BoolVar(&hadEntry, "had-entry", false, "Entry level was predefined")
	cmd.Flags().BoolVar(&hadSL, "had-sl", false, "Stop-loss was predefined")
	cmd.Flags().BoolVar(&hadTP, "had-tp", false, "Take-profit was predefined")
	cmd.Flags().IntVar(&sizing, "sizing", 5, "Adherence to position sizing (1-10)")
	cmd.Flags().IntVar(&adherence, "adherence", 5, "Plan adherence (1-10)")
	cmd.Flags().IntVar(&impulsive, "impulse-control", 5, "Impulse control (1 = many impulsive actions, 10 = none)")
	cmd.Flags().IntVar(&influence, "influence", 5, "Emotional influence (1 = none, 10 = completely)")
	cmd.Flags().StringVar(&emotion, "emotion", "NEUTRAL", "Dominant emotion: PATIENCE, CONFIDENCE, NEUTRAL, FEAR, GREED, FOMO")
	cmd.Flags().StringVar(&reflection, "lesson", "", "Key lesson from this trade")
	cmd.Flags().IntVar(&durationS, "duration", 0, "Seconds spent on the reflection (recorded by the form UI)")

	rootCmd.AddCommand(cmd)
}

// addCheckinCommand adds the daily check-in command.
func addCheckinCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Log the daily check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := app.Session.Checkin(ctx); err != nil {
				output.Error("Failed to log check-in: %v", err)
				return err
			}

			output.Success("Check-in logged. Consistency builds self-awareness.")
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}
