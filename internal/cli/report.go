package cli

import (
	"context"

	"github.com/spf13/cobra"

	"survival-coach/internal/models"
)

// addReportCommand adds the behavior report command.
func addReportCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the behavioral fingerprint report",
		Long:  "Mine the behavior graph for dominant drivers, repeating patterns, and recommendations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)

			report := app.Session.Report()
			stats := app.Session.ProcessStats()

			if output.IsJSON() {
				return output.JSON(map[string]any{
					"report":        report,
					"process_stats": stats,
				})
			}

			output.Bold("Behavioral Fingerprint")
			output.Printf("  Primary Driver:    %s\n", report.Fingerprint.PrimaryDriver)
			output.Printf("  Emotional Trigger: %s\n", report.Fingerprint.EmotionalTrigger)
			output.Printf("  Risk Tendency:     %s\n", report.Fingerprint.RiskTendency)
			output.Println()

			output.Bold("Active Pattern")
			output.Printf("  %s\n", report.ActivePattern.Name)
			output.Dim("  %s", report.ActivePattern.Description)
			output.Dim("  %s", report.ActivePattern.Impact)
			output.Println()

			output.Bold("Next Week")
			output.Printf("  Focus: %s\n", report.Predictions.NextWeekFocus)
			output.Printf("  Risk:  %s\n", report.Predictions.PotentialRisk)
			output.Println()

			output.Bold("Recommendation")
			output.Printf("  %s\n", report.Recommendations.Action)
			output.Dim("  Track: %s", report.Recommendations.Metric)
			output.Println()

			output.Bold("Process Quality")
			output.Printf("  Average Score: %.1f (%s)\n", stats.AverageScore, stats.Trend)
			output.Printf("  Setup %.1f | Risk %.1f | Emotion %.1f | Execution %.1f\n",
				stats.DetailedScores.Setup, stats.DetailedScores.Risk,
				stats.DetailedScores.Emotion, stats.DetailedScores.Execution)
			output.Printf("  Weakest Area:  %s\n", stats.WeakestArea)

			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}

// addPatternCommands adds commands for the externally detected pattern.
func addPatternCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Detected behavioral pattern management",
	}

	var (
		name    string
		summary string
		impact  string
	)
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a pattern detected by the analysis service",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			pattern := &models.DetectedPattern{
				PatternName: name,
				Summary:     summary,
				Impact:      impact,
			}
			if err := app.Store.SavePattern(ctx, pattern); err != nil {
				output.Error("Failed to record pattern: %v", err)
				return err
			}

			output.Success("Pattern recorded: %s", name)
			output.Dim("Restart the session to pick it up in quest generation.")
			return nil
		},
	}
	recordCmd.Flags().StringVar(&name, "name", "", "Pattern name")
	recordCmd.Flags().StringVar(&summary, "summary", "", "Pattern summary")
	recordCmd.Flags().StringVar(&impact, "impact", "", "Pattern impact")
	recordCmd.MarkFlagRequired("name")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the currently detected pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)

			pattern := app.Session.Pattern()
			if pattern == nil {
				output.Info("No behavioral pattern detected yet.")
				return nil
			}

			if output.IsJSON() {
				return output.JSON(pattern)
			}

			output.Bold(pattern.PatternName)
			if pattern.Summary != "" {
				output.Printf("  %s\n", pattern.Summary)
			}
			if pattern.Impact != "" {
				output.Dim("  Impact: %s", pattern.Impact)
			}
			return nil
		},
	}

	cmd.AddCommand(recordCmd)
	cmd.AddCommand(showCmd)
	rootCmd.AddCommand(cmd)
}
