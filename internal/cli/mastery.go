package cli

import (
	"github.com/spf13/cobra"

	"survival-coach/internal/models"
)

// addMasteryCommand adds the mastery/quest display command.
func addMasteryCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "mastery",
		Short: "Show level, XP, quests, and unlocked content",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)

			data := app.Session.Mastery()
			stats := app.Session.Stats()

			if output.IsJSON() {
				return output.JSON(data)
			}

			output.Bold("%s - %s", data.Level, data.LevelTitle)
			output.Printf("  XP: %d / %d\n", data.XP, data.XPToNextLevel)
			output.Printf("  Survival Days: %d | Discipline: %.0f%%\n",
				stats.SurvivalDays, stats.DisciplineScore)
			output.Println()

			output.Bold("Quests")
			for _, quest := range data.Quests {
				marker := " "
				if quest.Status == models.QuestCompleted {
					marker = "✓"
				}
				output.Printf("  %s %s %s %d/%d (+%d XP)\n",
					marker, ProgressBar(quest.Progress, quest.Target, 10),
					quest.Title, quest.Progress, quest.Target, quest.RewardXP)
				output.Dim("    %s", quest.Description)
			}
			output.Println()

			output.Bold("Unlocked Content")
			if len(data.UnlockedContent) == 0 {
				output.Dim("  Nothing unlocked yet. Keep surviving.")
				return nil
			}
			for _, content := range data.UnlockedContent {
				output.Printf("  [%s] %s\n", content.Type, content.Title)
				output.Dim("    %s", content.Summary)
			}

			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}
