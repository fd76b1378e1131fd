package mastery

import (
	"strings"

	"survival-coach/internal/models"
)

// Quest targets and rewards.
const (
	checkinQuestTarget  = 3
	checkinQuestReward  = 150
	cooldownQuestTarget = 3
	cooldownQuestReward = 300
	warnFreeQuestTarget = 5
	warnFreeQuestReward = 250
)

// GenerateQuests builds the trader's active quest list. The second quest
// depends on the currently detected behavioral pattern: a revenge-trading
// pattern swaps the warn-free streak quest for a cool-down protocol quest.
// A nil pattern is an expected steady state, not an error.
func GenerateQuests(detectedPattern *models.DetectedPattern, checkinCount int, tradeHistory []*models.Trade) []models.Quest {
	quests := make([]models.Quest, 0, 2)

	checkinProgress := checkinCount
	if checkinProgress > checkinQuestTarget {
		checkinProgress = checkinQuestTarget
	}
	quests = append(quests, models.Quest{
		ID:          "daily_checkin_streak",
		Title:       "Mindful Start",
		Description: "Complete the daily check-in for 3 consecutive days to build a routine of self-awareness.",
		Metric:      "daily_checkins",
		Target:      checkinQuestTarget,
		Progress:    checkinProgress,
		Status:      questStatus(checkinProgress, checkinQuestTarget),
		RewardXP:    checkinQuestReward,
	})

	if detectedPattern != nil && strings.Contains(strings.ToLower(detectedPattern.PatternName), "revenge") {
		quests = append(quests, models.Quest{
			ID:          "revenge_killer",
			Title:       "Cool-down Protocol",
			Description: "After your next 3 losing trades, wait at least 30 minutes before entering a new trade.",
			Metric:      "cooldown_adherence",
			Target:      cooldownQuestTarget,
			// TODO: progress needs cooldown-adherence tracking between
			// consecutive trade timestamps, which is not recorded yet.
			Progress: 0,
			Status:   models.QuestActive,
			RewardXP: cooldownQuestReward,
		})
		return quests
	}

	warnFreeProgress := warnFreeStreak(tradeHistory)
	if warnFreeProgress > warnFreeQuestTarget {
		warnFreeProgress = warnFreeQuestTarget
	}
	quests = append(quests, models.Quest{
		ID:          "warn_free_streak",
		Title:       "Process Purity",
		Description: "Execute 5 consecutive trades without triggering a warning from the AI.",
		Metric:      "warn_free_trades",
		Target:      warnFreeQuestTarget,
		Progress:    warnFreeProgress,
		Status:      questStatus(warnFreeProgress, warnFreeQuestTarget),
		RewardXP:    warnFreeQuestReward,
	})

	return quests
}

// warnFreeStreak counts consecutive most-recent trades that drew neither a
// WARN nor a BLOCK, scanning backwards from the end of the history.
func warnFreeStreak(tradeHistory []*models.Trade) int {
	streak := 0
	for i := len(tradeHistory) - 1; i >= 0; i-- {
		trade := tradeHistory[i]
		if trade == nil {
			continue
		}
		if trade.Decision != models.DecisionWarn && trade.Decision != models.DecisionBlock {
			streak++
		} else {
			break
		}
	}
	return streak
}

func questStatus(progress, target int) models.QuestStatus {
	if progress >= target {
		return models.QuestCompleted
	}
	return models.QuestActive
}
