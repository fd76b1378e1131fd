// Package mastery converts raw performance signals into a leveling, XP, and
// quest system that rewards survival and process quality over raw profit.
package mastery

import (
	"math"

	"survival-coach/internal/models"
)

// XP awards per signal.
const (
	xpPerSurvivalDay      = 50
	xpPerDisciplinedTrade = 15
	xpBonusExcellent      = 25 // total process score > 85
	xpBonusGood           = 10 // total process score > 70
)

// LevelTier binds a mastery level to its XP threshold and title.
type LevelTier struct {
	Level       models.MasteryLevel
	XPThreshold int
	Title       string
}

// Ladder is the ordered five-tier level table. Level ordering and all
// threshold comparisons are index-based against this slice, never against
// enum declaration order.
var Ladder = []LevelTier{
	{models.LevelNovice, 0, "Novice Survivor"},
	{models.LevelApprentice, 1000, "Apprentice of Discipline"},
	{models.LevelJourneyman, 3500, "Journeyman of Process"},
	{models.LevelMaster, 8000, "Master of Self-Control"},
	{models.LevelGrandmaster, 20000, "Grandmaster of Survival"},
}

// educationalContent is the static unlockable content catalog.
var educationalContent = []models.UnlockedContent{
	{ID: "article_1", LevelRequired: models.LevelNovice, Title: "The #1 Rule: Survival First",
		Summary: "An in-depth look at why capital preservation is the most critical skill.", Type: models.ContentArticle},
	{ID: "article_2", LevelRequired: models.LevelApprentice, Title: "Decoding Your Emotions: Fear vs. Greed",
		Summary: "Learn to identify the key emotions that drive poor decisions.", Type: models.ContentArticle},
	{ID: "video_1", LevelRequired: models.LevelJourneyman, Title: "Advanced Risk Management Techniques",
		Summary: "Go beyond simple stop-losses and learn to manage risk like a pro.", Type: models.ContentVideoLesson},
	{ID: "article_3", LevelRequired: models.LevelMaster, Title: "Building an Iron Mind: The Psychology of Elite Traders",
		Summary: "Techniques for building unshakable mental fortitude.", Type: models.ContentArticle},
}

// CalculateMastery derives the trader's level, XP, and unlocked content from
// aggregate stats, trade history, and an optional shadow score. Pure
// function: identical inputs always produce identical output. Quests are
// populated separately by GenerateQuests.
func CalculateMastery(stats models.TraderStats, tradeHistory []*models.Trade, shadowScore *models.ShadowScore) models.MasteryData {
	xp := float64(stats.SurvivalDays * xpPerSurvivalDay)

	for _, trade := range tradeHistory {
		if trade == nil {
			continue
		}
		if trade.Decision != models.DecisionBlock {
			xp += xpPerDisciplinedTrade
		}
		if ev := trade.ProcessEvaluation; ev != nil {
			if ev.TotalProcessScore > 85 {
				xp += xpBonusExcellent
			} else if ev.TotalProcessScore > 70 {
				xp += xpBonusGood
			}
		}
	}

	if shadowScore != nil {
		xp *= shadowScore.AdjustmentFactors.XPMultiplier
	}

	total := int(math.Round(xp))

	tierIdx := tierIndex(total)
	tier := Ladder[tierIdx]

	return models.MasteryData{
		Level:           tier.Level,
		LevelTitle:      tier.Title,
		XP:              total,
		XPToNextLevel:   nextThreshold(tierIdx),
		UnlockedContent: unlockedContent(tierIdx),
	}
}

// tierIndex returns the index of the highest tier whose threshold does not
// exceed the XP total.
func tierIndex(xp int) int {
	idx := 0
	for i, tier := range Ladder {
		if xp >= tier.XPThreshold {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// nextThreshold returns the XP threshold of the next tier up, or the top
// tier's own threshold when already there.
func nextThreshold(tierIdx int) int {
	if tierIdx < len(Ladder)-1 {
		return Ladder[tierIdx+1].XPThreshold
	}
	return Ladder[len(Ladder)-1].XPThreshold
}

// unlockedContent filters the catalog to items at or below the given tier.
func unlockedContent(tierIdx int) []models.UnlockedContent {
	var unlocked []models.UnlockedContent
	for _, content := range educationalContent {
		if contentTierIndex(content.LevelRequired) <= tierIdx {
			unlocked = append(unlocked, content)
		}
	}
	return unlocked
}

func contentTierIndex(level models.MasteryLevel) int {
	for i, tier := range Ladder {
		if tier.Level == level {
			return i
		}
	}
	return 0
}
