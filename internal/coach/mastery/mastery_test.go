package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survival-coach/internal/models"
)

func disciplinedTrades(n int) []*models.Trade {
	trades := make([]*models.Trade, n)
	for i := range trades {
		trades[i] = &models.Trade{Status: models.TradeClosed, Decision: models.DecisionAllow}
	}
	return trades
}

func TestCalculateMasteryBaseline(t *testing.T) {
	// 20 survival days and 10 disciplined trades with no evaluations and no
	// shadow score: 20*50 + 10*15 = 1150 XP.
	stats := models.TraderStats{SurvivalDays: 20}
	data := CalculateMastery(stats, disciplinedTrades(10), nil)

	assert.Equal(t, 1150, data.XP)
	assert.Equal(t, models.LevelApprentice, data.Level)
	assert.Equal(t, "Apprentice of Discipline", data.LevelTitle)
	assert.Equal(t, 3500, data.XPToNextLevel)

	require.Len(t, data.UnlockedContent, 2)
	assert.Equal(t, "article_1", data.UnlockedContent[0].ID)
	assert.Equal(t, "article_2", data.UnlockedContent[1].ID)
}

func TestCalculateMasteryProcessBonuses(t *testing.T) {
	trades := []*models.Trade{
		{Decision: models.DecisionAllow, ProcessEvaluation: &models.ProcessEvaluation{TotalProcessScore: 90}}, // 15 + 25
		{Decision: models.DecisionAllow, ProcessEvaluation: &models.ProcessEvaluation{TotalProcessScore: 71}}, // 15 + 10
		{Decision: models.DecisionAllow, ProcessEvaluation: &models.ProcessEvaluation{TotalProcessScore: 70}}, // 15, no bonus at threshold
		{Decision: models.DecisionBlock, ProcessEvaluation: &models.ProcessEvaluation{TotalProcessScore: 90}}, // 0 + 25, blocked trades earn no base
		nil,
	}

	data := CalculateMastery(models.TraderStats{SurvivalDays: 1}, trades, nil)
	assert.Equal(t, 50+15+25+15+10+15+25, data.XP)
}

func TestCalculateMasteryShadowMultiplier(t *testing.T) {
	stats := models.TraderStats{SurvivalDays: 20} // 1000 XP base

	high := &models.ShadowScore{AdjustmentFactors: models.AdjustmentFactors{XPMultiplier: 1.15}}
	low := &models.ShadowScore{AdjustmentFactors: models.AdjustmentFactors{XPMultiplier: 0.85}}

	assert.Equal(t, 1150, CalculateMastery(stats, nil, high).XP)
	assert.Equal(t, 850, CalculateMastery(stats, nil, low).XP)
}

func TestCalculateMasteryDeterministic(t *testing.T) {
	stats := models.TraderStats{SurvivalDays: 7, DisciplineScore: 80}
	trades := disciplinedTrades(4)
	shadow := &models.ShadowScore{AdjustmentFactors: models.AdjustmentFactors{XPMultiplier: 1.0}}

	first := CalculateMastery(stats, trades, shadow)
	second := CalculateMastery(stats, trades, shadow)
	assert.Equal(t, first, second)
}

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		xp        int
		wantLevel models.MasteryLevel
		wantNext  int
	}{
		{0, models.LevelNovice, 1000},
		{999, models.LevelNovice, 1000},
		{1000, models.LevelApprentice, 3500},
		{3499, models.LevelApprentice, 3500},
		{3500, models.LevelJourneyman, 8000},
		{8000, models.LevelMaster, 20000},
		{19999, models.LevelMaster, 20000},
		{20000, models.LevelGrandmaster, 20000},
		{50000, models.LevelGrandmaster, 20000},
	}

	for _, tt := range tests {
		days := tt.xp / 50 // xp divisible by 50 in every case above
		data := CalculateMastery(models.TraderStats{SurvivalDays: days}, nil, nil)
		require.Equal(t, tt.xp, data.XP)
		assert.Equal(t, tt.wantLevel, data.Level, "xp %d", tt.xp)
		assert.Equal(t, tt.wantNext, data.XPToNextLevel, "xp %d", tt.xp)
	}
}

func TestGenerateQuestsCheckinProgress(t *testing.T) {
	tests := []struct {
		checkins     int
		wantProgress int
		wantStatus   models.QuestStatus
	}{
		{0, 0, models.QuestActive},
		{2, 2, models.QuestActive},
		{3, 3, models.QuestCompleted},
		{7, 3, models.QuestCompleted},
	}

	for _, tt := range tests {
		quests := GenerateQuests(nil, tt.checkins, nil)
		require.NotEmpty(t, quests)

		checkin := quests[0]
		assert.Equal(t, "daily_checkin_streak", checkin.ID)
		assert.Equal(t, tt.wantProgress, checkin.Progress, "checkins %d", tt.checkins)
		assert.Equal(t, tt.wantStatus, checkin.Status, "checkins %d", tt.checkins)
		assert.Equal(t, 150, checkin.RewardXP)
	}
}

func TestGenerateQuestsRevengePatternSwapsQuest(t *testing.T) {
	pattern := &models.DetectedPattern{PatternName: "The Revenge Spiral"}

	quests := GenerateQuests(pattern, 1, disciplinedTrades(5))
	require.Len(t, quests, 2)

	cooldown := quests[1]
	assert.Equal(t, "revenge_killer", cooldown.ID)
	assert.Equal(t, "Cool-down Protocol", cooldown.Title)
	assert.Equal(t, 0, cooldown.Progress)
	assert.Equal(t, models.QuestActive, cooldown.Status)
	assert.Equal(t, 300, cooldown.RewardXP)
}

func TestGenerateQuestsWarnFreeStreak(t *testing.T) {
	// Chronological, oldest first. The WARN in the middle caps the streak at
	// the two most recent trades.
	history := []*models.Trade{
		{Decision: models.DecisionAllow},
		{Decision: models.DecisionWarn},
		{Decision: models.DecisionAllow},
		{Decision: models.DecisionAllow},
	}

	quests := GenerateQuests(nil, 0, history)
	require.Len(t, quests, 2)

	purity := quests[1]
	assert.Equal(t, "warn_free_streak", purity.ID)
	assert.Equal(t, 2, purity.Progress)
	assert.Equal(t, models.QuestActive, purity.Status)
}

func TestGenerateQuestsWarnFreeStreakCompleted(t *testing.T) {
	quests := GenerateQuests(nil, 0, disciplinedTrades(8))
	require.Len(t, quests, 2)

	purity := quests[1]
	assert.Equal(t, 5, purity.Progress, "progress is capped at the target")
	assert.Equal(t, models.QuestCompleted, purity.Status)
}

func TestWarnFreeStreakStopsAtBlock(t *testing.T) {
	history := []*models.Trade{
		{Decision: models.DecisionAllow},
		{Decision: models.DecisionBlock},
	}
	assert.Equal(t, 0, warnFreeStreak(history))
	assert.Equal(t, 0, warnFreeStreak(nil))
}

func TestLadderOrderingIsStrictlyIncreasing(t *testing.T) {
	for i := 1; i < len(Ladder); i++ {
		assert.Greater(t, Ladder[i].XPThreshold, Ladder[i-1].XPThreshold)
	}
}
