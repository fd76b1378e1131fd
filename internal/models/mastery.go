package models

// MasteryLevel is one of the five ordered mastery tiers. Ordering is defined
// by the level ladder in the mastery package, not by declaration order here.
type MasteryLevel string

const (
	LevelNovice      MasteryLevel = "NOVICE"
	LevelApprentice  MasteryLevel = "APPRENTICE"
	LevelJourneyman  MasteryLevel = "JOURNEYMAN"
	LevelMaster      MasteryLevel = "MASTER"
	LevelGrandmaster MasteryLevel = "GRANDMASTER"
)

// ContentType classifies an unlockable educational content item.
type ContentType string

const (
	ContentArticle     ContentType = "ARTICLE"
	ContentVideoLesson ContentType = "VIDEO_LESSON"
	ContentTool        ContentType = "TOOL"
)

// UnlockedContent is an educational content item gated behind a mastery level.
type UnlockedContent struct {
	ID            string
	LevelRequired MasteryLevel
	Title         string
	Summary       string
	Type          ContentType
}

// QuestStatus represents the completion state of a quest.
type QuestStatus string

const (
	QuestActive    QuestStatus = "ACTIVE"
	QuestCompleted QuestStatus = "COMPLETED"
)

// Quest is a goal the trader can complete for bonus XP.
type Quest struct {
	ID          string
	Title       string
	Description string
	Metric      string
	Target      int
	Progress    int
	Status      QuestStatus
	RewardXP    int
}

// MasteryData is the trader's full gamification state. It is recomputed from
// scratch on every relevant state change rather than incrementally mutated.
type MasteryData struct {
	Level           MasteryLevel
	LevelTitle      string
	XP              int
	XPToNextLevel   int
	UnlockedContent []UnlockedContent
	Quests          []Quest
}
