package models

import (
	"time"

	"github.com/google/uuid"
)

type AchievementType string

const (
	AchievementMilestone      AchievementType = "milestone"
	AchievementGoalCompletion AchievementType = "goal_completion"
	AchievementMasteryLevel   AchievementType = "mastery_level"
	AchievementOther          AchievementType = "other"
)

type Achievement struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	SessionID   *uuid.UUID      `json:"session_id,omitempty"`
	Type        AchievementType `json:"type"`
	Description string          `json:"description"`
	EarnedAt    time.Time       `json:"earned_at"`
}

// SessionRecord is the compact view of a completed session used by the
// ordering engine. Achievements earned during the session ride along.
type SessionRecord struct {
	Topics       []string      `json:"topics"`
	Timestamp    time.Time     `json:"timestamp"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

type SubjectStats struct {
	TotalSessions int     `json:"total_sessions"`
	AverageScore  float64 `json:"average_score"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
}

// ActivityFacts is the immutable snapshot the ordering engine runs over.
// Optional fields are nil when the signal is absent; the engine treats
// absence as "no signal", never as an error.
type ActivityFacts struct {
	LastAppAccess          *time.Time              `json:"last_app_access,omitempty"`
	LastSessionTime        *time.Time              `json:"last_session_time,omitempty"`
	RecentSessions         []SessionRecord         `json:"recent_sessions,omitempty"`
	HasCompletedAnySession bool                    `json:"has_completed_any_session"`
	AchievementToday       bool                    `json:"achievement_today"`
	RecentAchievements     []Achievement           `json:"recent_achievements,omitempty"`
	PracticeStats          map[string]SubjectStats `json:"practice_stats,omitempty"`
	CurrentStreak          int                     `json:"current_streak"`
}
