// Package engine implements the card-ordering engine: temporal scoring
// primitives, the student-state classifier, the per-card priority scorer,
// and the order resolver. Everything in this package is a pure function of
// an ActivityFacts snapshot and an explicit "now" — no clock reads, no I/O.
package engine

import (
	"time"

	"mentora-backend/internal/models"
)

const day = 24 * time.Hour

// elapsed returns the time since t, clamped to zero. Client-reported
// timestamps can sit slightly in the future under clock skew; a negative
// delta must never flip a recency bonus on.
func elapsed(now, t time.Time) time.Duration {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return d
}

// SessionRecencyScore rewards a session that just ended. The steps taper
// from 30 (within the hour) down to 5 (same day).
func SessionRecencyScore(now time.Time, lastSessionTime *time.Time) int {
	if lastSessionTime == nil {
		return 0
	}
	switch since := elapsed(now, *lastSessionTime); {
	case since <= 60*time.Minute:
		return 30
	case since <= 120*time.Minute:
		return 20
	case since <= 240*time.Minute:
		return 10
	case since <= 1440*time.Minute:
		return 5
	default:
		return 0
	}
}

// InactivityBonus rewards reaching out to a student who has been away.
// Three days away earns the full 40; there is no extra credit beyond that.
func InactivityBonus(now time.Time, lastAppAccess *time.Time) int {
	if lastAppAccess == nil {
		return 0
	}
	switch since := elapsed(now, *lastAppAccess); {
	case since >= 3*day:
		return 40
	case since >= 1*day:
		return 20
	default:
		return 0
	}
}

// InactivityPenalty dampens the practice card for a student who has been
// away; easing back in beats jumping straight into drills.
func InactivityPenalty(now time.Time, lastAppAccess *time.Time) int {
	if lastAppAccess == nil {
		return 0
	}
	switch since := elapsed(now, *lastAppAccess); {
	case since >= 3*day:
		return 10
	case since >= 1*day:
		return 5
	default:
		return 0
	}
}

func anyAchievementWithin(now time.Time, achievements []models.Achievement, typ models.AchievementType, window time.Duration) bool {
	for _, a := range achievements {
		if typ != "" && a.Type != typ {
			continue
		}
		if elapsed(now, a.EarnedAt) <= window {
			return true
		}
	}
	return false
}

// MilestoneBonus fires on any achievement earned today, or any achievement
// of any type within the last 24 hours.
func MilestoneBonus(now time.Time, achievementToday bool, recentAchievements []models.Achievement) int {
	if achievementToday {
		return 40
	}
	if anyAchievementWithin(now, recentAchievements, "", 24*time.Hour) {
		return 40
	}
	return 0
}

func GoalCompletionBonus(now time.Time, recentAchievements []models.Achievement) int {
	if anyAchievementWithin(now, recentAchievements, models.AchievementGoalCompletion, 24*time.Hour) {
		return 20
	}
	return 0
}

func KnowledgeMilestoneBonus(now time.Time, recentAchievements []models.Achievement) int {
	if anyAchievementWithin(now, recentAchievements, models.AchievementMasteryLevel, 24*time.Hour) {
		return 15
	}
	return 0
}

func StreakBonus(currentStreak int) int {
	switch {
	case currentStreak >= 7:
		return 10
	case currentStreak >= 3:
		return 5
	default:
		return 0
	}
}

// StreakContinuationBonus nudges a student with a live streak who has not
// practiced yet today. A session in the last 12 hours means the streak is
// already safe, so no nudge.
func StreakContinuationBonus(now time.Time, currentStreak int, lastSessionTime *time.Time) int {
	if currentStreak < 2 {
		return 0
	}
	if lastSessionTime != nil && elapsed(now, *lastSessionTime) <= 12*time.Hour {
		return 0
	}
	return 10
}

// StruggleFocusBonus fires when any subject with at least two sessions is
// averaging below 70%.
func StruggleFocusBonus(practiceStats map[string]models.SubjectStats) int {
	for _, stats := range practiceStats {
		if stats.TotalSessions >= 2 && stats.AverageScore < 0.7 {
			return 20
		}
	}
	return 0
}

// ReengagementNeedBonus fires when fewer than two sessions landed in the
// trailing seven days. A nil slice means the signal is absent entirely and
// contributes nothing; an empty-but-present slice counts as zero sessions.
func ReengagementNeedBonus(now time.Time, recentSessions []models.SessionRecord) int {
	if recentSessions == nil {
		return 0
	}
	count := 0
	for _, s := range recentSessions {
		if elapsed(now, s.Timestamp) <= 7*day {
			count++
		}
	}
	if count < 2 {
		return 20
	}
	return 0
}
