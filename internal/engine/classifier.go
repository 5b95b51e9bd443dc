package engine

import (
	"time"

	"mentora-backend/internal/models"
)

type stateRule struct {
	state   models.StudentState
	applies func(facts *models.ActivityFacts, now time.Time) bool
}

// stateRules is evaluated top to bottom; the first matching rule wins.
// first_session is checked before everything else, then recency beats
// inactivity beats achievements. A student with both a fresh session and a
// stale app access (contradictory upstream data) therefore classifies as
// celebration.
var stateRules = []stateRule{
	{models.StateFirstSession, func(f *models.ActivityFacts, _ time.Time) bool {
		return !f.HasCompletedAnySession
	}},
	{models.StateCelebration, func(f *models.ActivityFacts, now time.Time) bool {
		return SessionRecencyScore(now, f.LastSessionTime) >= 20
	}},
	{models.StateReEngagement, func(f *models.ActivityFacts, now time.Time) bool {
		return InactivityBonus(now, f.LastAppAccess) >= 40
	}},
	{models.StateAchievement, func(f *models.ActivityFacts, now time.Time) bool {
		return MilestoneBonus(now, f.AchievementToday, f.RecentAchievements) > 0
	}},
}

// ClassifyStudentState maps an activity snapshot to exactly one of the six
// student states.
func ClassifyStudentState(facts *models.ActivityFacts, now time.Time) models.StudentState {
	for _, rule := range stateRules {
		if rule.applies(facts, now) {
			return rule.state
		}
	}
	return models.StateDefault
}
