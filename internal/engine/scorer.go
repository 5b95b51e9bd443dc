package engine

import (
	"time"

	"mentora-backend/internal/models"
)

// Factor names attached to CardPriority breakdowns.
const (
	FactorBase               = "base"
	FactorSessionRecency     = "session_recency"
	FactorStruggleFocus      = "struggle_focus"
	FactorStreakContinuation = "streak_continuation"
	FactorInactivityPenalty  = "inactivity_penalty"
	FactorInactivityBonus    = "inactivity_bonus"
	FactorReengagementNeed   = "reengagement_need"
	FactorRecencyOffset      = "recency_offset"
	FactorFirstSession       = "first_session"
	FactorMilestone          = "milestone"
	FactorGoalCompletion     = "goal_completion"
	FactorKnowledgeMilestone = "knowledge_milestone"
	FactorStreak             = "streak"
)

// Base scores reflect the default precedence toward active learning:
// practice over chat over progress.
const (
	basePracticeScore = 30
	baseChatScore     = 20
	baseProgressScore = 10
)

// scoreBuilder accumulates named contributions so the final CardPriority
// carries an auditable breakdown. Score equals the sum of the factor map
// by construction.
type scoreBuilder struct {
	card    models.CardType
	total   int
	factors map[string]int
}

func newScoreBuilder(card models.CardType, base int) *scoreBuilder {
	b := &scoreBuilder{card: card, factors: make(map[string]int)}
	b.add(FactorBase, base)
	return b
}

// add records a contribution; penalties come in negative. Zero values are
// skipped so the factor map only lists signals that actually fired.
func (b *scoreBuilder) add(name string, value int) {
	if value == 0 {
		return
	}
	b.factors[name] = value
	b.total += value
}

func (b *scoreBuilder) build() models.CardPriority {
	return models.CardPriority{Card: b.card, Score: b.total, Factors: b.factors}
}

// ScorePracticeCard favors students mid-flow: a recent session, a struggling
// subject, or a streak at risk all push practice up; a long absence pulls
// it down.
func ScorePracticeCard(facts *models.ActivityFacts, now time.Time) models.CardPriority {
	b := newScoreBuilder(models.CardPractice, basePracticeScore)
	b.add(FactorSessionRecency, SessionRecencyScore(now, facts.LastSessionTime))
	b.add(FactorStruggleFocus, StruggleFocusBonus(facts.PracticeStats))
	b.add(FactorStreakContinuation, StreakContinuationBonus(now, facts.CurrentStreak, facts.LastSessionTime))
	b.add(FactorInactivityPenalty, -InactivityPenalty(now, facts.LastAppAccess))
	return b.build()
}

// ScoreChatCard favors students who have drifted away or are brand new; a
// just-finished session counts against it at half the recency weight.
func ScoreChatCard(facts *models.ActivityFacts, now time.Time) models.CardPriority {
	b := newScoreBuilder(models.CardChat, baseChatScore)
	b.add(FactorInactivityBonus, InactivityBonus(now, facts.LastAppAccess))
	b.add(FactorReengagementNeed, ReengagementNeedBonus(now, facts.RecentSessions))
	b.add(FactorRecencyOffset, -(SessionRecencyScore(now, facts.LastSessionTime) / 2))
	if !facts.HasCompletedAnySession && len(facts.RecentSessions) == 0 {
		b.add(FactorFirstSession, 30)
	}
	return b.build()
}

// ScoreProgressCard surfaces the progress view when there is something
// fresh to show: achievements, completed goals, or a streak worth seeing.
func ScoreProgressCard(facts *models.ActivityFacts, now time.Time) models.CardPriority {
	b := newScoreBuilder(models.CardProgress, baseProgressScore)
	b.add(FactorMilestone, MilestoneBonus(now, facts.AchievementToday, facts.RecentAchievements))
	b.add(FactorGoalCompletion, GoalCompletionBonus(now, facts.RecentAchievements))
	b.add(FactorKnowledgeMilestone, KnowledgeMilestoneBonus(now, facts.RecentAchievements))
	b.add(FactorStreak, StreakBonus(facts.CurrentStreak))
	return b.build()
}
