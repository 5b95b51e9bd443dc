package engine

import (
	"sort"
	"time"

	"mentora-backend/internal/models"
)

// OrderTTL is how long a computed card order stays valid. Callers cache the
// result and recompute only after expiry.
const OrderTTL = 10 * time.Minute

var stateReasons = map[models.StudentState]string{
	models.StateCelebration:  "You just finished a session — nice work, keep the momentum going.",
	models.StateReEngagement: "It's been a few days. A quick chat is a good way back in.",
	models.StateAchievement:  "You earned something new today. Take a look at your progress.",
	models.StateFirstSession: "Welcome! Let's get your first session going.",
}

const genericReason = "Showing your usual starting point."

// dominantFactorReasons is checked in order when the state is default; the
// first positive factor on the winning card decides the wording. Mirrors
// the classifier's first-match-wins rule list.
var dominantFactorReasons = []struct {
	factor string
	reason string
}{
	{FactorStruggleFocus, "A few subjects could use extra practice."},
	{FactorSessionRecency, "Building on your recent session."},
	{FactorStreakContinuation, "A short session today keeps your streak alive."},
	{FactorInactivityBonus, "It's been a while — chat is a gentle way back in."},
	{FactorReengagementNeed, "A light week so far; a conversation might help."},
	{FactorMilestone, "Fresh achievements are waiting on your progress page."},
	{FactorGoalCompletion, "You completed a goal — see how far you've come."},
	{FactorKnowledgeMilestone, "You leveled up a subject recently."},
	{FactorStreak, "Your streak is worth a look."},
}

func orderReason(state models.StudentState, top models.CardPriority) string {
	if reason, ok := stateReasons[state]; ok {
		return reason
	}
	for _, entry := range dominantFactorReasons {
		if top.Factors[entry.factor] > 0 {
			return entry.reason
		}
	}
	return genericReason
}

// ComputeCardOrder classifies the student, scores all three cards, and
// returns them ranked. The sort is stable over the practice>chat>progress
// input order, so equal scores never flap between renders.
func ComputeCardOrder(facts *models.ActivityFacts, now time.Time) models.CardOrder {
	state := ClassifyStudentState(facts, now)

	priorities := []models.CardPriority{
		ScorePracticeCard(facts, now),
		ScoreChatCard(facts, now),
		ScoreProgressCard(facts, now),
	}
	sort.SliceStable(priorities, func(i, j int) bool {
		return priorities[i].Score > priorities[j].Score
	})

	var order [3]models.CardType
	for i, p := range priorities {
		order[i] = p.Card
	}

	return models.CardOrder{
		Order: order,
		Context: models.OrderContext{
			StudentState: state,
			Reason:       orderReason(state, priorities[0]),
			Priorities:   priorities,
			ComputedAt:   now,
		},
		ExpiresAt: now.Add(OrderTTL),
	}
}

// DefaultCardOrder is the hardcoded fallback when activity facts cannot be
// fetched: base-score order, default state, no signal factors.
func DefaultCardOrder(now time.Time) models.CardOrder {
	priorities := []models.CardPriority{
		{Card: models.CardPractice, Score: basePracticeScore, Factors: map[string]int{FactorBase: basePracticeScore}},
		{Card: models.CardChat, Score: baseChatScore, Factors: map[string]int{FactorBase: baseChatScore}},
		{Card: models.CardProgress, Score: baseProgressScore, Factors: map[string]int{FactorBase: baseProgressScore}},
	}
	return models.CardOrder{
		Order: [3]models.CardType{models.CardPractice, models.CardChat, models.CardProgress},
		Context: models.OrderContext{
			StudentState: models.StateDefault,
			Reason:       genericReason,
			Priorities:   priorities,
			ComputedAt:   now,
		},
		ExpiresAt: now.Add(OrderTTL),
	}
}
