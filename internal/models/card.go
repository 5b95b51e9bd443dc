package models

import "time"

type CardType string

const (
	CardChat     CardType = "chat"
	CardPractice CardType = "practice"
	CardProgress CardType = "progress"
)

type StudentState string

const (
	StateCelebration  StudentState = "celebration"
	StateReEngagement StudentState = "re_engagement"
	StateAchievement  StudentState = "achievement"
	StateFirstSession StudentState = "first_session"
	StateDefault      StudentState = "default"
)

// CardPriority carries the total score plus the named contributions that
// produced it. Score always equals the sum of the factor values.
type CardPriority struct {
	Card    CardType       `json:"card"`
	Score   int            `json:"score"`
	Factors map[string]int `json:"factors"`
}

type OrderContext struct {
	StudentState StudentState   `json:"student_state"`
	Reason       string         `json:"reason"`
	Priorities   []CardPriority `json:"priorities"`
	ComputedAt   time.Time      `json:"computed_at"`
}

type CardOrder struct {
	Order     [3]CardType  `json:"order"`
	Context   OrderContext `json:"context"`
	ExpiresAt time.Time    `json:"expires_at"`
}
