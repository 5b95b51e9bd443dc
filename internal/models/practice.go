package models

import (
	"time"

	"github.com/google/uuid"
)

type PracticeSession struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Subject         string     `json:"subject"`
	Topics          []string   `json:"topics"`
	DifficultyLevel int        `json:"difficulty_level"`
	AnswersTotal    int        `json:"answers_total"`
	AnswersCorrect  int        `json:"answers_correct"`
	Accuracy        *float64   `json:"accuracy,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type PracticeAnswer struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	QuestionID string    `json:"question_id"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// FinalizeJob is the payload queued when a practice session completes.
// The worker pool picks it up to run the mastery update and award
// achievements outside the request path.
type FinalizeJob struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// CompanionEvent is pushed to connected clients over the websocket hub.
type CompanionEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventAchievementUnlocked = "achievement_unlocked"
	EventMasteryUpdated      = "mastery_updated"
	EventCardOrderStale      = "card_order_stale"
)
