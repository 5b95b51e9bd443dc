package models

import (
	"time"

	"github.com/google/uuid"
)

// SubjectMastery is the per-subject control state persisted between practice
// sessions: a smoothed proficiency estimate in [0,1] and the difficulty
// level in [1,5] the next session should start at.
type SubjectMastery struct {
	UserID          uuid.UUID `json:"user_id"`
	Subject         string    `json:"subject"`
	MasteryLevel    float64   `json:"mastery_level"`
	DifficultyLevel int       `json:"difficulty_level"`
	UpdatedAt       time.Time `json:"updated_at"`
}
