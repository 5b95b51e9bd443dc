package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/models"
)

type PracticeRepo struct {
	pool *pgxpool.Pool
}

func NewPracticeRepo(pool *pgxpool.Pool) *PracticeRepo {
	return &PracticeRepo{pool: pool}
}

func (r *PracticeRepo) Start(ctx context.Context, s *models.PracticeSession) error {
	query := `
		INSERT INTO practice_sessions (user_id, subject, topics, difficulty_level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, started_at, created_at
	`
	return r.pool.QueryRow(ctx, query, s.UserID, s.Subject, s.Topics, s.DifficultyLevel).Scan(
		&s.ID,
		&s.StartedAt,
		&s.CreatedAt,
	)
}

func (r *PracticeRepo) GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*models.PracticeSession, error) {
	s := &models.PracticeSession{}
	query := `
		SELECT id, user_id, subject, topics, difficulty_level,
		       answers_total, answers_correct, accuracy, started_at, ended_at, created_at
		FROM practice_sessions
		WHERE id = $1 AND user_id = $2
	`
	err := r.pool.QueryRow(ctx, query, sessionID, userID).Scan(
		&s.ID, &s.UserID, &s.Subject, &s.Topics, &s.DifficultyLevel,
		&s.AnswersTotal, &s.AnswersCorrect, &s.Accuracy, &s.StartedAt, &s.EndedAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecordAnswer stores the answer and bumps the session counters in one
// transaction, so accuracy never disagrees with the answer log.
func (r *PracticeRepo) RecordAnswer(ctx context.Context, a *models.PracticeAnswer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO practice_answers (session_id, question_id, correct)
		VALUES ($1, $2, $3)
		RETURNING id, answered_at
	`, a.SessionID, a.QuestionID, a.Correct).Scan(&a.ID, &a.AnsweredAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE practice_sessions
		SET answers_total = answers_total + 1,
			answers_correct = answers_correct + CASE WHEN $2 THEN 1 ELSE 0 END
		WHERE id = $1
	`, a.SessionID, a.Correct)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RecentAnswers returns up to limit answers for the session, most recent
// first — the shape the difficulty rule expects.
func (r *PracticeRepo) RecentAnswers(ctx context.Context, sessionID uuid.UUID, limit int) ([]bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT correct
		FROM practice_answers
		WHERE session_id = $1
		ORDER BY answered_at DESC, id DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []bool
	for rows.Next() {
		var correct bool
		if err := rows.Scan(&correct); err != nil {
			return nil, err
		}
		answers = append(answers, correct)
	}
	return answers, rows.Err()
}

func (r *PracticeRepo) UpdateDifficulty(ctx context.Context, sessionID uuid.UUID, level int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE practice_sessions SET difficulty_level = $1 WHERE id = $2", level, sessionID)
	return err
}

// Complete closes the session and freezes its accuracy. Idempotent: a
// second call leaves the original ended_at and accuracy in place.
func (r *PracticeRepo) Complete(ctx context.Context, sessionID, userID uuid.UUID) (*models.PracticeSession, error) {
	_, err := r.pool.Exec(ctx, `
		UPDATE practice_sessions
		SET ended_at = NOW(),
			accuracy = CASE
				WHEN answers_total > 0 THEN answers_correct::FLOAT / answers_total
				ELSE 0
			END
		WHERE id = $1 AND user_id = $2 AND ended_at IS NULL
	`, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, sessionID, userID)
}

// CountCompletedSince counts completed sessions after the cutoff, used for
// weekly-goal detection.
func (r *PracticeRepo) CountCompletedSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM practice_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND ended_at >= $2
	`, userID, cutoff).Scan(&count)
	return count, err
}
