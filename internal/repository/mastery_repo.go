package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/adaptive"
	"mentora-backend/internal/models"
)

type MasteryRepo struct {
	pool *pgxpool.Pool
}

func NewMasteryRepo(pool *pgxpool.Pool) *MasteryRepo {
	return &MasteryRepo{pool: pool}
}

// GetOrDefault returns the persisted mastery state for the subject, or the
// first-practice default (mastery 0, difficulty derived from it) when the
// student has never practiced it. The default is not persisted until the
// first upsert.
func (r *MasteryRepo) GetOrDefault(ctx context.Context, userID uuid.UUID, subject string) (*models.SubjectMastery, error) {
	m := &models.SubjectMastery{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, subject, mastery_level, difficulty_level, updated_at
		FROM subject_mastery
		WHERE user_id = $1 AND subject = $2
	`, userID, subject).Scan(&m.UserID, &m.Subject, &m.MasteryLevel, &m.DifficultyLevel, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.SubjectMastery{
			UserID:          userID,
			Subject:         subject,
			MasteryLevel:    0,
			DifficultyLevel: adaptive.StartingDifficulty(0),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Upsert writes the new mastery state and appends the change to
// mastery_history. Records are never deleted.
func (r *MasteryRepo) Upsert(ctx context.Context, m *models.SubjectMastery) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO subject_mastery (user_id, subject, mastery_level, difficulty_level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, subject)
		DO UPDATE SET mastery_level = $3, difficulty_level = $4, updated_at = NOW()
		RETURNING updated_at
	`, m.UserID, m.Subject, m.MasteryLevel, m.DifficultyLevel).Scan(&m.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO mastery_history (user_id, subject, mastery_level, difficulty_level)
		VALUES ($1, $2, $3, $4)
	`, m.UserID, m.Subject, m.MasteryLevel, m.DifficultyLevel)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListForUser returns every subject the student has mastery state for.
func (r *MasteryRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SubjectMastery, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, subject, mastery_level, difficulty_level, updated_at
		FROM subject_mastery
		WHERE user_id = $1
		ORDER BY subject
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.SubjectMastery
	for rows.Next() {
		var m models.SubjectMastery
		if err := rows.Scan(&m.UserID, &m.Subject, &m.MasteryLevel, &m.DifficultyLevel, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
