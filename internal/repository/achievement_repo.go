package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/models"
)

type AchievementRepo struct {
	pool *pgxpool.Pool
}

func NewAchievementRepo(pool *pgxpool.Pool) *AchievementRepo {
	return &AchievementRepo{pool: pool}
}

func (r *AchievementRepo) Record(ctx context.Context, a *models.Achievement) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO achievements (user_id, session_id, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, earned_at
	`, a.UserID, a.SessionID, a.Type, a.Description).Scan(&a.ID, &a.EarnedAt)
}

func (r *AchievementRepo) ListRecent(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.Achievement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, type, description, earned_at
		FROM achievements
		WHERE user_id = $1 AND earned_at >= $2
		ORDER BY earned_at DESC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		a := models.Achievement{UserID: userID}
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Type, &a.Description, &a.EarnedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// HasRecentOfType reports whether an achievement of the given type was
// already recorded after the cutoff — used to avoid awarding the same goal
// twice in a week.
func (r *AchievementRepo) HasRecentOfType(ctx context.Context, userID uuid.UUID, typ models.AchievementType, cutoff time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM achievements
			WHERE user_id = $1 AND type = $2 AND earned_at >= $3
		)
	`, userID, typ, cutoff).Scan(&exists)
	return exists, err
}
