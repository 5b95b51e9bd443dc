package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

// NudgeRecipient is a user eligible for a re-engagement nudge email.
type NudgeRecipient struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	LastNudgeAt  *time.Time
	LastActiveAt *time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	user.ID = uuid.New()
	user.IsActive = true

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, full_name, avatar_url, is_active, created_at, last_login_at, last_active_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.AvatarURL,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt, &user.LastActiveAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, full_name, avatar_url, is_active, created_at, last_login_at, last_active_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.AvatarURL,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt, &user.LastActiveAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET full_name = $1, email = $2, avatar_url = $3 WHERE id = $4",
		user.FullName, user.Email, user.AvatarURL, user.ID,
	)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

func (r *UserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}

func (r *UserRepo) CreateSettings(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "INSERT INTO user_settings (user_id) VALUES ($1) ON CONFLICT DO NOTHING", userID)
	return err
}

func (r *UserRepo) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	s := &models.UserSettings{}
	query := `SELECT user_id, weekly_goal_target, nudges_enabled, updated_at
		FROM user_settings WHERE user_id = $1`
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.WeeklyGoalTarget, &s.NudgesEnabled, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *UserRepo) UpdateSettings(ctx context.Context, s *models.UserSettings) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_settings SET weekly_goal_target = $1, nudges_enabled = $2, updated_at = NOW()
		 WHERE user_id = $3`,
		s.WeeklyGoalTarget, s.NudgesEnabled, s.UserID,
	)
	return err
}

// ListNudgeCandidates returns active users who opted into nudges and have
// been away for at least minAway. The caller decides whether a nudge is
// actually due.
func (r *UserRepo) ListNudgeCandidates(ctx context.Context, minAway time.Duration) ([]NudgeRecipient, error) {
	cutoff := time.Now().Add(-minAway)
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.full_name, u.last_nudge_at, u.last_active_at
		FROM users u
		JOIN user_settings s ON s.user_id = u.id
		WHERE u.is_active = TRUE
		  AND s.nudges_enabled = TRUE
		  AND (u.last_active_at IS NULL OR u.last_active_at < $1)
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []NudgeRecipient
	for rows.Next() {
		var rec NudgeRecipient
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.FullName, &rec.LastNudgeAt, &rec.LastActiveAt); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func (r *UserRepo) SetNudgeSentAt(ctx context.Context, userID uuid.UUID, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_nudge_at = $1 WHERE id = $2", sentAt, userID)
	return err
}
