package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/models"
)

// ActivityRepo assembles the ActivityFacts snapshot the ordering engine
// consumes. All aggregation happens here; the engine never touches SQL.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

const recentSessionWindow = 7 * 24 * time.Hour
const recentAchievementWindow = 48 * time.Hour

func (r *ActivityRepo) GetActivityFacts(ctx context.Context, userID uuid.UUID) (*models.ActivityFacts, error) {
	now := time.Now().UTC()
	facts := &models.ActivityFacts{
		// Sessions are always tracked for an existing user, so the signal is
		// present even when the list is empty.
		RecentSessions: []models.SessionRecord{},
	}

	if err := r.pool.QueryRow(ctx,
		"SELECT last_active_at FROM users WHERE id = $1", userID,
	).Scan(&facts.LastAppAccess); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, `
		SELECT MAX(ended_at)
		FROM practice_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
	`, userID).Scan(&facts.LastSessionTime); err != nil {
		return nil, err
	}
	facts.HasCompletedAnySession = facts.LastSessionTime != nil

	if err := r.loadRecentSessions(ctx, userID, now, facts); err != nil {
		return nil, err
	}
	if err := r.loadAchievements(ctx, userID, now, facts); err != nil {
		return nil, err
	}
	if err := r.loadPracticeStats(ctx, userID, now, facts); err != nil {
		return nil, err
	}

	return facts, nil
}

// TouchAppAccess records that the student opened the app. Called after the
// facts snapshot is taken, so LastAppAccess always reflects the previous
// visit rather than the current one.
func (r *ActivityRepo) TouchAppAccess(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_active_at = NOW() WHERE id = $1", userID)
	return err
}

func (r *ActivityRepo) loadRecentSessions(ctx context.Context, userID uuid.UUID, now time.Time, facts *models.ActivityFacts) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, topics, ended_at
		FROM practice_sessions
		WHERE user_id = $1 AND ended_at >= $2
		ORDER BY ended_at DESC
	`, userID, now.Add(-recentSessionWindow))
	if err != nil {
		return err
	}
	defer rows.Close()

	indexBySession := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var topics []string
		var endedAt time.Time
		if err := rows.Scan(&id, &topics, &endedAt); err != nil {
			return err
		}
		indexBySession[id] = len(facts.RecentSessions)
		facts.RecentSessions = append(facts.RecentSessions, models.SessionRecord{
			Topics:    topics,
			Timestamp: endedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(indexBySession) == 0 {
		return nil
	}

	// Attach achievements earned during those sessions.
	achRows, err := r.pool.Query(ctx, `
		SELECT id, session_id, type, description, earned_at
		FROM achievements
		WHERE user_id = $1 AND session_id IS NOT NULL AND earned_at >= $2
	`, userID, now.Add(-recentSessionWindow))
	if err != nil {
		return err
	}
	defer achRows.Close()

	for achRows.Next() {
		var a models.Achievement
		a.UserID = userID
		if err := achRows.Scan(&a.ID, &a.SessionID, &a.Type, &a.Description, &a.EarnedAt); err != nil {
			return err
		}
		if idx, ok := indexBySession[*a.SessionID]; ok {
			facts.RecentSessions[idx].Achievements = append(facts.RecentSessions[idx].Achievements, a)
		}
	}
	return achRows.Err()
}

func (r *ActivityRepo) loadAchievements(ctx context.Context, userID uuid.UUID, now time.Time, facts *models.ActivityFacts) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, type, description, earned_at
		FROM achievements
		WHERE user_id = $1 AND earned_at >= $2
		ORDER BY earned_at DESC
	`, userID, now.Add(-recentAchievementWindow))
	if err != nil {
		return err
	}
	defer rows.Close()

	today := dateOf(now)
	for rows.Next() {
		var a models.Achievement
		a.UserID = userID
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Type, &a.Description, &a.EarnedAt); err != nil {
			return err
		}
		facts.RecentAchievements = append(facts.RecentAchievements, a)
		if dateOf(a.EarnedAt).Equal(today) {
			facts.AchievementToday = true
		}
	}
	return rows.Err()
}

func (r *ActivityRepo) loadPracticeStats(ctx context.Context, userID uuid.UUID, now time.Time, facts *models.ActivityFacts) error {
	rows, err := r.pool.Query(ctx, `
		SELECT subject, COUNT(*), COALESCE(AVG(accuracy), 0)
		FROM practice_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
		GROUP BY subject
	`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	stats := make(map[string]models.SubjectStats)
	for rows.Next() {
		var subject string
		var entry models.SubjectStats
		if err := rows.Scan(&subject, &entry.TotalSessions, &entry.AverageScore); err != nil {
			return err
		}
		stats[subject] = entry
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}

	dayRows, err := r.pool.Query(ctx, `
		SELECT DISTINCT subject, DATE(ended_at)
		FROM practice_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
	`, userID)
	if err != nil {
		return err
	}
	defer dayRows.Close()

	daysBySubject := make(map[string][]time.Time)
	var allDays []time.Time
	for dayRows.Next() {
		var subject string
		var d time.Time
		if err := dayRows.Scan(&subject, &d); err != nil {
			return err
		}
		daysBySubject[subject] = append(daysBySubject[subject], d)
		allDays = append(allDays, d)
	}
	if err := dayRows.Err(); err != nil {
		return err
	}

	for subject, entry := range stats {
		days := daysBySubject[subject]
		entry.CurrentStreak = consecutiveDayStreak(days, now)
		entry.LongestStreak = longestDayStreak(days)
		stats[subject] = entry
	}

	facts.PracticeStats = stats
	facts.CurrentStreak = consecutiveDayStreak(allDays, now)
	return nil
}
