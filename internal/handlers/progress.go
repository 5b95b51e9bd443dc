package handlers

import (
	"net/http"
	"time"

	"mentora-backend/internal/middleware"
	"mentora-backend/internal/repository"
)

type ProgressHandler struct {
	activityRepo    *repository.ActivityRepo
	masteryRepo     *repository.MasteryRepo
	achievementRepo *repository.AchievementRepo
	practiceRepo    *repository.PracticeRepo
	userRepo        *repository.UserRepo
}

func NewProgressHandler(
	activityRepo *repository.ActivityRepo,
	masteryRepo *repository.MasteryRepo,
	achievementRepo *repository.AchievementRepo,
	practiceRepo *repository.PracticeRepo,
	userRepo *repository.UserRepo,
) *ProgressHandler {
	return &ProgressHandler{
		activityRepo:    activityRepo,
		masteryRepo:     masteryRepo,
		achievementRepo: achievementRepo,
		practiceRepo:    practiceRepo,
		userRepo:        userRepo,
	}
}

// Stats backs the progress card: per-subject mastery, practice stats,
// streaks, and weekly goal progress in one payload.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	facts, err := h.activityRepo.GetActivityFacts(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load progress", r))
		return
	}

	mastery, err := h.masteryRepo.ListForUser(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load progress", r))
		return
	}

	weeklyGoalTarget := 5
	if settings, err := h.userRepo.GetSettings(ctx, userID); err == nil && settings.WeeklyGoalTarget > 0 {
		weeklyGoalTarget = settings.WeeklyGoalTarget
	}

	weekStart := time.Now().UTC().Add(-7 * 24 * time.Hour)
	weeklyCompleted, err := h.practiceRepo.CountCompletedSince(ctx, userID, weekStart)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mastery":            mastery,
		"practice_stats":     facts.PracticeStats,
		"current_streak":     facts.CurrentStreak,
		"weekly_goal_target": weeklyGoalTarget,
		"weekly_completed":   weeklyCompleted,
	})
}

func (h *ProgressHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	facts, err := h.activityRepo.GetActivityFacts(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load streak", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"streak": facts.CurrentStreak})
}

// Achievements lists the last 30 days of earned achievements, newest first.
func (h *ProgressHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	since := time.Now().UTC().Add(-30 * 24 * time.Hour)
	achievements, err := h.achievementRepo.ListRecent(r.Context(), userID, since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load achievements", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": achievements})
}
