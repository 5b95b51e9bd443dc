package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mentora-backend/internal/adaptive"
	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
	"mentora-backend/internal/repository"
)

const finalizeQueue = "queue:session-finalize"

type PracticeHandler struct {
	practiceRepo *repository.PracticeRepo
	masteryRepo  *repository.MasteryRepo
	redis        *redis.Client
}

func NewPracticeHandler(practiceRepo *repository.PracticeRepo, masteryRepo *repository.MasteryRepo, redisClient *redis.Client) *PracticeHandler {
	return &PracticeHandler{practiceRepo: practiceRepo, masteryRepo: masteryRepo, redis: redisClient}
}

// Start opens a practice session at the difficulty implied by the
// student's current mastery of the subject.
func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Subject string   `json:"subject"`
		Topics  []string `json:"topics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"subject": "Subject is required"}, r))
		return
	}

	mastery, err := h.masteryRepo.GetOrDefault(r.Context(), userID, req.Subject)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start session", r))
		return
	}

	session := &models.PracticeSession{
		UserID:          userID,
		Subject:         req.Subject,
		Topics:          req.Topics,
		DifficultyLevel: adaptive.StartingDifficulty(mastery.MasteryLevel),
	}
	if session.Topics == nil {
		session.Topics = []string{}
	}

	if err := h.practiceRepo.Start(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start session", r))
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// SubmitAnswer records one answer and re-evaluates the session difficulty
// from the two most recent answers.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	var req struct {
		QuestionID string `json:"question_id"`
		Correct    bool   `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"question_id": "Question ID is required"}, r))
		return
	}

	session, err := h.practiceRepo.GetByID(r.Context(), sessionID, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}
	if session.EndedAt != nil {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session already completed", r))
		return
	}

	answer := &models.PracticeAnswer{
		SessionID:  sessionID,
		QuestionID: req.QuestionID,
		Correct:    req.Correct,
	}
	if err := h.practiceRepo.RecordAnswer(r.Context(), answer); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record answer", r))
		return
	}

	recent, err := h.practiceRepo.RecentAnswers(r.Context(), sessionID, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record answer", r))
		return
	}

	next := adaptive.NextDifficulty(session.DifficultyLevel, recent)
	if next != session.DifficultyLevel {
		if err := h.practiceRepo.UpdateDifficulty(r.Context(), sessionID, next); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record answer", r))
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":           answer,
		"difficulty_level": next,
	})
}

// Complete closes the session and queues the finalize job for the worker
// pool. Completing an already-completed session returns the stored result.
func (h *PracticeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	session, err := h.practiceRepo.Complete(r.Context(), sessionID, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}

	h.enqueueFinalize(r, models.FinalizeJob{SessionID: session.ID, UserID: userID})

	writeJSON(w, http.StatusOK, session)
}

func (h *PracticeHandler) enqueueFinalize(r *http.Request, job models.FinalizeJob) {
	if h.redis == nil {
		return
	}

	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := h.redis.LPush(r.Context(), finalizeQueue, data).Err(); err != nil {
		log.Printf("practice: failed to enqueue finalize job for session %s: %v", job.SessionID, err)
	}
}
