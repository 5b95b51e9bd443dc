package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"mentora-backend/internal/models"
)

func TestUserHandler_UpdateMe_InvalidRequestBody(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{
		user: &models.User{ID: userID, FullName: "Alice", Email: "alice@example.com"},
	}
	h := &UserHandler{userRepo: repo}

	body := `{"full_name":"Updated","unknown_field":true}`
	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/v1/user/me", body, userID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if repo.updatedUser {
		t.Fatalf("user should not be updated for invalid request body")
	}
}

func TestUserHandler_UpdateMe_RepoFailure(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{
		user:      &models.User{ID: userID, FullName: "Alice", Email: "alice@example.com"},
		updateErr: errors.New("db unavailable"),
	}
	h := &UserHandler{userRepo: repo}

	body := `{"full_name":"Updated Name"}`
	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/v1/user/me", body, userID))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !repo.updatedUser {
		t.Fatalf("expected user update to be attempted")
	}
}

func TestUserHandler_UpdateSettings_InvalidRequestBody(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{user: &models.User{ID: userID}}
	h := &UserHandler{userRepo: repo}

	body := `{"weekly_goal_target":5,"unexpected":"value"}`
	rr := httptest.NewRecorder()
	h.UpdateSettings(rr, authedRequest(http.MethodPut, "/api/v1/user/settings", body, userID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if repo.updatedSettings {
		t.Fatalf("settings should not be updated for invalid request body")
	}
}

func TestUserHandler_UpdateSettings_GoalOutOfRange(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{user: &models.User{ID: userID}}
	h := &UserHandler{userRepo: repo}

	for _, body := range []string{
		`{"weekly_goal_target":0,"nudges_enabled":true}`,
		`{"weekly_goal_target":51,"nudges_enabled":true}`,
	} {
		rr := httptest.NewRecorder()
		h.UpdateSettings(rr, authedRequest(http.MethodPut, "/api/v1/user/settings", body, userID))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d for body %s, got %d", http.StatusBadRequest, body, rr.Code)
		}
	}
	if repo.updatedSettings {
		t.Fatalf("settings should not be updated for out-of-range goal")
	}
}

func TestUserHandler_UpdateSettings_RepoFailure(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{
		user:              &models.User{ID: userID},
		updateSettingsErr: errors.New("write failed"),
	}
	h := &UserHandler{userRepo: repo}

	body := `{"weekly_goal_target":5,"nudges_enabled":true}`
	rr := httptest.NewRecorder()
	h.UpdateSettings(rr, authedRequest(http.MethodPut, "/api/v1/user/settings", body, userID))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !repo.updatedSettings {
		t.Fatalf("expected settings update to be attempted")
	}
}

func TestUserHandler_DeleteMe_RepoFailure(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{
		user:      &models.User{ID: userID},
		deleteErr: errors.New("delete failed"),
	}
	h := &UserHandler{userRepo: repo}

	rr := httptest.NewRecorder()
	h.DeleteMe(rr, authedRequest(http.MethodDelete, "/api/v1/user/me", "", userID))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !repo.deletedUser {
		t.Fatalf("expected delete to be attempted")
	}
}
