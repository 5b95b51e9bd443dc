package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
)

type stubUserStore struct {
	user     *models.User
	settings *models.UserSettings

	updateErr         error
	deleteErr         error
	updateSettingsErr error

	updatedUser     bool
	deletedUser     bool
	updatedSettings bool
	updatedPassword bool
	passwordUserID  uuid.UUID
	passwordHash    string
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserStore) Update(ctx context.Context, user *models.User) error {
	s.updatedUser = true
	return s.updateErr
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	s.updatedPassword = true
	s.passwordUserID = userID
	s.passwordHash = passwordHash
	return nil
}

func (s *stubUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.deletedUser = true
	return s.deleteErr
}

func (s *stubUserStore) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	if s.settings == nil {
		return nil, pgx.ErrNoRows
	}
	return s.settings, nil
}

func (s *stubUserStore) UpdateSettings(ctx context.Context, settings *models.UserSettings) error {
	s.updatedSettings = true
	return s.updateSettingsErr
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestUserHandler_ChangePassword_Validation(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserStore{user: &models.User{ID: userID, PasswordHash: string(hash)}}
	h := &UserHandler{userRepo: repo}

	body := `{"current_password":"CurrentPass1","new_password":"NoDigits"}`
	rr := httptest.NewRecorder()
	h.ChangePassword(rr, authedRequest(http.MethodPut, "/api/v1/user/password", body, userID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if repo.updatedPassword {
		t.Fatalf("password should not be updated on validation error")
	}
}

func TestUserHandler_ChangePassword_CurrentPasswordMismatch(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserStore{user: &models.User{ID: userID, PasswordHash: string(hash)}}
	h := &UserHandler{userRepo: repo}

	body := `{"current_password":"WrongPass1","new_password":"NewPass123"}`
	rr := httptest.NewRecorder()
	h.ChangePassword(rr, authedRequest(http.MethodPut, "/api/v1/user/password", body, userID))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if repo.updatedPassword {
		t.Fatalf("password should not be updated for wrong current password")
	}
}

func TestUserHandler_ChangePassword_Success(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserStore{user: &models.User{ID: userID, PasswordHash: string(hash)}}
	h := &UserHandler{userRepo: repo}

	body := `{"current_password":"CurrentPass1","new_password":"NewPass123"}`
	rr := httptest.NewRecorder()
	h.ChangePassword(rr, authedRequest(http.MethodPut, "/api/v1/user/password", body, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !repo.updatedPassword {
		t.Fatalf("password should be updated on success")
	}
	if repo.passwordUserID != userID {
		t.Fatalf("expected updated user id %s, got %s", userID, repo.passwordUserID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.passwordHash), []byte("NewPass123")); err != nil {
		t.Fatalf("stored password hash does not match new password")
	}

	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["message"] != "Password changed successfully" {
		t.Fatalf("unexpected response message: %q", payload["message"])
	}
}
