package services

import (
	"context"
	"log"
	"time"

	"mentora-backend/internal/engine"
	"mentora-backend/internal/models"
	"mentora-backend/internal/repository"
)

const (
	nudgeMinAway      = 3 * 24 * time.Hour
	nudgeResendAfter  = 72 * time.Hour
	nudgePollInterval = 1 * time.Hour
)

// NudgeScheduler emails students the engine classifies as re_engagement.
// The classifier is the single source of truth for "has drifted away";
// this loop only adds delivery throttling on top.
type NudgeScheduler struct {
	userRepo     *repository.UserRepo
	activityRepo *repository.ActivityRepo
	email        *EmailService
	stopChan     chan struct{}
}

func NewNudgeScheduler(userRepo *repository.UserRepo, activityRepo *repository.ActivityRepo, email *EmailService) *NudgeScheduler {
	return &NudgeScheduler{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		email:        email,
		stopChan:     make(chan struct{}),
	}
}

func (s *NudgeScheduler) Start() {
	if s.userRepo == nil || s.activityRepo == nil || s.email == nil {
		return
	}

	go s.loop()

	log.Printf("Nudge scheduler started")
}

func (s *NudgeScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *NudgeScheduler) loop() {
	// Run on startup as well as by interval.
	s.sendNudges(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(nudgePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sendNudges(context.Background(), time.Now().UTC())
		}
	}
}

func (s *NudgeScheduler) sendNudges(ctx context.Context, now time.Time) {
	candidates, err := s.userRepo.ListNudgeCandidates(ctx, nudgeMinAway)
	if err != nil {
		log.Printf("nudge: failed to list candidates: %v", err)
		return
	}

	for _, candidate := range candidates {
		if !nudgeDue(candidate.LastNudgeAt, nudgeResendAfter, now) {
			continue
		}

		facts, factsErr := s.activityRepo.GetActivityFacts(ctx, candidate.ID)
		if factsErr != nil {
			log.Printf("nudge: failed to load facts for user %s: %v", candidate.ID, factsErr)
			continue
		}

		if engine.ClassifyStudentState(facts, now) != models.StateReEngagement {
			continue
		}

		if err := s.email.SendNudgeEmail(candidate.Email, candidate.FullName, daysAway(facts.LastAppAccess, now)); err != nil {
			log.Printf("nudge: failed to send to %s: %v", candidate.Email, err)
			continue
		}

		if err := s.userRepo.SetNudgeSentAt(ctx, candidate.ID, now); err != nil {
			log.Printf("nudge: failed to persist sent-at for user %s: %v", candidate.ID, err)
		}
	}
}

// nudgeDue reports whether enough time has passed since the last nudge.
// A user who has never been nudged is always due.
func nudgeDue(lastNudgeAt *time.Time, interval time.Duration, now time.Time) bool {
	if lastNudgeAt == nil {
		return true
	}
	return now.Sub(*lastNudgeAt) >= interval
}

func daysAway(lastAppAccess *time.Time, now time.Time) int {
	if lastAppAccess == nil {
		return 0
	}
	away := now.Sub(*lastAppAccess)
	if away < 0 {
		return 0
	}
	return int(away.Hours() / 24)
}
