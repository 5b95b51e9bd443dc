package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"mentora-backend/internal/models"
	"mentora-backend/internal/repository"
)

// FactsService is the narrow fetch collaborator in front of the ordering
// engine: one call returns the full ActivityFacts snapshot. The engine
// itself never sees a failure — on error the caller substitutes the fixed
// default card order.
type FactsService struct {
	activityRepo *repository.ActivityRepo
}

func NewFactsService(activityRepo *repository.ActivityRepo) *FactsService {
	return &FactsService{activityRepo: activityRepo}
}

func (s *FactsService) GetActivityFacts(ctx context.Context, userID uuid.UUID) (*models.ActivityFacts, error) {
	facts, err := s.activityRepo.GetActivityFacts(ctx, userID)
	if err != nil {
		return nil, &UnavailableError{Message: "activity facts unavailable"}
	}

	// Record this visit after snapshotting, so the snapshot's LastAppAccess
	// still points at the previous one. Failure here only makes the next
	// inactivity signal slightly stale.
	if err := s.activityRepo.TouchAppAccess(ctx, userID); err != nil {
		log.Printf("facts: failed to touch app access for %s: %v", userID, err)
	}

	return facts, nil
}
