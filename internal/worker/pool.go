package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mentora-backend/internal/adaptive"
	"mentora-backend/internal/models"
	"mentora-backend/internal/repository"
	"mentora-backend/internal/websocket"
)

const (
	finalizeQueue      = "queue:session-finalize"
	cardOrderKeyPrefix = "cards:order:"

	weeklyGoalWindow = 7 * 24 * time.Hour
)

// Pool consumes session-finalize jobs: it folds the session accuracy into
// subject mastery, awards achievements, and invalidates the cached card
// order so the next home-screen render sees the new state.
type Pool struct {
	redis           *redis.Client
	practiceRepo    *repository.PracticeRepo
	masteryRepo     *repository.MasteryRepo
	achievementRepo *repository.AchievementRepo
	userRepo        *repository.UserRepo
	workerCount     int
	stopChan        chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	practiceRepo *repository.PracticeRepo,
	masteryRepo *repository.MasteryRepo,
	achievementRepo *repository.AchievementRepo,
	userRepo *repository.UserRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:           redisClient,
		practiceRepo:    practiceRepo,
		masteryRepo:     masteryRepo,
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		workerCount:     workerCount,
		stopChan:        make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, finalizeQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.FinalizeJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock so double-queued completions run once
		lockKey := fmt.Sprintf("finalize_lock:%s", job.SessionID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: finalizing session %s", id, job.SessionID)

		if err := p.finalizeSession(ctx, job); err != nil {
			log.Printf("Worker %d: failed to finalize session %s: %v", id, job.SessionID, err)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) finalizeSession(ctx context.Context, job models.FinalizeJob) error {
	session, err := p.practiceRepo.GetByID(ctx, job.SessionID, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.Accuracy == nil {
		return fmt.Errorf("session %s has no recorded accuracy", session.ID)
	}

	mastery, err := p.masteryRepo.GetOrDefault(ctx, job.UserID, session.Subject)
	if err != nil {
		return fmt.Errorf("failed to load mastery: %w", err)
	}

	oldLevel := mastery.MasteryLevel
	mastery.MasteryLevel = adaptive.UpdateMastery(oldLevel, *session.Accuracy)
	mastery.DifficultyLevel = adaptive.StartingDifficulty(mastery.MasteryLevel)

	if err := p.masteryRepo.Upsert(ctx, mastery); err != nil {
		return fmt.Errorf("failed to save mastery: %w", err)
	}

	websocket.PublishEvent(ctx, p.redis, job.UserID, models.CompanionEvent{
		Type:    models.EventMasteryUpdated,
		Payload: mastery,
	})

	p.awardAchievements(ctx, session, oldLevel, mastery.MasteryLevel)

	// Invalidate the cached order; the new facts change the scores.
	p.redis.Del(ctx, cardOrderKeyPrefix+job.UserID.String())
	websocket.PublishEvent(ctx, p.redis, job.UserID, models.CompanionEvent{
		Type: models.EventCardOrderStale,
	})

	return nil
}

func (p *Pool) awardAchievements(ctx context.Context, session *models.PracticeSession, oldMastery, newMastery float64) {
	if crossedMasteryBand(oldMastery, newMastery) {
		p.award(ctx, session, models.AchievementMasteryLevel,
			fmt.Sprintf("Reached mastery level %d in %s", masteryBand(newMastery)+1, session.Subject))
	}

	if *session.Accuracy >= 1.0 && session.AnswersTotal > 0 {
		p.award(ctx, session, models.AchievementMilestone,
			fmt.Sprintf("Perfect score in %s", session.Subject))
	}

	p.checkWeeklyGoal(ctx, session)
}

func (p *Pool) checkWeeklyGoal(ctx context.Context, session *models.PracticeSession) {
	settings, err := p.userRepo.GetSettings(ctx, session.UserID)
	if err != nil {
		return
	}
	target := settings.WeeklyGoalTarget
	if target < 1 {
		return
	}

	completed, err := p.practiceRepo.CountCompletedSince(ctx, session.UserID, time.Now().UTC().Add(-weeklyGoalWindow))
	if err != nil || completed < target {
		return
	}

	// One goal achievement per weekly window.
	already, err := p.achievementRepo.HasRecentOfType(ctx, session.UserID, models.AchievementGoalCompletion,
		time.Now().UTC().Add(-weeklyGoalWindow))
	if err != nil || already {
		return
	}

	p.award(ctx, session, models.AchievementGoalCompletion,
		fmt.Sprintf("Completed your weekly goal of %d sessions", target))
}

func (p *Pool) award(ctx context.Context, session *models.PracticeSession, typ models.AchievementType, description string) {
	achievement := &models.Achievement{
		UserID:      session.UserID,
		SessionID:   &session.ID,
		Type:        typ,
		Description: description,
	}
	if err := p.achievementRepo.Record(ctx, achievement); err != nil {
		log.Printf("failed to record %s achievement for session %s: %v", typ, session.ID, err)
		return
	}

	websocket.PublishEvent(ctx, p.redis, session.UserID, models.CompanionEvent{
		Type:    models.EventAchievementUnlocked,
		Payload: achievement,
	})
}

// masteryBand maps mastery onto the same 0.2-wide bands the starting
// difficulty uses, so "leveled up" and "starts harder sessions" agree.
func masteryBand(mastery float64) int {
	return adaptive.StartingDifficulty(mastery) - 1
}

func crossedMasteryBand(oldMastery, newMastery float64) bool {
	return masteryBand(newMastery) > masteryBand(oldMastery)
}
