package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mentora-backend/internal/engine"
	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
)

const cardOrderKeyPrefix = "cards:order:"

// factsProvider is what the handler needs from the facts service.
type factsProvider interface {
	GetActivityFacts(ctx context.Context, userID uuid.UUID) (*models.ActivityFacts, error)
}

type CardsHandler struct {
	facts factsProvider
	redis *redis.Client
}

func NewCardsHandler(facts factsProvider, redisClient *redis.Client) *CardsHandler {
	return &CardsHandler{facts: facts, redis: redisClient}
}

// GetOrder returns the home-screen card order for the authenticated user.
// Orders are cached until their expiry; ?refresh=1 forces a recompute.
func (h *CardsHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	refresh := r.URL.Query().Get("refresh") == "1"

	if !refresh {
		if cached := h.cachedOrder(r.Context(), userID); cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	now := time.Now().UTC()

	facts, err := h.facts.GetActivityFacts(r.Context(), userID)
	if err != nil {
		// The fixed default order is always safe to serve. It is never
		// cached, so the next request retries the real computation.
		writeJSON(w, http.StatusOK, engine.DefaultCardOrder(now))
		return
	}

	order := engine.ComputeCardOrder(facts, now)
	h.cacheOrder(r.Context(), userID, order)

	writeJSON(w, http.StatusOK, order)
}

func (h *CardsHandler) cachedOrder(ctx context.Context, userID uuid.UUID) *models.CardOrder {
	if h.redis == nil {
		return nil
	}

	raw, err := h.redis.Get(ctx, cardOrderKeyPrefix+userID.String()).Result()
	if err != nil {
		return nil
	}

	var order models.CardOrder
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil
	}
	if !order.ExpiresAt.After(time.Now().UTC()) {
		return nil
	}
	return &order
}

func (h *CardsHandler) cacheOrder(ctx context.Context, userID uuid.UUID, order models.CardOrder) {
	if h.redis == nil {
		return
	}

	data, err := json.Marshal(order)
	if err != nil {
		return
	}

	ttl := time.Until(order.ExpiresAt)
	if ttl <= 0 {
		return
	}

	if err := h.redis.Set(ctx, cardOrderKeyPrefix+userID.String(), data, ttl).Err(); err != nil {
		log.Printf("cards: failed to cache order for %s: %v", userID, err)
	}
}
