// internal/server/hub.go
package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JTR-Brands/fore-fairways-and-greens/internal/game"
)

// Hub fans committed game updates out to websocket subscribers, keyed by
// game id. It receives updates either directly from the coordinator (single
// instance) or from the Redis subscription (multi instance).
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*subscriber]struct{}
	log  *logrus.Logger
}

type subscriber struct {
	ch chan []byte
}

// NewHub builds an empty hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]map[*subscriber]struct{}),
		log:  log,
	}
}

// Publish delivers one update to every subscriber of its game. Slow
// subscribers are skipped, not waited on.
func (h *Hub) Publish(update game.Update) {
	payload, err := json.Marshal(update)
	if err != nil {
		h.log.WithError(err).Error("hub: marshal update")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[update.GameID] {
		select {
		case sub.ch <- payload:
		default:
			h.log.WithField("game_id", update.GameID).Warn("hub: dropping update for slow subscriber")
		}
	}
}

// subscribe registers a new subscriber for the game. The returned cancel
// must be called when the connection closes.
func (h *Hub) subscribe(gameID uuid.UUID) (*subscriber, func()) {
	sub := &subscriber{ch: make(chan []byte, 32)}
	h.mu.Lock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*subscriber]struct{})
	}
	h.subs[gameID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[gameID], sub)
		if len(h.subs[gameID]) == 0 {
			delete(h.subs, gameID)
		}
		h.mu.Unlock()
	}
	return sub, cancel
}

// RunRedisFeed pumps a Redis-subscribed update stream into the hub until ctx
// ends. Used when multiple server instances share one Redis.
func (h *Hub) RunRedisFeed(ctx context.Context, updates <-chan game.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			h.Publish(u)
		}
	}
}
