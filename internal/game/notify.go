// internal/game/notify.go
package game

import (
	"time"

	"github.com/google/uuid"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
)

// UpdateType classifies a game update pushed to subscribers.
type UpdateType string

const (
	UpdateGameCreated   UpdateType = "game_created"
	UpdatePlayerJoined  UpdateType = "player_joined"
	UpdateGameStarted   UpdateType = "game_started"
	UpdateActionApplied UpdateType = "action_applied"
	UpdateNPCActed      UpdateType = "npc_acted"
	UpdateGameEnded     UpdateType = "game_ended"
	UpdateGameCancelled UpdateType = "game_cancelled"
)

// Update is the record broadcast to every subscriber after a committed
// mutation. One Update per committed action, NPC actions included.
type Update struct {
	GameID            uuid.UUID        `json:"gameId"`
	Type              UpdateType       `json:"type"`
	TriggeredByPlayer uuid.UUID        `json:"triggeredByPlayerId"`
	TurnNumber        int              `json:"turnNumber"`
	CurrentPlayerID   uuid.UUID        `json:"currentPlayerId"`
	TurnPhase         string           `json:"turnPhase"`
	GameStatus        string           `json:"gameStatus"`
	Version           uint64           `json:"version"`
	DiceRoll          *engine.DiceRoll `json:"diceRoll,omitempty"`
	Events            []engine.Event   `json:"events"`
	Timestamp         time.Time        `json:"timestamp"`
}

// BroadcastFunc delivers an update to subscribers. Implementations must not
// block; the coordinator calls it outside the session lock.
type BroadcastFunc func(update Update)

// buildUpdate snapshots the post-commit facts for one committed mutation.
// The session lock must be held.
func buildUpdate(g *engine.Game, typ UpdateType, triggeredBy uuid.UUID, events []engine.Event) Update {
	u := Update{
		GameID:            g.ID,
		Type:              typ,
		TriggeredByPlayer: triggeredBy,
		TurnNumber:        g.TurnNumber,
		CurrentPlayerID:   g.CurrentPlayer,
		TurnPhase:         string(g.Phase),
		GameStatus:        string(g.Status),
		Version:           g.Version,
		Events:            events,
		Timestamp:         time.Now().UTC(),
	}
	if g.LastRoll != nil {
		roll := *g.LastRoll
		u.DiceRoll = &roll
	}
	switch g.Status {
	case engine.StatusCompleted:
		u.Type = UpdateGameEnded
	case engine.StatusCancelled:
		u.Type = UpdateGameCancelled
	}
	return u
}
