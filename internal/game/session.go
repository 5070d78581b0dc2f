// internal/game/session.go
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
	"github.com/JTR-Brands/fore-fairways-and-greens/engine/npc"
)

// ErrGameNotFound is returned for unknown game ids.
var ErrGameNotFound = errors.New("game not found")

// ErrGameHalted is returned once a session has been halted after an
// invariant failure. The game is frozen; its last good snapshot stays
// readable.
var ErrGameHalted = errors.New("game halted")

// Persister stores committed snapshots and event history. Calls happen
// outside the session lock and must tolerate being dropped on failure.
type Persister interface {
	SaveSnapshot(ctx context.Context, g *engine.Game) error
	AppendEvents(ctx context.Context, gameID uuid.UUID, turnNumber int, events []engine.Event) error
	LoadSnapshots(ctx context.Context) ([]*engine.Game, error)
}

// npcLoopLimit bounds actions taken by the NPC inside one commit. A full NPC
// turn is a handful of actions; hitting the limit means a policy bug.
const npcLoopLimit = 64

// Session owns one game. All engine access goes through its mutex; the NPC
// plays its turn synchronously inside the same critical section so observers
// never see a half-played NPC turn.
type Session struct {
	ID uuid.UUID

	mu     sync.Mutex
	game   *engine.Game
	halted bool

	policies map[uuid.UUID]*npc.Policy
	// npcTradeTurn is the turn number on which the NPC last proposed a
	// trade. One proposal per turn keeps reject loops impossible.
	npcTradeTurn int

	broadcast BroadcastFunc
	persister Persister
	log       *logrus.Entry
}

func newSession(g *engine.Game, broadcast BroadcastFunc, persister Persister, log *logrus.Logger) *Session {
	s := &Session{
		ID:        g.ID,
		game:      g,
		policies:  make(map[uuid.UUID]*npc.Policy),
		broadcast: broadcast,
		persister: persister,
		log:       log.WithField("game_id", g.ID),
	}
	for _, p := range g.Players {
		if p.NPC {
			s.policies[p.ID] = npc.New(p.Difficulty)
		}
	}
	return s
}

// State returns a deep snapshot of the game for clients.
func (s *Session) State() GameStateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildStateView(s.game)
}

// SubmitAction validates and applies one player action, then lets the NPC
// (if any) play until the turn comes back to a human or the game ends.
// Returns the post-commit snapshot.
func (s *Session) SubmitAction(playerID uuid.UUID, action engine.Action) (GameStateView, error) {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		return GameStateView{}, ErrGameHalted
	}

	if err := s.game.Apply(playerID, action); err != nil {
		return s.fail(err)
	}
	updates := []Update{buildUpdate(s.game, UpdateActionApplied, playerID, s.game.DrainEvents())}

	npcUpdates, err := s.runNPC()
	if err != nil {
		return s.fail(err)
	}
	updates = append(updates, npcUpdates...)

	view := buildStateView(s.game)
	snapshot := s.game.Clone()
	s.mu.Unlock()

	s.commit(snapshot, updates)
	return view, nil
}

// fail releases the lock after a rejected or fatal apply. Invariant failures
// freeze the session.
func (s *Session) fail(err error) (GameStateView, error) {
	var ie *engine.InvariantError
	if errors.As(err, &ie) {
		s.halted = true
		s.log.WithError(err).Error("game state invariant broken, halting session")
	}
	s.mu.Unlock()
	return GameStateView{}, err
}

// runNPC plays the NPC side until it is a human's move again. Must be called
// with the lock held.
func (s *Session) runNPC() ([]Update, error) {
	var updates []Update
	for i := 0; i < npcLoopLimit; i++ {
		npcID, pol := s.npcToAct()
		if pol == nil {
			return updates, nil
		}
		allowTrade := s.npcTradeTurn != s.game.TurnNumber
		action := pol.ChooseAction(s.game, npcID, allowTrade)
		if action == nil {
			return updates, nil
		}
		if _, ok := action.(engine.ProposeTrade); ok {
			s.npcTradeTurn = s.game.TurnNumber
		}
		if err := s.game.Apply(npcID, action); err != nil {
			// The policy only emits legal actions; anything else is fatal.
			s.log.WithError(err).WithField("action", action.Kind()).Error("npc action rejected")
			return updates, &engine.InvariantError{Detail: "npc chose an illegal action"}
		}
		updates = append(updates, buildUpdate(s.game, UpdateNPCActed, npcID, s.game.DrainEvents()))
	}
	return updates, &engine.InvariantError{Detail: "npc loop exceeded its action budget"}
}

// npcToAct returns the NPC that should move now: the current player when it
// is an NPC with no offer out to a human, or an NPC that must answer a
// pending trade. Nil when humans hold the floor.
func (s *Session) npcToAct() (uuid.UUID, *npc.Policy) {
	g := s.game
	if g.Status != engine.StatusInProgress {
		return uuid.Nil, nil
	}
	if t := g.PendingTrade; t != nil {
		if pol, ok := s.policies[t.To]; ok {
			return t.To, pol
		}
		// Offer awaiting a human answer pauses the NPC turn.
		return uuid.Nil, nil
	}
	if pol, ok := s.policies[g.CurrentPlayer]; ok {
		return g.CurrentPlayer, pol
	}
	return uuid.Nil, nil
}

// commit fans the committed mutation out to persistence and subscribers.
// Runs outside the lock; failures are logged and dropped, never surfaced to
// the acting player.
func (s *Session) commit(snapshot *engine.Game, updates []Update) {
	if s.broadcast != nil {
		for _, u := range updates {
			s.broadcast(u)
		}
	}
	if s.persister == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.persister.SaveSnapshot(ctx, snapshot); err != nil {
			s.log.WithError(err).Warn("snapshot persist failed")
		}
		for _, u := range updates {
			if len(u.Events) == 0 {
				continue
			}
			if err := s.persister.AppendEvents(ctx, snapshot.ID, u.TurnNumber, u.Events); err != nil {
				s.log.WithError(err).Warn("event persist failed")
			}
		}
	}()
}
