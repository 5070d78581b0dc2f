// internal/game/manager.go
package game

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/models"
)

// Manager is the registry of live game sessions. It is the only path through
// which games come into existence or are looked up.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	broadcast BroadcastFunc
	persister Persister
	log       *logrus.Logger
}

// NewManager builds a manager. broadcast and persister may be nil (tests,
// single-process setups).
func NewManager(log *logrus.Logger, broadcast BroadcastFunc, persister Persister) *Manager {
	if log == nil {
		log = logrus.New()
	}
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		broadcast: broadcast,
		persister: persister,
		log:       log,
	}
}

// Restore reloads persisted snapshots into live sessions. Finished and
// cancelled games are skipped.
func (m *Manager) Restore(ctx context.Context) error {
	if m.persister == nil {
		return nil
	}
	games, err := m.persister.LoadSnapshots(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	restored := 0
	for _, g := range games {
		if g.Status == engine.StatusCompleted || g.Status == engine.StatusCancelled {
			continue
		}
		m.sessions[g.ID] = newSession(g, m.broadcast, m.persister, m.log)
		restored++
	}
	m.log.WithField("count", restored).Info("restored game sessions")
	return nil
}

// CreateGame opens a new game with the creator seated, waiting for a second
// human.
func (m *Manager) CreateGame(creator models.User) GameStateView {
	g := engine.NewGame(uuid.New(), newSeed(), creator.ID, creator.DisplayName)
	s := m.register(g)
	m.log.WithFields(logrus.Fields{"game_id": g.ID, "creator": creator.ID}).Info("game created")
	return m.announce(s, UpdateGameCreated, creator.ID)
}

// CreateGameVsNPC opens a game against an NPC of the chosen difficulty. The
// game starts immediately with the human to move.
func (m *Manager) CreateGameVsNPC(creator models.User, difficulty engine.Difficulty) (GameStateView, error) {
	g := engine.NewGame(uuid.New(), newSeed(), creator.ID, creator.DisplayName)
	if _, err := g.AddNPC(difficulty); err != nil {
		return GameStateView{}, err
	}
	s := m.register(g)
	m.log.WithFields(logrus.Fields{"game_id": g.ID, "creator": creator.ID, "difficulty": difficulty}).Info("game vs npc created")
	return m.announce(s, UpdateGameStarted, creator.ID), nil
}

// JoinGame seats a second human in a waiting game and starts it.
func (m *Manager) JoinGame(gameID uuid.UUID, user models.User) (GameStateView, error) {
	s, err := m.session(gameID)
	if err != nil {
		return GameStateView{}, err
	}
	s.mu.Lock()
	if err := s.game.AddPlayer(user.ID, user.DisplayName); err != nil {
		s.mu.Unlock()
		return GameStateView{}, err
	}
	updates := []Update{buildUpdate(s.game, UpdateGameStarted, user.ID, s.game.DrainEvents())}
	view := buildStateView(s.game)
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.commit(snapshot, updates)
	m.log.WithFields(logrus.Fields{"game_id": gameID, "user": user.ID}).Info("player joined")
	return view, nil
}

// CancelGame abandons a waiting game. Only seated players may cancel.
func (m *Manager) CancelGame(gameID, playerID uuid.UUID) (GameStateView, error) {
	s, err := m.session(gameID)
	if err != nil {
		return GameStateView{}, err
	}
	s.mu.Lock()
	if s.game.PlayerByID(playerID) == nil {
		s.mu.Unlock()
		return GameStateView{}, &engine.RuleViolation{Code: engine.ReasonUnknownPlayer, Message: "player is not in this game"}
	}
	if err := s.game.Cancel(); err != nil {
		s.mu.Unlock()
		return GameStateView{}, err
	}
	updates := []Update{buildUpdate(s.game, UpdateGameCancelled, playerID, s.game.DrainEvents())}
	view := buildStateView(s.game)
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.commit(snapshot, updates)
	m.log.WithField("game_id", gameID).Info("game cancelled")
	return view, nil
}

// SubmitAction routes one action to its session.
func (m *Manager) SubmitAction(gameID, playerID uuid.UUID, action engine.Action) (GameStateView, error) {
	s, err := m.session(gameID)
	if err != nil {
		return GameStateView{}, err
	}
	return s.SubmitAction(playerID, action)
}

// GetState returns the current snapshot of a game.
func (m *Manager) GetState(gameID uuid.UUID) (GameStateView, error) {
	s, err := m.session(gameID)
	if err != nil {
		return GameStateView{}, err
	}
	return s.State(), nil
}

func (m *Manager) session(gameID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

func (m *Manager) register(g *engine.Game) *Session {
	s := newSession(g, m.broadcast, m.persister, m.log)
	m.mu.Lock()
	m.sessions[g.ID] = s
	m.mu.Unlock()
	return s
}

// announce commits the creation events of a fresh session.
func (m *Manager) announce(s *Session, typ UpdateType, triggeredBy uuid.UUID) GameStateView {
	s.mu.Lock()
	updates := []Update{buildUpdate(s.game, typ, triggeredBy, s.game.DrainEvents())}
	view := buildStateView(s.game)
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.commit(snapshot, updates)
	return view
}

// newSeed derives a dice seed from entropy plus time, so two games created
// in the same nanosecond still differ.
func newSeed() uint64 {
	var b [8]byte
	id := uuid.New()
	copy(b[:], id[:8])
	return binary.LittleEndian.Uint64(b[:]) ^ uint64(time.Now().UnixNano())
}
