// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/auth"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/game"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/models"
)

// Server wires the HTTP and websocket surface onto the game manager. All
// rules live below it; handlers only translate wire formats and errors.
type Server struct {
	manager *game.Manager
	hub     *Hub
	issuer  *auth.Issuer
	log     *logrus.Logger
}

// New builds the server.
func New(manager *game.Manager, hub *Hub, issuer *auth.Issuer, log *logrus.Logger) *Server {
	return &Server{manager: manager, hub: hub, issuer: issuer, log: log}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("POST /games/{id}/join", s.handleJoinGame)
	mux.HandleFunc("POST /games/{id}/cancel", s.handleCancelGame)
	mux.HandleFunc("POST /games/{id}/actions", s.handleSubmitAction)
	mux.HandleFunc("GET /games/{id}", s.handleGetState)
	mux.HandleFunc("GET /games/{id}/ws", s.handleWebsocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type createGameRequest struct {
	DisplayName string `json:"displayName"`
	VsNPC       bool   `json:"vsNpc"`
	Difficulty  string `json:"difficulty,omitempty"`
}

type joinGameRequest struct {
	DisplayName string `json:"displayName"`
}

type seatResponse struct {
	PlayerID uuid.UUID          `json:"playerId"`
	Token    string             `json:"token"`
	State    game.GameStateView `json:"state"`
}

type actionRequest struct {
	Type                string    `json:"type"`
	Position            int       `json:"position,omitempty"`
	ToPlayerID          uuid.UUID `json:"toPlayerId,omitempty"`
	OfferedProperties   []int     `json:"offeredProperties,omitempty"`
	OfferedCents        int64     `json:"offeredCents,omitempty"`
	RequestedProperties []int     `json:"requestedProperties,omitempty"`
	RequestedCents      int64     `json:"requestedCents,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// toAction translates the wire action into the engine sum type.
func (r *actionRequest) toAction() (engine.Action, error) {
	switch engine.ActionType(r.Type) {
	case engine.ActionRollDice:
		return engine.RollDice{}, nil
	case engine.ActionPurchaseProperty:
		return engine.PurchaseProperty{Position: r.Position}, nil
	case engine.ActionImproveProperty:
		return engine.ImproveProperty{Position: r.Position}, nil
	case engine.ActionProposeTrade:
		return engine.ProposeTrade{
			To:                  r.ToPlayerID,
			OfferedProperties:   r.OfferedProperties,
			OfferedCents:        engine.Money(r.OfferedCents),
			RequestedProperties: r.RequestedProperties,
			RequestedCents:      engine.Money(r.RequestedCents),
		}, nil
	case engine.ActionAcceptTrade:
		return engine.AcceptTrade{}, nil
	case engine.ActionRejectTrade:
		return engine.RejectTrade{}, nil
	case engine.ActionEndTurn:
		return engine.EndTurn{}, nil
	}
	return nil, errors.New("unknown action type " + r.Type)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err, "")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("displayName is required"), "")
		return
	}
	creator := models.User{ID: uuid.New(), DisplayName: name}

	var view game.GameStateView
	if req.VsNPC {
		var err error
		view, err = s.manager.CreateGameVsNPC(creator, engine.Difficulty(strings.ToUpper(req.Difficulty)))
		if err != nil {
			s.writeGameError(w, err)
			return
		}
	} else {
		view = s.manager.CreateGame(creator)
	}

	token, err := s.issuer.IssueToken(view.GameID, creator.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err, "")
		return
	}
	s.writeJSON(w, http.StatusCreated, seatResponse{PlayerID: creator.ID, Token: token, State: view})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := s.gameID(w, r)
	if !ok {
		return
	}
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err, "")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("displayName is required"), "")
		return
	}
	joiner := models.User{ID: uuid.New(), DisplayName: name}
	view, err := s.manager.JoinGame(gameID, joiner)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	token, err := s.issuer.IssueToken(gameID, joiner.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, seatResponse{PlayerID: joiner.ID, Token: token, State: view})
}

func (s *Server) handleCancelGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := s.gameID(w, r)
	if !ok {
		return
	}
	claims, ok := s.authorize(w, r, gameID)
	if !ok {
		return
	}
	view, err := s.manager.CancelGame(gameID, claims.PlayerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	gameID, ok := s.gameID(w, r)
	if !ok {
		return
	}
	claims, ok := s.authorize(w, r, gameID)
	if !ok {
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err, "")
		return
	}
	action, err := req.toAction()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err, "")
		return
	}
	view, err := s.manager.SubmitAction(gameID, claims.PlayerID, action)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	gameID, ok := s.gameID(w, r)
	if !ok {
		return
	}
	view, err := s.manager.GetState(gameID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// handleWebsocket streams the game's update records. The token may come from
// the Authorization header or, for browser clients, the token query param.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	gameID, ok := s.gameID(w, r)
	if !ok {
		return
	}
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	claims, err := s.issuer.VerifyToken(token)
	if err != nil || claims.GameID != gameID {
		s.writeError(w, http.StatusUnauthorized, errors.New("invalid seat token"), "")
		return
	}
	if _, err := s.manager.GetState(gameID); err != nil {
		s.writeGameError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}

	sub, cancel := s.hub.subscribe(gameID)
	defer cancel()
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// CloseRead keeps control frames serviced and cancels the context when
	// the client goes away, so an idle game does not strand this handler.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-sub.ch:
			writeCtx, cancelWrite := context.WithTimeout(ctx, 10*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, payload)
			cancelWrite()
			if err != nil {
				return
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Server) gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid game id"), "")
		return uuid.Nil, false
	}
	return id, true
}

// authorize checks the seat token against the target game.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) (*auth.Claims, bool) {
	claims, err := s.issuer.VerifyToken(bearerToken(r))
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, err, "")
		return nil, false
	}
	if claims.GameID != gameID {
		s.writeError(w, http.StatusForbidden, errors.New("token is for a different game"), "")
		return nil, false
	}
	return claims, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	return ""
}

// writeGameError maps coordinator errors onto HTTP statuses.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	var rv *engine.RuleViolation
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		s.writeError(w, http.StatusNotFound, err, "")
	case errors.Is(err, game.ErrGameHalted):
		s.writeError(w, http.StatusConflict, err, "")
	case errors.As(err, &rv):
		s.writeError(w, http.StatusUnprocessableEntity, rv, string(rv.Code))
	default:
		s.log.WithError(err).Error("unexpected game error")
		s.writeError(w, http.StatusInternalServerError, errors.New("internal error"), "")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error, code string) {
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("response encode failed")
	}
}
