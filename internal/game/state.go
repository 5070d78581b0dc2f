// internal/game/state.go
package game

import (
	"github.com/google/uuid"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
)

// PlayerView is one player's state as sent to clients. The board game has no
// hidden information, so every observer sees the same view.
type PlayerView struct {
	PlayerID           uuid.UUID `json:"playerId"`
	DisplayName        string    `json:"displayName"`
	CurrencyCents      int64     `json:"currencyCents"`
	Position           int       `json:"position"`
	NPC                bool      `json:"npc"`
	Difficulty         string    `json:"difficulty,omitempty"`
	Bankrupt           bool      `json:"bankrupt"`
	SandTrapTurns      int       `json:"sandTrapTurns"`
	ConsecutiveDoubles int       `json:"consecutiveDoubles"`
	NetWorthCents      int64     `json:"netWorthCents"`
	IsCurrentTurn      bool      `json:"isCurrentTurn"`
}

// TileView is one board position with its per-game state and the derived
// affordances for the current player.
type TileView struct {
	Position int    `json:"position"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Group    string `json:"group,omitempty"`

	PurchasePriceCents   int64 `json:"purchasePriceCents,omitempty"`
	BaseRentCents        int64 `json:"baseRentCents,omitempty"`
	ImprovementCostCents int64 `json:"improvementCostCents,omitempty"`

	OwnerID          uuid.UUID `json:"ownerId,omitempty"`
	ImprovementLevel string    `json:"improvementLevel,omitempty"`
	Mortgaged        bool      `json:"mortgaged,omitempty"`

	CurrentRentCents int64 `json:"currentRentCents,omitempty"`
	CanBePurchased   bool  `json:"canBePurchased,omitempty"`
	CanBeImproved    bool  `json:"canBeImproved,omitempty"`
}

// TradeView is the pending trade offer, if any.
type TradeView struct {
	TradeID             uuid.UUID `json:"tradeId"`
	FromPlayerID        uuid.UUID `json:"fromPlayerId"`
	ToPlayerID          uuid.UUID `json:"toPlayerId"`
	OfferedProperties   []int     `json:"offeredProperties"`
	OfferedCents        int64     `json:"offeredCents"`
	RequestedProperties []int     `json:"requestedProperties"`
	RequestedCents      int64     `json:"requestedCents"`
}

// GameStateView is the full client-facing snapshot of one game.
type GameStateView struct {
	GameID          uuid.UUID        `json:"gameId"`
	Status          string           `json:"status"`
	TurnNumber      int              `json:"turnNumber"`
	TurnPhase       string           `json:"turnPhase"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	WinnerID        uuid.UUID        `json:"winnerId,omitempty"`
	Version         uint64           `json:"version"`
	LastRoll        *engine.DiceRoll `json:"lastRoll,omitempty"`
	Players         []PlayerView     `json:"players"`
	Tiles           []TileView       `json:"tiles"`
	PendingTrade    *TradeView       `json:"pendingTrade,omitempty"`
}

// buildStateView renders the engine state into the client snapshot. The
// session lock must be held by the caller.
func buildStateView(g *engine.Game) GameStateView {
	view := GameStateView{
		GameID:          g.ID,
		Status:          string(g.Status),
		TurnNumber:      g.TurnNumber,
		TurnPhase:       string(g.Phase),
		CurrentPlayerID: g.CurrentPlayer,
		WinnerID:        g.WinnerID,
		Version:         g.Version,
		LastRoll:        g.LastRoll,
	}
	for _, p := range g.Players {
		view.Players = append(view.Players, PlayerView{
			PlayerID:           p.ID,
			DisplayName:        p.DisplayName,
			CurrencyCents:      int64(p.CurrencyCents),
			Position:           p.Position,
			NPC:                p.NPC,
			Difficulty:         string(p.Difficulty),
			Bankrupt:           p.Bankrupt,
			SandTrapTurns:      p.SandTrapTurns,
			ConsecutiveDoubles: p.ConsecutiveDoubles,
			NetWorthCents:      int64(g.NetWorth(p.ID)),
			IsCurrentTurn:      g.Status == engine.StatusInProgress && g.CurrentPlayer == p.ID,
		})
	}

	// Affordances come straight from the legal-action set so the view can
	// never disagree with the engine.
	canBuy := map[int]bool{}
	canImprove := map[int]bool{}
	if current := g.Current(); current != nil {
		for _, a := range g.LegalActions(current.ID) {
			switch act := a.(type) {
			case engine.PurchaseProperty:
				canBuy[act.Position] = true
			case engine.ImproveProperty:
				canImprove[act.Position] = true
			}
		}
	}
	for pos := 0; pos < engine.TotalTiles; pos++ {
		tile := engine.TileAt(pos)
		tv := TileView{
			Position: pos,
			Type:     string(tile.Type),
			Name:     tile.Name,
		}
		if def, ok := engine.PropertyAt(pos); ok {
			st := g.Props[pos]
			tv.Group = string(def.Group)
			tv.PurchasePriceCents = int64(def.PurchasePrice)
			tv.BaseRentCents = int64(def.BaseRent)
			tv.ImprovementCostCents = int64(def.ImprovementCost)
			tv.OwnerID = st.Owner
			tv.ImprovementLevel = st.Level.String()
			tv.Mortgaged = st.Mortgaged
			tv.CurrentRentCents = int64(g.Rent(pos))
			tv.CanBePurchased = canBuy[pos]
			tv.CanBeImproved = canImprove[pos]
		}
		view.Tiles = append(view.Tiles, tv)
	}

	if t := g.PendingTrade; t != nil {
		view.PendingTrade = &TradeView{
			TradeID:             t.ID,
			FromPlayerID:        t.From,
			ToPlayerID:          t.To,
			OfferedProperties:   append([]int(nil), t.OfferedProperties...),
			OfferedCents:        int64(t.OfferedCents),
			RequestedProperties: append([]int(nil), t.RequestedProperties...),
			RequestedCents:      int64(t.RequestedCents),
		}
	}
	return view
}
