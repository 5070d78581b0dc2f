package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// applyProposeTrade handles PROPOSE_TRADE. Only the current player may
// propose, only one offer may be pending, and the offer is validated in full
// at proposal time.
func (g *Game) applyProposeTrade(p *Player, a ProposeTrade) error {
	if err := g.requirePhase(PhaseAction); err != nil {
		return err
	}
	if g.PendingTrade != nil {
		return violationf(ReasonTradePending, "a trade offer is already pending")
	}
	to := g.playerByID(a.To)
	if to == nil || to.ID == p.ID || to.Bankrupt {
		return violationf(ReasonInvalidTrade, "no eligible trade partner")
	}
	offer := &TradeOffer{
		ID:                  uuid.New(),
		From:                p.ID,
		To:                  to.ID,
		OfferedProperties:   append([]int(nil), a.OfferedProperties...),
		OfferedCents:        a.OfferedCents,
		RequestedProperties: append([]int(nil), a.RequestedProperties...),
		RequestedCents:      a.RequestedCents,
		Status:              TradePending,
	}
	if err := g.validateTrade(offer); err != nil {
		return err
	}
	g.PendingTrade = offer
	g.emit(EventTradeProposed, fmt.Sprintf("%s proposed a trade to %s", p.DisplayName, to.DisplayName), map[string]any{
		"tradeId":  offer.ID,
		"from":     offer.From,
		"to":       offer.To,
		"offered":  offer.OfferedProperties,
		"wanted":   offer.RequestedProperties,
		"give":     int64(offer.OfferedCents),
		"receive":  int64(offer.RequestedCents),
	})
	return nil
}

// validateTrade checks an offer against current state. Properties carrying
// improvements cannot change hands; mortgaged ones can, flag intact. Both
// sides must be able to cover their cash legs.
func (g *Game) validateTrade(t *TradeOffer) error {
	if len(t.OfferedProperties) == 0 && len(t.RequestedProperties) == 0 && t.OfferedCents == 0 && t.RequestedCents == 0 {
		return violationf(ReasonInvalidTrade, "trade offer is empty")
	}
	if t.OfferedCents < 0 || t.RequestedCents < 0 {
		return violationf(ReasonInvalidTrade, "trade currency cannot be negative")
	}
	from := g.playerByID(t.From)
	to := g.playerByID(t.To)
	if from == nil || to == nil {
		return violationf(ReasonInvalidTrade, "trade party left the game")
	}
	check := func(owner *Player, positions []int) error {
		seen := map[int]bool{}
		for _, pos := range positions {
			if pos < 0 || pos >= TotalTiles {
				return violationf(ReasonInvalidTrade, "position %d is off the board", pos)
			}
			if seen[pos] {
				return violationf(ReasonInvalidTrade, "position %d listed twice", pos)
			}
			seen[pos] = true
			def, ok := PropertyAt(pos)
			if !ok {
				return violationf(ReasonInvalidTrade, "%s is not tradable", TileAt(pos).Name)
			}
			st := &g.Props[pos]
			if !st.OwnedBy(owner.ID) {
				return violationf(ReasonInvalidTrade, "%s does not own %s", owner.DisplayName, def.Name)
			}
			if st.Level > LevelNone {
				return violationf(ReasonInvalidTrade, "%s carries improvements and cannot be traded", def.Name)
			}
		}
		return nil
	}
	if err := check(from, t.OfferedProperties); err != nil {
		return err
	}
	if err := check(to, t.RequestedProperties); err != nil {
		return err
	}
	if !from.CanAfford(t.OfferedCents) {
		return violationf(ReasonInsufficientFunds, "%s cannot cover the offered %s", from.DisplayName, t.OfferedCents)
	}
	if !to.CanAfford(t.RequestedCents) {
		return violationf(ReasonInsufficientFunds, "%s cannot cover the requested %s", to.DisplayName, t.RequestedCents)
	}
	return nil
}

// applyAcceptTrade handles ACCEPT_TRADE from the offer's recipient. The offer
// is revalidated against current state before executing.
func (g *Game) applyAcceptTrade(p *Player) error {
	t := g.PendingTrade
	if t == nil {
		return violationf(ReasonNoPendingTrade, "no trade offer is pending")
	}
	if t.To != p.ID {
		return violationf(ReasonNotTradeRecipient, "%s is not the offer's recipient", p.DisplayName)
	}
	if err := g.validateTrade(t); err != nil {
		return err
	}
	from := g.playerByID(t.From)
	to := g.playerByID(t.To)
	from.CurrencyCents -= t.OfferedCents
	to.CurrencyCents += t.OfferedCents
	to.CurrencyCents -= t.RequestedCents
	from.CurrencyCents += t.RequestedCents
	for _, pos := range t.OfferedProperties {
		g.Props[pos].Owner = to.ID
	}
	for _, pos := range t.RequestedProperties {
		g.Props[pos].Owner = from.ID
	}
	t.Status = TradeAccepted
	g.PendingTrade = nil
	g.emit(EventTradeAccepted, fmt.Sprintf("%s accepted the trade from %s", to.DisplayName, from.DisplayName), map[string]any{
		"tradeId": t.ID,
	})
	return nil
}

// applyRejectTrade handles REJECT_TRADE from the offer's recipient.
func (g *Game) applyRejectTrade(p *Player) error {
	t := g.PendingTrade
	if t == nil {
		return violationf(ReasonNoPendingTrade, "no trade offer is pending")
	}
	if t.To != p.ID {
		return violationf(ReasonNotTradeRecipient, "%s is not the offer's recipient", p.DisplayName)
	}
	t.Status = TradeRejected
	g.PendingTrade = nil
	g.emit(EventTradeRejected, p.DisplayName+" rejected the trade", map[string]any{
		"tradeId": t.ID,
	})
	return nil
}

func (g *Game) cancelPendingTrade(why string) {
	t := g.PendingTrade
	if t == nil {
		return
	}
	t.Status = TradeCancelled
	g.PendingTrade = nil
	g.emit(EventTradeCancelled, "trade offer cancelled: "+why, map[string]any{
		"tradeId": t.ID,
	})
}
