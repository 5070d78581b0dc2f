package engine

import "fmt"

// applyPurchase handles PURCHASE_PROPERTY: the player buys the unowned
// property they currently occupy at list price.
func (g *Game) applyPurchase(p *Player, pos int) error {
	if err := g.requirePhase(PhaseAction); err != nil {
		return err
	}
	if pos < 0 || pos >= TotalTiles {
		return violationf(ReasonNotAProperty, "position %d is off the board", pos)
	}
	def, ok := PropertyAt(pos)
	if !ok {
		return violationf(ReasonNotAProperty, "%s cannot be purchased", TileAt(pos).Name)
	}
	if p.Position != pos {
		return violationf(ReasonNotOnTile, "%s is not standing on %s", p.DisplayName, def.Name)
	}
	st := &g.Props[pos]
	if st.Owned() {
		return violationf(ReasonAlreadyOwned, "%s is already owned", def.Name)
	}
	if !p.CanAfford(def.PurchasePrice) {
		return violationf(ReasonInsufficientFunds, "%s costs %s, %s has %s", def.Name, def.PurchasePrice, p.DisplayName, p.CurrencyCents)
	}
	p.CurrencyCents -= def.PurchasePrice
	st.Owner = p.ID
	g.emit(EventPropertyPurchased, fmt.Sprintf("%s purchased %s for %s", p.DisplayName, def.Name, def.PurchasePrice), map[string]any{
		"playerId": p.ID,
		"position": pos,
		"price":    int64(def.PurchasePrice),
	})
	return nil
}

// applyImprove handles IMPROVE_PROPERTY: raise an owned property one level.
// Requires the complete group, no mortgage anywhere in the group, and room
// on the ladder.
func (g *Game) applyImprove(p *Player, pos int) error {
	if err := g.requirePhase(PhaseAction); err != nil {
		return err
	}
	if pos < 0 || pos >= TotalTiles {
		return violationf(ReasonNotAProperty, "position %d is off the board", pos)
	}
	def, ok := PropertyAt(pos)
	if !ok {
		return violationf(ReasonNotAProperty, "%s cannot be improved", TileAt(pos).Name)
	}
	st := &g.Props[pos]
	if !st.OwnedBy(p.ID) {
		return violationf(ReasonNotOwner, "%s does not own %s", p.DisplayName, def.Name)
	}
	if !g.OwnsCompleteGroup(p.ID, def.Group) {
		return violationf(ReasonGroupIncomplete, "%s does not hold all of %s", p.DisplayName, def.Group.DisplayName())
	}
	if g.groupHasMortgage(def.Group) {
		return violationf(ReasonGroupMortgaged, "%s has a mortgaged property", def.Group.DisplayName())
	}
	if !st.Level.CanUpgrade() {
		return violationf(ReasonMaxImprovement, "%s is already a resort", def.Name)
	}
	if !p.CanAfford(def.ImprovementCost) {
		return violationf(ReasonInsufficientFunds, "improving %s costs %s, %s has %s", def.Name, def.ImprovementCost, p.DisplayName, p.CurrencyCents)
	}
	p.CurrencyCents -= def.ImprovementCost
	st.Level = st.Level.Next()
	g.emit(EventPropertyImproved, fmt.Sprintf("%s improved %s to %s", p.DisplayName, def.Name, st.Level), map[string]any{
		"playerId": p.ID,
		"position": pos,
		"level":    st.Level.String(),
		"cost":     int64(def.ImprovementCost),
	})
	return nil
}
