package engine

import "github.com/google/uuid"

// LegalActions enumerates every action the player could submit right now
// without a rule violation. NPC policies pick from this list; clients use it
// to light up controls.
func (g *Game) LegalActions(playerID uuid.UUID) []Action {
	if g.Status != StatusInProgress {
		return nil
	}
	p := g.playerByID(playerID)
	if p == nil || p.Bankrupt {
		return nil
	}

	var out []Action

	// Trade responses are legal out of turn for the recipient.
	if g.PendingTrade != nil && g.PendingTrade.To == playerID {
		if g.validateTrade(g.PendingTrade) == nil {
			out = append(out, AcceptTrade{})
		}
		out = append(out, RejectTrade{})
	}

	if g.CurrentPlayer != playerID {
		return out
	}

	switch g.Phase {
	case PhaseRoll:
		out = append(out, RollDice{})
	case PhaseAction:
		if def, ok := PropertyAt(p.Position); ok {
			st := &g.Props[p.Position]
			if !st.Owned() && p.CanAfford(def.PurchasePrice) {
				out = append(out, PurchaseProperty{Position: p.Position})
			}
		}
		for _, pos := range g.OwnedPositions(playerID) {
			def, _ := PropertyAt(pos)
			st := &g.Props[pos]
			if st.Level.CanUpgrade() &&
				g.OwnsCompleteGroup(playerID, def.Group) &&
				!g.groupHasMortgage(def.Group) &&
				p.CanAfford(def.ImprovementCost) {
				out = append(out, ImproveProperty{Position: pos})
			}
		}
		if g.PendingTrade == nil {
			if opp := g.Opponent(playerID); opp != nil && !opp.Bankrupt {
				out = append(out, ProposeTrade{To: opp.ID})
			}
		}
		out = append(out, EndTurn{})
	}
	return out
}
