package engine

import "fmt"

// payObligation settles a debt the player must pay. creditor is nil when the
// debt goes to the bank. When liquid currency falls short, assets are
// liquidated automatically, cheapest step first, until the debt is covered
// or the player goes bankrupt.
func (g *Game) payObligation(p *Player, creditor *Player, amount Money) error {
	if !p.CanAfford(amount) {
		g.liquidate(p, amount)
	}
	if p.CanAfford(amount) {
		p.CurrencyCents -= amount
		if creditor != nil {
			creditor.CurrencyCents += amount
		}
		return nil
	}
	return g.declareBankruptcy(p, creditor)
}

// liquidate raises cash by the cheapest available step each round: selling
// one improvement level at half its build cost, or mortgaging an unimproved
// property at half its purchase price. Stops as soon as the target is met or
// no step remains.
func (g *Game) liquidate(p *Player, target Money) {
	for !p.CanAfford(target) {
		pos, sellImprovement, value := g.cheapestLiquidationStep(p)
		if pos < 0 {
			return
		}
		def, _ := PropertyAt(pos)
		st := &g.Props[pos]
		if sellImprovement {
			st.Level--
			p.CurrencyCents += value
			g.emit(EventImprovementSold, fmt.Sprintf("%s sold an improvement on %s for %s", p.DisplayName, def.Name, value), map[string]any{
				"playerId": p.ID,
				"position": pos,
				"level":    st.Level.String(),
				"amount":   int64(value),
			})
		} else {
			st.Mortgaged = true
			p.CurrencyCents += value
			g.emit(EventPropertyMortgaged, fmt.Sprintf("%s mortgaged %s for %s", p.DisplayName, def.Name, value), map[string]any{
				"playerId": p.ID,
				"position": pos,
				"amount":   int64(value),
			})
		}
	}
}

// cheapestLiquidationStep picks the lowest-yield step still available.
// Improvements must be gone before a property can be mortgaged. Returns
// pos -1 when nothing is left to liquidate.
func (g *Game) cheapestLiquidationStep(p *Player) (pos int, sellImprovement bool, value Money) {
	pos = -1
	for _, owned := range g.OwnedPositions(p.ID) {
		def, _ := PropertyAt(owned)
		st := &g.Props[owned]
		if st.Level > LevelNone {
			v := def.ImprovementSaleValue()
			if pos < 0 || v < value {
				pos, sellImprovement, value = owned, true, v
			}
		} else if !st.Mortgaged {
			v := def.MortgageValue()
			if pos < 0 || v < value {
				pos, sellImprovement, value = owned, false, v
			}
		}
	}
	return pos, sellImprovement, value
}

// declareBankruptcy eliminates the player. Debts to another player transfer
// every remaining asset (currency, properties with their mortgage flags and
// levels) to the creditor; debts to the bank return properties to the market
// fully reset. The surviving player wins.
func (g *Game) declareBankruptcy(p *Player, creditor *Player) error {
	if creditor != nil {
		creditor.CurrencyCents += p.CurrencyCents
	}
	p.CurrencyCents = 0
	for _, pos := range g.OwnedPositions(p.ID) {
		st := &g.Props[pos]
		if creditor != nil {
			st.Owner = creditor.ID
		} else {
			g.Props[pos] = PropertyState{}
		}
	}
	p.Bankrupt = true
	if g.PendingTrade != nil && (g.PendingTrade.From == p.ID || g.PendingTrade.To == p.ID) {
		g.cancelPendingTrade(p.DisplayName + " went bankrupt")
	}
	g.emit(EventPlayerBankrupt, p.DisplayName+" is bankrupt", map[string]any{
		"playerId": p.ID,
	})

	active := g.ActivePlayers()
	if len(active) == 1 {
		g.declareWinner(active[0])
	}
	return nil
}

func (g *Game) declareWinner(winner *Player) {
	g.Status = StatusCompleted
	g.WinnerID = winner.ID
	g.Phase = PhaseAction
	g.emit(EventGameEnded, winner.DisplayName+" wins the game", map[string]any{
		"winnerId": winner.ID,
	})
}
