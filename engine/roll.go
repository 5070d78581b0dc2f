package engine

import "fmt"

// applyRoll handles the ROLL_DICE action: sand trap escape attempts, doubles
// tracking, movement, and landing effects.
func (g *Game) applyRoll(p *Player) error {
	if err := g.requirePhase(PhaseRoll); err != nil {
		return err
	}
	return g.resolveRoll(p, g.rollDice())
}

// resolveRoll applies an already-determined roll to the current player.
func (g *Game) resolveRoll(p *Player, roll DiceRoll) error {
	g.LastRoll = &roll
	g.emit(EventDiceRolled, fmt.Sprintf("%s rolled %s", p.DisplayName, roll), map[string]any{
		"playerId": p.ID,
		"die1":     roll.Die1,
		"die2":     roll.Die2,
		"doubles":  roll.IsDoubles(),
	})

	if p.InSandTrap() {
		return g.resolveSandTrapRoll(p, roll)
	}

	if roll.IsDoubles() {
		p.ConsecutiveDoubles++
		if p.ConsecutiveDoubles >= DoublesForSandTrap {
			g.sendToSandTrap(p, "rolled three consecutive doubles")
			g.endTurn(p)
			return nil
		}
	} else {
		p.ConsecutiveDoubles = 0
	}

	g.movePlayer(p, roll.Total())
	if err := g.resolveLanding(p); err != nil {
		return err
	}
	if g.Status != StatusInProgress {
		return nil
	}
	// A bankrupt landing already closed the turn.
	if g.CurrentPlayer != p.ID {
		return nil
	}
	if p.InSandTrap() {
		// Landing in the trap ends movement; no re-roll even on doubles.
		g.Phase = PhaseAction
		return nil
	}
	if roll.IsDoubles() {
		// Doubles stay in ROLL for an immediate re-roll.
		return nil
	}
	g.Phase = PhaseAction
	return nil
}

// resolveSandTrapRoll handles a roll made while serving a sand trap sentence.
// Doubles escape immediately and the escape roll also moves the player; a
// failed attempt on the final sentence turn releases the player and the roll
// moves them out.
func (g *Game) resolveSandTrapRoll(p *Player, roll DiceRoll) error {
	if roll.IsDoubles() {
		p.SandTrapTurns = 0
		p.ConsecutiveDoubles = 0
		g.emit(EventSandTrapEscape, p.DisplayName+" rolled doubles and escaped the sand trap", map[string]any{
			"playerId": p.ID,
		})
		g.movePlayer(p, roll.Total())
		if err := g.resolveLanding(p); err != nil {
			return err
		}
		if g.Status != StatusInProgress || g.CurrentPlayer != p.ID {
			return nil
		}
		g.Phase = PhaseAction
		return nil
	}

	p.SandTrapTurns--
	if p.SandTrapTurns <= 0 {
		p.SandTrapTurns = 0
		g.emit(EventSandTrapServed, p.DisplayName+" served their time in the sand trap", map[string]any{
			"playerId": p.ID,
		})
		g.movePlayer(p, roll.Total())
		if err := g.resolveLanding(p); err != nil {
			return err
		}
		if g.Status != StatusInProgress || g.CurrentPlayer != p.ID {
			return nil
		}
	} else {
		g.emit(EventSandTrapServed, fmt.Sprintf("%s is stuck in the sand trap (%d turns left)", p.DisplayName, p.SandTrapTurns), map[string]any{
			"playerId":  p.ID,
			"turnsLeft": p.SandTrapTurns,
		})
	}
	g.Phase = PhaseAction
	return nil
}

// movePlayer advances the player clockwise, crediting the pass-start bonus
// for every wrap. Landing exactly on start counts as a pass.
func (g *Game) movePlayer(p *Player, steps int) {
	from := p.Position
	raw := p.Position + steps
	wraps := raw / TotalTiles
	p.Position = raw % TotalTiles
	if wraps > 0 {
		bonus := PassHQBonus * Money(wraps)
		p.CurrencyCents += bonus
		g.emit(EventPassedStart, fmt.Sprintf("%s passed %s and collected %s", p.DisplayName, TileAt(StartPosition).Name, bonus), map[string]any{
			"playerId": p.ID,
			"amount":   int64(bonus),
		})
	}
	g.emit(EventMoved, fmt.Sprintf("%s moved to %s", p.DisplayName, TileAt(p.Position).Name), map[string]any{
		"playerId": p.ID,
		"from":     from,
		"to":       p.Position,
	})
}

// sendToSandTrap teleports the player to the trap and starts the sentence.
// No movement bonus applies.
func (g *Game) sendToSandTrap(p *Player, why string) {
	p.Position = SandTrapPosition
	p.SandTrapTurns = MaxTurnsInSandTrap
	p.ConsecutiveDoubles = 0
	g.emit(EventSentToSandTrap, p.DisplayName+" was sent to the sand trap: "+why, map[string]any{
		"playerId": p.ID,
	})
}

// resolveLanding applies the effect of the tile the player now stands on.
func (g *Game) resolveLanding(p *Player) error {
	tile := TileAt(p.Position)
	switch tile.Type {
	case TileClubhouseHQ, TileProShop, TileMembersLounge:
		return nil
	case TileSandTrap:
		g.sendToSandTrap(p, "landed on "+tile.Name)
		return nil
	case TileWaterHazard:
		g.emit(EventPenaltyPaid, fmt.Sprintf("%s landed on %s and owes %s", p.DisplayName, tile.Name, WaterHazardPenalty), map[string]any{
			"playerId": p.ID,
			"amount":   int64(WaterHazardPenalty),
		})
		return g.payObligation(p, nil, WaterHazardPenalty)
	case TileProperty:
		st := &g.Props[p.Position]
		if !st.Owned() || st.OwnedBy(p.ID) || st.Mortgaged {
			return nil
		}
		owner := g.playerByID(st.Owner)
		rent := g.Rent(p.Position)
		g.emit(EventRentPaid, fmt.Sprintf("%s owes %s rent of %s for %s", p.DisplayName, owner.DisplayName, rent, tile.Name), map[string]any{
			"playerId": p.ID,
			"ownerId":  owner.ID,
			"position": p.Position,
			"amount":   int64(rent),
		})
		return g.payObligation(p, owner, rent)
	}
	return nil
}
