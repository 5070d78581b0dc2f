package engine

import (
	"strconv"

	"github.com/google/uuid"
)

// Apply validates and executes one player action. On success the game state
// advances and Version increments; on a *RuleViolation the state is exactly
// as before. Any other error is an invariant failure and the game must be
// halted by the caller.
func (g *Game) Apply(playerID uuid.UUID, action Action) error {
	if g.Status != StatusInProgress {
		return violationf(ReasonGameNotInProgress, "game status is %s", g.Status)
	}
	p := g.playerByID(playerID)
	if p == nil {
		return violationf(ReasonUnknownPlayer, "player %s is not in this game", playerID)
	}
	if g.CurrentPlayer != playerID {
		// Trade responses are the one out-of-turn action pair.
		switch action.(type) {
		case AcceptTrade, RejectTrade:
		default:
			return violationf(ReasonNotYourTurn, "it is not %s's turn", p.DisplayName)
		}
	}

	var err error
	switch a := action.(type) {
	case RollDice:
		err = g.applyRoll(p)
	case PurchaseProperty:
		err = g.applyPurchase(p, a.Position)
	case ImproveProperty:
		err = g.applyImprove(p, a.Position)
	case ProposeTrade:
		err = g.applyProposeTrade(p, a)
	case AcceptTrade:
		err = g.applyAcceptTrade(p)
	case RejectTrade:
		err = g.applyRejectTrade(p)
	case EndTurn:
		err = g.applyEndTurn(p)
	default:
		err = violationf(ReasonWrongPhase, "unknown action")
	}
	if err != nil {
		return err
	}
	if ierr := g.checkInvariants(); ierr != nil {
		return ierr
	}
	g.Version++
	return nil
}

func (g *Game) requirePhase(phase TurnPhase) error {
	if g.Phase != phase {
		return violationf(ReasonWrongPhase, "action requires phase %s, game is in %s", phase, g.Phase)
	}
	return nil
}

func (g *Game) applyEndTurn(p *Player) error {
	if err := g.requirePhase(PhaseAction); err != nil {
		return err
	}
	g.endTurn(p)
	return nil
}

// endTurn closes the current turn: an unanswered trade proposed by the
// departing player is cancelled, the turn passes to the next active player,
// and sand trap sentences tick down at the start of the new turn.
func (g *Game) endTurn(p *Player) {
	if g.PendingTrade != nil && g.PendingTrade.From == p.ID {
		g.cancelPendingTrade("turn ended with the offer unanswered")
	}
	p.ConsecutiveDoubles = 0
	g.LastRoll = nil
	g.emit(EventTurnEnded, p.DisplayName+" ended their turn", map[string]any{
		"playerId": p.ID,
	})

	next := g.nextActivePlayer(p.ID)
	if next == nil || next.ID == p.ID {
		// Opponent already bankrupt; the win was declared during liquidation.
		return
	}
	g.CurrentPlayer = next.ID
	g.Phase = PhaseRoll
	g.TurnNumber++
	g.emit(EventTurnStarted, "turn "+strconv.Itoa(g.TurnNumber)+": "+next.DisplayName, map[string]any{
		"playerId":   next.ID,
		"turnNumber": g.TurnNumber,
	})
}

func (g *Game) nextActivePlayer(after uuid.UUID) *Player {
	idx := -1
	for i, p := range g.Players {
		if p.ID == after {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for off := 1; off <= len(g.Players); off++ {
		p := g.Players[(idx+off)%len(g.Players)]
		if !p.Bankrupt {
			return p
		}
	}
	return nil
}
