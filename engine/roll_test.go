package engine

import "testing"

func TestMovementAndPhase(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 3}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != 5 {
		t.Fatalf("expected position 5, got %d", alice.Position)
	}
	if g.Phase != PhaseAction {
		t.Fatalf("expected ACTION phase after roll, got %s", g.Phase)
	}
}

func TestPassStartBonus(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 22
	before := alice.CurrencyCents
	if err := g.resolveRoll(alice, DiceRoll{Die1: 3, Die2: 4}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != 5 {
		t.Fatalf("expected wrap to 5, got %d", alice.Position)
	}
	if alice.CurrencyCents != before+PassHQBonus {
		t.Fatalf("expected bonus credit, got %s", alice.CurrencyCents-before)
	}
}

func TestLandingExactlyOnStartPaysBonus(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 20
	before := alice.CurrencyCents
	if err := g.resolveRoll(alice, DiceRoll{Die1: 1, Die2: 3}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != StartPosition {
		t.Fatalf("expected start position, got %d", alice.Position)
	}
	if alice.CurrencyCents != before+PassHQBonus {
		t.Fatalf("expected bonus on landing at start, got %s", alice.CurrencyCents-before)
	}
}

func TestWaterHazardPenalty(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 13
	before := alice.CurrencyCents
	if err := g.resolveRoll(alice, DiceRoll{Die1: 1, Die2: 2}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != 16 {
		t.Fatalf("expected water hazard at 16, got %d", alice.Position)
	}
	if alice.CurrencyCents != before-WaterHazardPenalty {
		t.Fatalf("expected penalty debit, balance moved by %s", alice.CurrencyCents-before)
	}
}

func TestRentPaidOnLanding(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	g.Props[5] = PropertyState{Owner: bob.ID}
	aliceBefore, bobBefore := alice.CurrencyCents, bob.CurrencyCents
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 3}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	rent := g.Rent(5)
	if alice.CurrencyCents != aliceBefore-rent {
		t.Fatalf("payer balance off by %s", alice.CurrencyCents-aliceBefore)
	}
	if bob.CurrencyCents != bobBefore+rent {
		t.Fatalf("owner balance off by %s", bob.CurrencyCents-bobBefore)
	}
}

func TestNoRentOnOwnOrMortgagedProperty(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	g.Props[5] = PropertyState{Owner: alice.ID}
	before := alice.CurrencyCents
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 3}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.CurrencyCents != before {
		t.Fatal("rent charged on own property")
	}

	g2, alice2, bob2 := newStartedGame(t)
	g2.Props[5] = PropertyState{Owner: bob2.ID, Mortgaged: true}
	before2 := alice2.CurrencyCents
	if err := g2.resolveRoll(alice2, DiceRoll{Die1: 2, Die2: 3}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice2.CurrencyCents != before2 {
		t.Fatal("rent charged on mortgaged property")
	}
}

func TestThirdConsecutiveDoublesSendsToSandTrap(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	alice.ConsecutiveDoubles = 2
	if err := g.resolveRoll(alice, DiceRoll{Die1: 4, Die2: 4}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != SandTrapPosition {
		t.Fatalf("expected sand trap position, got %d", alice.Position)
	}
	if alice.SandTrapTurns != MaxTurnsInSandTrap {
		t.Fatalf("expected %d sentence turns, got %d", MaxTurnsInSandTrap, alice.SandTrapTurns)
	}
	if g.CurrentPlayer != bob.ID {
		t.Fatal("turn should pass immediately after the trap send")
	}
	if g.Phase != PhaseRoll {
		t.Fatalf("expected ROLL for next player, got %s", g.Phase)
	}
}

func TestDoublesStayInRollForReRoll(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 2}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != 4 {
		t.Fatalf("doubles must still move, got %d", alice.Position)
	}
	if g.Phase != PhaseRoll {
		t.Fatalf("doubles should re-enter ROLL, got %s", g.Phase)
	}
	if alice.ConsecutiveDoubles != 1 {
		t.Fatalf("expected doubles count 1, got %d", alice.ConsecutiveDoubles)
	}
	// The re-roll continues the same turn.
	if err := g.resolveRoll(alice, DiceRoll{Die1: 1, Die2: 2}); err != nil {
		t.Fatalf("re-roll failed: %v", err)
	}
	if g.Phase != PhaseAction {
		t.Fatalf("non-doubles ends the roll chain, got %s", g.Phase)
	}
	if g.TurnNumber != 1 {
		t.Fatalf("re-roll must not advance the turn, got %d", g.TurnNumber)
	}
}

func TestDoublesCounterResetsOnNormalRoll(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.ConsecutiveDoubles = 2
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 5}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.ConsecutiveDoubles != 0 {
		t.Fatalf("expected counter reset, got %d", alice.ConsecutiveDoubles)
	}
}

func TestSandTrapEscapeByDoubles(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = SandTrapPosition
	alice.SandTrapTurns = 2
	if err := g.resolveRoll(alice, DiceRoll{Die1: 3, Die2: 3}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.InSandTrap() {
		t.Fatal("doubles should free the player")
	}
	if alice.Position != SandTrapPosition+6 {
		t.Fatalf("escape roll should also move, got position %d", alice.Position)
	}
	if g.Phase != PhaseAction {
		t.Fatalf("expected ACTION, got %s", g.Phase)
	}
}

func TestSandTrapSentenceTicksDown(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = SandTrapPosition
	alice.SandTrapTurns = MaxTurnsInSandTrap
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 5}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.SandTrapTurns != MaxTurnsInSandTrap-1 {
		t.Fatalf("expected sentence %d, got %d", MaxTurnsInSandTrap-1, alice.SandTrapTurns)
	}
	if alice.Position != SandTrapPosition {
		t.Fatal("failed escape must not move the player")
	}
	if g.Phase != PhaseAction {
		t.Fatalf("expected ACTION, got %s", g.Phase)
	}
}

func TestSandTrapExpiryRollMovesPlayer(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = SandTrapPosition
	alice.SandTrapTurns = 1
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 5}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.InSandTrap() {
		t.Fatal("sentence should be over")
	}
	if alice.Position != SandTrapPosition+7 {
		t.Fatalf("the expiring roll moves the player, got position %d", alice.Position)
	}
	if g.Phase != PhaseAction {
		t.Fatalf("expected ACTION, got %s", g.Phase)
	}
}

func TestSandTrapExpiryRollResolvesLanding(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	g.Props[11] = PropertyState{Owner: bob.ID}
	alice.Position = SandTrapPosition
	alice.SandTrapTurns = 1
	aliceBefore, bobBefore := alice.CurrencyCents, bob.CurrencyCents
	if err := g.resolveRoll(alice, DiceRoll{Die1: 1, Die2: 2}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != 11 {
		t.Fatalf("expected position 11, got %d", alice.Position)
	}
	rent := g.Rent(11)
	if alice.CurrencyCents != aliceBefore-rent || bob.CurrencyCents != bobBefore+rent {
		t.Fatal("rent must be charged on the tile the released player lands on")
	}
}

func TestLandingOnSandTrapStartsSentence(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	if err := g.resolveRoll(alice, DiceRoll{Die1: 1, Die2: 2}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if alice.Position != SandTrapPosition {
		t.Fatalf("expected position %d, got %d", SandTrapPosition, alice.Position)
	}
	if alice.SandTrapTurns != MaxTurnsInSandTrap {
		t.Fatalf("landing on the trap starts the full sentence, got %d turns", alice.SandTrapTurns)
	}
	if g.Phase != PhaseAction {
		t.Fatalf("expected ACTION, got %s", g.Phase)
	}
}

func TestLandingOnSandTrapByDoublesForfeitsReRoll(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 4
	if err := g.resolveRoll(alice, DiceRoll{Die1: 2, Die2: 2}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if !alice.InSandTrap() {
		t.Fatal("doubles landing on the trap still starts a sentence")
	}
	if g.Phase != PhaseAction {
		t.Fatalf("trapped player gets no re-roll, got %s", g.Phase)
	}
	if alice.ConsecutiveDoubles != 0 {
		t.Fatalf("trap send resets the doubles count, got %d", alice.ConsecutiveDoubles)
	}
}
