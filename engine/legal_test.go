package engine

import "testing"

func hasKind(actions []Action, kind ActionType) bool {
	for _, a := range actions {
		if a.Kind() == kind {
			return true
		}
	}
	return false
}

func TestLegalActionsRollPhase(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	actions := g.LegalActions(alice.ID)
	if len(actions) != 1 || actions[0].Kind() != ActionRollDice {
		t.Fatalf("expected only ROLL_DICE, got %v", actions)
	}
	if got := g.LegalActions(bob.ID); len(got) != 0 {
		t.Fatalf("waiting player should have no actions, got %v", got)
	}
}

func TestLegalActionsActionPhase(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	toActionPhase(t, g)
	actions := g.LegalActions(alice.ID)
	if !hasKind(actions, ActionPurchaseProperty) {
		t.Fatal("purchase should be legal on an unowned property tile")
	}
	if !hasKind(actions, ActionProposeTrade) {
		t.Fatal("trade proposal should be legal")
	}
	if !hasKind(actions, ActionEndTurn) {
		t.Fatal("end turn should always be legal in ACTION")
	}
	if hasKind(actions, ActionRollDice) {
		t.Fatal("roll must not be legal in ACTION")
	}
}

func TestLegalActionsNoPurchaseWithoutFunds(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	alice.CurrencyCents = Dollars(10)
	toActionPhase(t, g)
	if hasKind(g.LegalActions(alice.ID), ActionPurchaseProperty) {
		t.Fatal("purchase listed despite missing funds")
	}
}

func TestLegalActionsImprovement(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	giveGroup(t, g, alice, LinksNine)
	toActionPhase(t, g)
	actions := g.LegalActions(alice.ID)
	improves := 0
	for _, a := range actions {
		if a.Kind() == ActionImproveProperty {
			improves++
		}
	}
	if improves != 3 {
		t.Fatalf("expected 3 improvable properties, got %d", improves)
	}

	g.Props[2].Mortgaged = true
	if hasKind(g.LegalActions(alice.ID), ActionImproveProperty) {
		t.Fatal("improvement listed despite a mortgage in the group")
	}
}

func TestLegalActionsTradeResponseOutOfTurn(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	actions := g.LegalActions(bob.ID)
	if !hasKind(actions, ActionAcceptTrade) || !hasKind(actions, ActionRejectTrade) {
		t.Fatalf("recipient should see both trade responses, got %v", actions)
	}
	if hasKind(actions, ActionEndTurn) {
		t.Fatal("recipient must not see turn actions out of turn")
	}
}

func TestLegalActionsInvalidOfferOnlyRejectable(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(500)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	bob.CurrencyCents = Dollars(100)
	actions := g.LegalActions(bob.ID)
	if hasKind(actions, ActionAcceptTrade) {
		t.Fatal("unaffordable offer must not be acceptable")
	}
	if !hasKind(actions, ActionRejectTrade) {
		t.Fatal("reject must remain available")
	}
}

func TestLegalActionsNoSecondProposalWhilePending(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if hasKind(g.LegalActions(alice.ID), ActionProposeTrade) {
		t.Fatal("second proposal listed while one is pending")
	}
}

func TestLegalActionsEveryEntryApplies(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	giveGroup(t, g, alice, LinksNine)
	toActionPhase(t, g)
	for _, a := range g.LegalActions(alice.ID) {
		probe := g.Clone()
		action := a
		if pt, ok := action.(ProposeTrade); ok {
			// Flesh out the template offer before applying.
			pt.RequestedCents = Dollars(10)
			action = pt
		}
		if err := probe.Apply(alice.ID, action); err != nil {
			t.Fatalf("legal action %T rejected: %v", a, err)
		}
	}
}

func TestLegalActionsEmptyWhenFinished(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	alice.CurrencyCents = 0
	if err := g.payObligation(alice, bob, Dollars(100)); err != nil {
		t.Fatalf("payObligation failed: %v", err)
	}
	if got := g.LegalActions(alice.ID); len(got) != 0 {
		t.Fatalf("finished game should offer no actions, got %v", got)
	}
	if got := g.LegalActions(bob.ID); len(got) != 0 {
		t.Fatalf("finished game should offer no actions, got %v", got)
	}
}
