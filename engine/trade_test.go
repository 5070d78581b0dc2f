package engine

import "testing"

func TestTradeProposeAndAccept(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	g.Props[9] = PropertyState{Owner: bob.ID}

	offer := ProposeTrade{
		To:                  bob.ID,
		OfferedProperties:   []int{1},
		OfferedCents:        Dollars(100),
		RequestedProperties: []int{9},
	}
	if err := g.Apply(alice.ID, offer); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if g.PendingTrade == nil || g.PendingTrade.Status != TradePending {
		t.Fatal("pending trade not recorded")
	}

	aliceBefore, bobBefore := alice.CurrencyCents, bob.CurrencyCents
	if err := g.Apply(bob.ID, AcceptTrade{}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if g.PendingTrade != nil {
		t.Fatal("trade should be cleared after acceptance")
	}
	if !g.Props[1].OwnedBy(bob.ID) || !g.Props[9].OwnedBy(alice.ID) {
		t.Fatal("properties did not change hands")
	}
	if alice.CurrencyCents != aliceBefore-Dollars(100) || bob.CurrencyCents != bobBefore+Dollars(100) {
		t.Fatal("cash legs not settled")
	}
}

func TestTradeReject(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if err := g.Apply(bob.ID, RejectTrade{}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if g.PendingTrade != nil {
		t.Fatal("trade should be cleared after rejection")
	}
	if !g.Props[1].OwnedBy(alice.ID) {
		t.Fatal("rejected trade must not move property")
	}
}

func TestSecondProposalWhilePendingRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	g.Props[2] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{2}, RequestedCents: Dollars(10)})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonTradePending {
		t.Fatalf("expected %s, got %v", ReasonTradePending, err)
	}
}

func TestTradeOfImprovedPropertyRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	giveGroup(t, g, alice, LinksNine)
	g.Props[1].Level = Level1
	err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonInvalidTrade {
		t.Fatalf("expected %s, got %v", ReasonInvalidTrade, err)
	}
}

func TestTradeOfUnownedPropertyRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonInvalidTrade {
		t.Fatalf("expected %s, got %v", ReasonInvalidTrade, err)
	}
}

func TestEmptyTradeRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	err := g.Apply(alice.ID, ProposeTrade{To: bob.ID})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonInvalidTrade {
		t.Fatalf("expected %s, got %v", ReasonInvalidTrade, err)
	}
}

func TestAcceptByNonRecipientRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	err := g.Apply(alice.ID, AcceptTrade{})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonNotTradeRecipient {
		t.Fatalf("expected %s, got %v", ReasonNotTradeRecipient, err)
	}
}

func TestAcceptWithoutPendingRejected(t *testing.T) {
	g, _, bob := newStartedGame(t)
	err := g.Apply(bob.ID, AcceptTrade{})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonNoPendingTrade {
		t.Fatalf("expected %s, got %v", ReasonNoPendingTrade, err)
	}
}

func TestAcceptRevalidatesAgainstCurrentState(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(500)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	// Recipient loses the cash before answering.
	bob.CurrencyCents = Dollars(100)
	err := g.Apply(bob.ID, AcceptTrade{})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonInsufficientFunds {
		t.Fatalf("expected %s, got %v", ReasonInsufficientFunds, err)
	}
	if g.PendingTrade == nil {
		t.Fatal("offer stays pending; the recipient can still reject it")
	}
	if !g.Props[1].OwnedBy(alice.ID) {
		t.Fatal("failed acceptance must not move property")
	}
}

func TestEndTurnCancelsOwnPendingTrade(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	toActionPhase(t, g)
	g.Props[1] = PropertyState{Owner: alice.ID}
	if err := g.Apply(alice.ID, ProposeTrade{To: bob.ID, OfferedProperties: []int{1}, RequestedCents: Dollars(10)}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if err := g.Apply(alice.ID, EndTurn{}); err != nil {
		t.Fatalf("end turn failed: %v", err)
	}
	if g.PendingTrade != nil {
		t.Fatal("ending the turn must cancel the proposer's offer")
	}
	if g.CurrentPlayer != bob.ID {
		t.Fatal("turn did not pass")
	}
}
