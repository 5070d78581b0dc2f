package engine

import "testing"

func TestPurchaseProperty(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	toActionPhase(t, g)
	def, _ := PropertyAt(5)
	before := alice.CurrencyCents
	if err := g.Apply(alice.ID, PurchaseProperty{Position: 5}); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if !g.Props[5].OwnedBy(alice.ID) {
		t.Fatal("ownership not recorded")
	}
	if alice.CurrencyCents != before-def.PurchasePrice {
		t.Fatalf("expected debit of %s, balance moved by %s", def.PurchasePrice, before-alice.CurrencyCents)
	}
}

func TestPurchaseRequiresStandingOnTile(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 1
	toActionPhase(t, g)
	err := g.Apply(alice.ID, PurchaseProperty{Position: 5})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonNotOnTile {
		t.Fatalf("expected %s, got %v", ReasonNotOnTile, err)
	}
}

func TestPurchaseSpecialTileRejected(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 4
	toActionPhase(t, g)
	err := g.Apply(alice.ID, PurchaseProperty{Position: 4})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonNotAProperty {
		t.Fatalf("expected %s, got %v", ReasonNotAProperty, err)
	}
}

func TestPurchaseOwnedRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	alice.Position = 5
	g.Props[5] = PropertyState{Owner: bob.ID}
	toActionPhase(t, g)
	err := g.Apply(alice.ID, PurchaseProperty{Position: 5})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonAlreadyOwned {
		t.Fatalf("expected %s, got %v", ReasonAlreadyOwned, err)
	}
}

func TestPurchaseWithoutFundsRejected(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	alice.CurrencyCents = Dollars(10)
	toActionPhase(t, g)
	err := g.Apply(alice.ID, PurchaseProperty{Position: 5})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonInsufficientFunds {
		t.Fatalf("expected %s, got %v", ReasonInsufficientFunds, err)
	}
	if alice.CurrencyCents != Dollars(10) {
		t.Fatal("balance must be untouched on rejection")
	}
}

func TestPurchaseInRollPhaseRejected(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	alice.Position = 5
	err := g.Apply(alice.ID, PurchaseProperty{Position: 5})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonWrongPhase {
		t.Fatalf("expected %s, got %v", ReasonWrongPhase, err)
	}
}

func TestImproveProperty(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	giveGroup(t, g, alice, LinksNine)
	toActionPhase(t, g)
	def, _ := PropertyAt(1)
	before := alice.CurrencyCents
	if err := g.Apply(alice.ID, ImproveProperty{Position: 1}); err != nil {
		t.Fatalf("improve failed: %v", err)
	}
	if g.Props[1].Level != Level1 {
		t.Fatalf("expected LEVEL_1, got %s", g.Props[1].Level)
	}
	if alice.CurrencyCents != before-def.ImprovementCost {
		t.Fatalf("expected debit of %s", def.ImprovementCost)
	}
}

func TestImproveToResortThenStop(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	giveGroup(t, g, alice, LinksNine)
	alice.CurrencyCents = Dollars(10000)
	toActionPhase(t, g)
	for i := 0; i < 5; i++ {
		if err := g.Apply(alice.ID, ImproveProperty{Position: 1}); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	if g.Props[1].Level != LevelResort {
		t.Fatalf("expected RESORT, got %s", g.Props[1].Level)
	}
	err := g.Apply(alice.ID, ImproveProperty{Position: 1})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonMaxImprovement {
		t.Fatalf("expected %s, got %v", ReasonMaxImprovement, err)
	}
}

func TestImproveWithoutGroupRejected(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	g.Props[1] = PropertyState{Owner: alice.ID}
	toActionPhase(t, g)
	err := g.Apply(alice.ID, ImproveProperty{Position: 1})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonGroupIncomplete {
		t.Fatalf("expected %s, got %v", ReasonGroupIncomplete, err)
	}
}

func TestImproveWithMortgageInGroupRejected(t *testing.T) {
	g, alice, _ := newStartedGame(t)
	giveGroup(t, g, alice, LinksNine)
	g.Props[2].Mortgaged = true
	toActionPhase(t, g)
	err := g.Apply(alice.ID, ImproveProperty{Position: 1})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonGroupMortgaged {
		t.Fatalf("expected %s, got %v", ReasonGroupMortgaged, err)
	}
}

func TestImproveOpponentPropertyRejected(t *testing.T) {
	g, alice, bob := newStartedGame(t)
	giveGroup(t, g, bob, LinksNine)
	toActionPhase(t, g)
	err := g.Apply(alice.ID, ImproveProperty{Position: 1})
	var rv *RuleViolation
	if !asRuleViolation(err, &rv) || rv.Code != ReasonNotOwner {
		t.Fatalf("expected %s, got %v", ReasonNotOwner, err)
	}
}
