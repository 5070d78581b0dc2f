// Package npc chooses actions for computer opponents. A Policy is a pure
// decision function over the game state: same state, same difficulty, same
// decision. All randomness derives from the game's state hash, so replays
// and tests are deterministic.
package npc

import (
	"github.com/google/uuid"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
)

// params holds the per-tier decision knobs.
type params struct {
	// buyProb is the chance of buying a property that does not complete a
	// group. Group-completing purchases always happen when affordable.
	buyProb float64
	// reserveFactor scales the largest rent an opponent could charge into
	// the cash floor the policy keeps after spending.
	reserveFactor float64
	// improveProb is the per-decision chance of building when legal.
	improveProb float64
	// tradeThreshold is the minimum received/given value ratio to accept an
	// incoming trade.
	tradeThreshold float64
	// proposesTrades enables offering trades for group-completing targets.
	proposesTrades bool
}

var tierParams = map[engine.Difficulty]params{
	engine.DifficultyEasy:     {buyProb: 0.5, reserveFactor: 3.0, improveProb: 0.2, tradeThreshold: 0.8},
	engine.DifficultyMedium:   {buyProb: 0.7, reserveFactor: 2.0, improveProb: 0.4, tradeThreshold: 1.0},
	engine.DifficultyHard:     {buyProb: 0.85, reserveFactor: 1.5, improveProb: 0.6, tradeThreshold: 1.2},
	engine.DifficultyRuthless: {buyProb: 0.95, reserveFactor: 1.0, improveProb: 0.8, tradeThreshold: 1.5, proposesTrades: true},
}

// Policy decides actions for one NPC tier.
type Policy struct {
	difficulty engine.Difficulty
	p          params
}

// New returns the policy for the given tier. Unknown tiers get MEDIUM.
func New(difficulty engine.Difficulty) *Policy {
	p, ok := tierParams[difficulty]
	if !ok {
		difficulty = engine.DifficultyMedium
		p = tierParams[difficulty]
	}
	return &Policy{difficulty: difficulty, p: p}
}

// Difficulty returns the tier the policy plays at.
func (pl *Policy) Difficulty() engine.Difficulty { return pl.difficulty }

// ChooseAction picks the NPC's next action, always one the engine will
// accept. allowTrade gates trade proposals so the caller can cap them at one
// per turn. Returns nil when the NPC has nothing to do.
func (pl *Policy) ChooseAction(g *engine.Game, npcID uuid.UUID, allowTrade bool) engine.Action {
	legal := g.LegalActions(npcID)
	if len(legal) == 0 {
		return nil
	}
	rng := newRand(g.StateHash(), npcID)

	// An incoming offer is answered before anything else.
	if g.PendingTrade != nil && g.PendingTrade.To == npcID {
		return pl.answerTrade(g, legal)
	}

	if hasKind(legal, engine.ActionRollDice) {
		return engine.RollDice{}
	}

	if buy, ok := pickPurchase(legal); ok {
		if pl.shouldBuy(g, npcID, buy.Position, rng) {
			return buy
		}
	}

	if improve, ok := pl.pickImprovement(g, npcID, legal, rng); ok {
		return improve
	}

	if allowTrade && pl.p.proposesTrades {
		if offer, ok := pl.buildTradeOffer(g, npcID); ok {
			return offer
		}
	}

	if hasKind(legal, engine.ActionEndTurn) {
		return engine.EndTurn{}
	}
	return legal[0]
}

// shouldBuy applies the buy probability and the cash reserve rule.
// Completing a group overrides both.
func (pl *Policy) shouldBuy(g *engine.Game, npcID uuid.UUID, pos int, rng *rand64) bool {
	def, ok := engine.PropertyAt(pos)
	if !ok {
		return false
	}
	if pl.completesGroup(g, npcID, pos) {
		return true
	}
	npc := g.PlayerByID(npcID)
	remaining := npc.CurrencyCents - def.PurchasePrice
	if remaining < pl.reserve(g, npcID) {
		return false
	}
	return rng.float64() < pl.p.buyProb
}

// pickImprovement chooses the cheapest legal improvement, subject to the
// improve probability and the reserve.
func (pl *Policy) pickImprovement(g *engine.Game, npcID uuid.UUID, legal []engine.Action, rng *rand64) (engine.Action, bool) {
	best := -1
	var bestCost engine.Money
	for _, a := range legal {
		imp, ok := a.(engine.ImproveProperty)
		if !ok {
			continue
		}
		def, _ := engine.PropertyAt(imp.Position)
		if best < 0 || def.ImprovementCost < bestCost {
			best, bestCost = imp.Position, def.ImprovementCost
		}
	}
	if best < 0 {
		return nil, false
	}
	npc := g.PlayerByID(npcID)
	if npc.CurrencyCents-bestCost < pl.reserve(g, npcID) {
		return nil, false
	}
	if rng.float64() >= pl.p.improveProb {
		return nil, false
	}
	return engine.ImproveProperty{Position: best}, true
}

// answerTrade accepts when the received value clears the tier's threshold
// over the given value, and acceptance is still valid. Otherwise rejects.
func (pl *Policy) answerTrade(g *engine.Game, legal []engine.Action) engine.Action {
	t := g.PendingTrade
	received := tradeValue(t.OfferedProperties, t.OfferedCents)
	given := tradeValue(t.RequestedProperties, t.RequestedCents)
	if hasKind(legal, engine.ActionAcceptTrade) && float64(received) >= pl.p.tradeThreshold*float64(given) {
		return engine.AcceptTrade{}
	}
	return engine.RejectTrade{}
}

// buildTradeOffer looks for an opponent property that would complete one of
// the NPC's groups and offers cash at value parity for it.
func (pl *Policy) buildTradeOffer(g *engine.Game, npcID uuid.UUID) (engine.Action, bool) {
	if g.PendingTrade != nil {
		return nil, false
	}
	opp := g.Opponent(npcID)
	if opp == nil || opp.Bankrupt {
		return nil, false
	}
	npc := g.PlayerByID(npcID)
	for _, group := range engine.CourseGroups {
		target := -1
		owned := 0
		for _, pos := range engine.GroupPositions(group) {
			st := g.Props[pos]
			switch {
			case st.OwnedBy(npcID):
				owned++
			case st.OwnedBy(opp.ID) && st.Level == engine.LevelNone && !st.Mortgaged:
				target = pos
			}
		}
		if owned != 2 || target < 0 {
			continue
		}
		def, _ := engine.PropertyAt(target)
		price := engine.Money(int64(float64(def.PurchasePrice) * pl.p.tradeThreshold))
		if npc.CurrencyCents-price < pl.reserve(g, npcID) {
			continue
		}
		return engine.ProposeTrade{
			To:                  opp.ID,
			OfferedCents:        price,
			RequestedProperties: []int{target},
		}, true
	}
	return nil, false
}

// reserve is the cash floor: the largest rent any opponent property could
// charge, scaled by the tier's safety factor.
func (pl *Policy) reserve(g *engine.Game, npcID uuid.UUID) engine.Money {
	var worst engine.Money
	for _, pos := range engine.PropertyPositions() {
		st := g.Props[pos]
		if !st.Owned() || st.OwnedBy(npcID) {
			continue
		}
		if r := g.Rent(pos); r > worst {
			worst = r
		}
	}
	return engine.Money(int64(float64(worst) * pl.p.reserveFactor))
}

func tradeValue(positions []int, cents engine.Money) engine.Money {
	total := cents
	for _, pos := range positions {
		if def, ok := engine.PropertyAt(pos); ok {
			total += def.PurchasePrice
		}
	}
	return total
}

func (pl *Policy) completesGroup(g *engine.Game, npcID uuid.UUID, pos int) bool {
	def, ok := engine.PropertyAt(pos)
	if !ok {
		return false
	}
	for _, other := range engine.GroupPositions(def.Group) {
		if other == pos {
			continue
		}
		if !g.Props[other].OwnedBy(npcID) {
			return false
		}
	}
	return true
}

func pickPurchase(legal []engine.Action) (engine.PurchaseProperty, bool) {
	for _, a := range legal {
		if buy, ok := a.(engine.PurchaseProperty); ok {
			return buy, true
		}
	}
	return engine.PurchaseProperty{}, false
}

func hasKind(legal []engine.Action, kind engine.ActionType) bool {
	for _, a := range legal {
		if a.Kind() == kind {
			return true
		}
	}
	return false
}

// rand64 is a self-contained xorshift64 stream seeded from the game state,
// so identical states produce identical decisions.
type rand64 struct{ state uint64 }

func newRand(stateHash uint64, npcID uuid.UUID) *rand64 {
	seed := stateHash
	for _, b := range npcID {
		seed = seed*31 + uint64(b)
	}
	if seed == 0 {
		seed = 1
	}
	return &rand64{state: seed}
}

func (r *rand64) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// float64 returns a uniform value in [0, 1).
func (r *rand64) float64() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}
