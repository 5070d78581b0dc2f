// Package engine implements the fairways-and-greens board game rules.
//
// The package is pure: a Game value owns the complete state of one match,
// Apply validates and executes player actions, and every failure is returned
// as a *RuleViolation value. No I/O, no logging, no clocks — concurrency,
// persistence and broadcast live in the session coordinator.
package engine

import (
	"github.com/google/uuid"
)

// Game is the authoritative state of a single two-player match. It is not
// safe for concurrent use; the coordinator serializes access.
type Game struct {
	ID            uuid.UUID  `json:"id"`
	Status        GameStatus `json:"status"`
	Players       []*Player  `json:"players"` // seating order, at most MaxPlayers
	CurrentPlayer uuid.UUID  `json:"currentPlayer"`
	Phase         TurnPhase  `json:"phase"`
	TurnNumber    int        `json:"turnNumber"`
	WinnerID      uuid.UUID  `json:"winnerId"`

	// Props holds per-game property state indexed by board position. Slots
	// for special tiles stay zero-valued and are never read.
	Props [TotalTiles]PropertyState `json:"props"`

	PendingTrade *TradeOffer `json:"pendingTrade,omitempty"`

	// LastRoll is the most recent dice roll of the current turn.
	LastRoll *DiceRoll `json:"lastRoll,omitempty"`

	// Version increases by one on every committed mutation.
	Version uint64 `json:"version"`

	// events accumulates since the last Drain; the coordinator drains after
	// each action.
	events []Event

	// RNG is the xorshift64 state driving the dice.
	RNG uint64 `json:"rng"`
}

// NewGame creates a game in WAITING with the creator seated first.
// seed 0 is corrected (xorshift cannot start at 0).
func NewGame(id uuid.UUID, seed uint64, creatorID uuid.UUID, creatorName string) *Game {
	if seed == 0 {
		seed = 1
	}
	g := &Game{
		ID:     id,
		Status: StatusWaiting,
		Phase:  PhaseRoll,
		RNG:    seed,
	}
	g.Players = append(g.Players, &Player{
		ID:            creatorID,
		DisplayName:   creatorName,
		CurrencyCents: StartingCurrency,
		Position:      StartPosition,
	})
	g.emit(EventGameCreated, creatorName+" created the game", map[string]any{
		"creatorId": creatorID,
	})
	g.Version++
	return g
}

// AddPlayer seats a second human and starts the game.
func (g *Game) AddPlayer(id uuid.UUID, name string) error {
	if g.Status != StatusWaiting {
		return violationf(ReasonGameNotWaiting, "game status is %s", g.Status)
	}
	if len(g.Players) >= MaxPlayers {
		return violationf(ReasonGameFull, "game already has %d players", MaxPlayers)
	}
	if g.playerByID(id) != nil {
		return violationf(ReasonInvalidTrade, "player already seated")
	}
	g.Players = append(g.Players, &Player{
		ID:            id,
		DisplayName:   name,
		CurrencyCents: StartingCurrency,
		Position:      StartPosition,
	})
	g.emit(EventPlayerJoined, name+" joined the game", map[string]any{
		"playerId": id,
	})
	if len(g.Players) == MaxPlayers {
		g.start()
	}
	g.Version++
	return nil
}

// AddNPC seats an NPC opponent at the chosen difficulty and starts the game.
// Returns the NPC's generated player id.
func (g *Game) AddNPC(difficulty Difficulty) (uuid.UUID, error) {
	if !difficulty.Valid() {
		difficulty = DifficultyMedium
	}
	if g.Status != StatusWaiting {
		return uuid.Nil, violationf(ReasonGameNotWaiting, "game status is %s", g.Status)
	}
	if len(g.Players) >= MaxPlayers {
		return uuid.Nil, violationf(ReasonGameFull, "game already has %d players", MaxPlayers)
	}
	id := uuid.New()
	g.Players = append(g.Players, &Player{
		ID:            id,
		DisplayName:   difficulty.DisplayName(),
		CurrencyCents: StartingCurrency,
		Position:      StartPosition,
		NPC:           true,
		Difficulty:    difficulty,
	})
	g.emit(EventPlayerJoined, difficulty.DisplayName()+" joined the game", map[string]any{
		"playerId": id,
		"npc":      true,
	})
	if len(g.Players) == MaxPlayers {
		g.start()
	}
	g.Version++
	return id, nil
}

// Cancel abandons a game that never started. Reachable only from WAITING.
func (g *Game) Cancel() error {
	if g.Status != StatusWaiting {
		return violationf(ReasonGameNotWaiting, "cannot cancel a game in status %s", g.Status)
	}
	g.Status = StatusCancelled
	g.emit(EventGameEnded, "game cancelled before start", nil)
	g.Version++
	return nil
}

func (g *Game) start() {
	g.Status = StatusInProgress
	g.CurrentPlayer = g.Players[0].ID
	g.Phase = PhaseRoll
	g.TurnNumber = 1
	g.emit(EventGameStarted, g.Players[0].DisplayName+" goes first", map[string]any{
		"firstPlayerId": g.CurrentPlayer,
	})
	g.emit(EventTurnStarted, "turn 1: "+g.Players[0].DisplayName, map[string]any{
		"playerId":   g.CurrentPlayer,
		"turnNumber": 1,
	})
}

// ---------------------------------------------------------------------------
// xorshift64 RNG — dice source, seeded per game for reproducible matches.
// ---------------------------------------------------------------------------

func (g *Game) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *Game) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// rollDice produces a fresh two-die roll from the game's RNG.
func (g *Game) rollDice() DiceRoll {
	return DiceRoll{
		Die1: int(g.randN(6)) + 1,
		Die2: int(g.randN(6)) + 1,
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (g *Game) playerByID(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByID returns the seated player with the given id, or nil.
func (g *Game) PlayerByID(id uuid.UUID) *Player { return g.playerByID(id) }

// Opponent returns the other seated player.
func (g *Game) Opponent(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// Current returns the player whose turn it is, or nil before the game starts.
func (g *Game) Current() *Player { return g.playerByID(g.CurrentPlayer) }

// ActivePlayers returns the non-bankrupt players in seating order.
func (g *Game) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Bankrupt {
			out = append(out, p)
		}
	}
	return out
}

// OwnedPositions returns the board positions owned by the player, ascending.
func (g *Game) OwnedPositions(id uuid.UUID) []int {
	var out []int
	for pos := range g.Props {
		if g.Props[pos].OwnedBy(id) {
			out = append(out, pos)
		}
	}
	return out
}

// OwnsCompleteGroup reports whether the player owns every property in the group.
func (g *Game) OwnsCompleteGroup(id uuid.UUID, group CourseGroup) bool {
	for _, pos := range GroupPositions(group) {
		if !g.Props[pos].OwnedBy(id) {
			return false
		}
	}
	return true
}

// groupHasMortgage reports whether any property in the group is mortgaged.
func (g *Game) groupHasMortgage(group CourseGroup) bool {
	for _, pos := range GroupPositions(group) {
		if g.Props[pos].Mortgaged {
			return true
		}
	}
	return false
}

// CompleteGroupsOwnedBy returns every group fully held by the player.
func (g *Game) CompleteGroupsOwnedBy(id uuid.UUID) []CourseGroup {
	var out []CourseGroup
	for _, group := range CourseGroups {
		if g.OwnsCompleteGroup(id, group) {
			out = append(out, group)
		}
	}
	return out
}

// NetWorth is the player's liquid currency plus property book value:
// purchase price (half while mortgaged) plus the cost of built improvements.
func (g *Game) NetWorth(id uuid.UUID) Money {
	p := g.playerByID(id)
	if p == nil {
		return 0
	}
	total := p.CurrencyCents
	for _, pos := range g.OwnedPositions(id) {
		def, _ := PropertyAt(pos)
		st := &g.Props[pos]
		if st.Mortgaged {
			total += def.PurchasePrice / 2
		} else {
			total += def.PurchasePrice
		}
		total += def.ImprovementCost * Money(st.Level)
	}
	return total
}

// Rent computes the rent currently owed on the property at pos:
// base rent scaled by the improvement-level multiplier, doubled when the
// owner holds the whole group and the tile is unimproved, zero when
// mortgaged or unowned.
func (g *Game) Rent(pos int) Money {
	def, ok := PropertyAt(pos)
	if !ok {
		return 0
	}
	st := &g.Props[pos]
	if !st.Owned() || st.Mortgaged {
		return 0
	}
	rent := def.BaseRent * Money(rentMultipliers[st.Level])
	if st.Level == LevelNone && g.OwnsCompleteGroup(st.Owner, def.Group) {
		rent *= 2
	}
	return rent
}

// ---------------------------------------------------------------------------
// Snapshot / hash
// ---------------------------------------------------------------------------

// Clone returns a deep copy of the game, safe to hand to observers while the
// original keeps mutating.
func (g *Game) Clone() *Game {
	cp := *g
	cp.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		pc := *p
		cp.Players[i] = &pc
	}
	if g.PendingTrade != nil {
		t := *g.PendingTrade
		t.OfferedProperties = append([]int(nil), g.PendingTrade.OfferedProperties...)
		t.RequestedProperties = append([]int(nil), g.PendingTrade.RequestedProperties...)
		cp.PendingTrade = &t
	}
	if g.LastRoll != nil {
		r := *g.LastRoll
		cp.LastRoll = &r
	}
	cp.events = append([]Event(nil), g.events...)
	return &cp
}

// StateHash returns an FNV-1a hash over the mutable state. Identical states
// always yield identical hashes; the NPC policy uses it to seed its PRNG so
// decisions are reproducible.
func (g *Game) StateHash() uint64 {
	h := uint64(14695981039346656037)
	const prime = uint64(1099511628211)
	mix := func(v uint64) {
		h ^= v
		h *= prime
	}
	mixID := func(id uuid.UUID) {
		for _, b := range id {
			mix(uint64(b))
		}
	}
	for _, p := range g.Players {
		mixID(p.ID)
		mix(uint64(p.CurrencyCents))
		mix(uint64(p.Position))
		mix(uint64(p.SandTrapTurns)<<8 | uint64(p.ConsecutiveDoubles)<<4 | boolBit(p.Bankrupt))
	}
	for pos := range g.Props {
		st := &g.Props[pos]
		mixID(st.Owner)
		mix(uint64(st.Level)<<1 | boolBit(st.Mortgaged))
	}
	mix(uint64(g.TurnNumber))
	mix(uint64(len(g.Phase)))
	if g.PendingTrade != nil {
		mixID(g.PendingTrade.ID)
	}
	return h
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// checkInvariants runs the defensive checks the coordinator uses to decide
// whether a game must be halted. Returns nil when the state is coherent.
func (g *Game) checkInvariants() error {
	for _, p := range g.Players {
		if p.CurrencyCents < 0 {
			return &InvariantError{Detail: p.DisplayName + " holds negative currency"}
		}
		if p.Position < 0 || p.Position >= TotalTiles {
			return &InvariantError{Detail: p.DisplayName + " is off the board"}
		}
	}
	for pos := range g.Props {
		st := &g.Props[pos]
		if st.Owned() && g.playerByID(st.Owner) == nil {
			return &InvariantError{Detail: "property owned by unseated player"}
		}
		if st.Owned() && !TileAt(pos).IsProperty() {
			return &InvariantError{Detail: "ownership recorded on a special tile"}
		}
	}
	if g.Status == StatusInProgress && g.Current() == nil {
		return &InvariantError{Detail: "no current player while in progress"}
	}
	return nil
}
