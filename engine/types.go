package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Money is an amount of game currency in cents. Negative amounts never
// appear on committed state; they exist only transiently inside debt math.
type Money int64

// Dollars builds a Money value from whole dollars.
func Dollars(n int64) Money { return Money(n * 100) }

func (m Money) String() string {
	if m%100 == 0 {
		return fmt.Sprintf("$%d", int64(m)/100)
	}
	return fmt.Sprintf("$%d.%02d", int64(m)/100, int64(m)%100)
}

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	StatusWaiting    GameStatus = "WAITING"     // waiting for the second player
	StatusInProgress GameStatus = "IN_PROGRESS" // game is active
	StatusCompleted  GameStatus = "COMPLETED"   // winner declared
	StatusCancelled  GameStatus = "CANCELLED"   // abandoned before start
)

// TurnPhase is the position within a single turn.
type TurnPhase string

const (
	PhaseRoll   TurnPhase = "ROLL"   // current player must roll
	PhaseAction TurnPhase = "ACTION" // buy, improve, trade, or end the turn
)

// Difficulty selects an NPC behavior tier.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "EASY"
	DifficultyMedium   Difficulty = "MEDIUM"
	DifficultyHard     Difficulty = "HARD"
	DifficultyRuthless Difficulty = "RUTHLESS"
)

// DisplayName returns the NPC persona name shown to players.
func (d Difficulty) DisplayName() string {
	switch d {
	case DifficultyEasy:
		return "Casual Caddie"
	case DifficultyMedium:
		return "Club Pro"
	case DifficultyHard:
		return "Tour Veteran"
	case DifficultyRuthless:
		return "Championship Mind"
	}
	return string(d)
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyRuthless:
		return true
	}
	return false
}

// DiceRoll is a single roll of two six-sided dice. Ephemeral: it survives
// only in the current turn's event log.
type DiceRoll struct {
	Die1 int `json:"die1"`
	Die2 int `json:"die2"`
}

// Total returns the combined value of both dice.
func (r DiceRoll) Total() int { return r.Die1 + r.Die2 }

// IsDoubles reports whether both dice show the same value.
func (r DiceRoll) IsDoubles() bool { return r.Die1 == r.Die2 }

func (r DiceRoll) String() string {
	s := fmt.Sprintf("[%d, %d = %d]", r.Die1, r.Die2, r.Total())
	if r.IsDoubles() {
		return s + " doubles"
	}
	return s
}

// PropertyState is the per-game mutable state of one purchasable tile,
// indexed by board position. The zero value means unowned and unimproved.
type PropertyState struct {
	Owner     uuid.UUID        `json:"owner"` // uuid.Nil when unowned
	Level     ImprovementLevel `json:"level"`
	Mortgaged bool             `json:"mortgaged"`
}

// Owned reports whether any player owns the property.
func (s *PropertyState) Owned() bool { return s.Owner != uuid.Nil }

// OwnedBy reports whether the given player owns the property.
func (s *PropertyState) OwnedBy(id uuid.UUID) bool { return s.Owner != uuid.Nil && s.Owner == id }

// Player is one participant's state within a game. Mutated only by engine
// functions invoked through Game.Apply.
type Player struct {
	ID                 uuid.UUID  `json:"id"`
	DisplayName        string     `json:"displayName"`
	CurrencyCents      Money      `json:"currencyCents"`
	Position           int        `json:"position"`
	NPC                bool       `json:"npc"`
	Difficulty         Difficulty `json:"difficulty,omitempty"` // set only for NPCs
	Bankrupt           bool       `json:"bankrupt"`
	SandTrapTurns      int        `json:"sandTrapTurns"` // >0 while stuck
	ConsecutiveDoubles int        `json:"consecutiveDoubles"`
}

// InSandTrap reports whether the player still has sentence turns to serve.
func (p *Player) InSandTrap() bool { return p.SandTrapTurns > 0 }

// CanAfford reports whether the player's liquid currency covers the amount.
func (p *Player) CanAfford(amount Money) bool { return p.CurrencyCents >= amount }

// TradeStatus is the lifecycle state of a trade offer.
type TradeStatus string

const (
	TradePending   TradeStatus = "PENDING"
	TradeAccepted  TradeStatus = "ACCEPTED"
	TradeRejected  TradeStatus = "REJECTED"
	TradeCancelled TradeStatus = "CANCELLED"
)

// TradeOffer is a proposed bilateral exchange of properties and currency.
// At most one pending offer exists per game.
type TradeOffer struct {
	ID                  uuid.UUID   `json:"id"`
	From                uuid.UUID   `json:"from"`
	To                  uuid.UUID   `json:"to"`
	OfferedProperties   []int       `json:"offeredProperties"` // board positions
	OfferedCents        Money       `json:"offeredCents"`
	RequestedProperties []int       `json:"requestedProperties"`
	RequestedCents      Money       `json:"requestedCents"`
	Status              TradeStatus `json:"status"`
}

// ---------------------------------------------------------------------------
// Action sum type — one struct per action kind, each carrying only its
// required fields.
// ---------------------------------------------------------------------------

// ActionType tags the kind of a player action.
type ActionType string

const (
	ActionRollDice         ActionType = "ROLL_DICE"
	ActionPurchaseProperty ActionType = "PURCHASE_PROPERTY"
	ActionImproveProperty  ActionType = "IMPROVE_PROPERTY"
	ActionProposeTrade     ActionType = "PROPOSE_TRADE"
	ActionAcceptTrade      ActionType = "ACCEPT_TRADE"
	ActionRejectTrade      ActionType = "REJECT_TRADE"
	ActionEndTurn          ActionType = "END_TURN"
)

// Action is one of the seven player action kinds.
type Action interface {
	Kind() ActionType
}

// RollDice rolls the dice and resolves movement and landing effects.
type RollDice struct{}

// PurchaseProperty buys the unowned property the player stands on.
type PurchaseProperty struct {
	Position int
}

// ImproveProperty raises the improvement level of an owned property by one.
type ImproveProperty struct {
	Position int
}

// ProposeTrade offers a bilateral exchange to the opponent.
type ProposeTrade struct {
	To                  uuid.UUID
	OfferedProperties   []int
	OfferedCents        Money
	RequestedProperties []int
	RequestedCents      Money
}

// AcceptTrade accepts the pending trade. Legal only for its recipient.
type AcceptTrade struct{}

// RejectTrade declines the pending trade. Legal only for its recipient.
type RejectTrade struct{}

// EndTurn hands the turn to the next player.
type EndTurn struct{}

func (RollDice) Kind() ActionType         { return ActionRollDice }
func (PurchaseProperty) Kind() ActionType { return ActionPurchaseProperty }
func (ImproveProperty) Kind() ActionType  { return ActionImproveProperty }
func (ProposeTrade) Kind() ActionType     { return ActionProposeTrade }
func (AcceptTrade) Kind() ActionType      { return ActionAcceptTrade }
func (RejectTrade) Kind() ActionType      { return ActionRejectTrade }
func (EndTurn) Kind() ActionType          { return ActionEndTurn }
