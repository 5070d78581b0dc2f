package engine

// EventType classifies an entry in the game's event log.
type EventType string

const (
	EventGameCreated       EventType = "GAME_CREATED"
	EventPlayerJoined      EventType = "PLAYER_JOINED"
	EventGameStarted       EventType = "GAME_STARTED"
	EventTurnStarted       EventType = "TURN_STARTED"
	EventDiceRolled        EventType = "DICE_ROLLED"
	EventMoved             EventType = "MOVED"
	EventPassedStart       EventType = "PASSED_START"
	EventRentPaid          EventType = "RENT_PAID"
	EventPenaltyPaid       EventType = "PENALTY_PAID"
	EventSentToSandTrap    EventType = "SENT_TO_SAND_TRAP"
	EventSandTrapEscape    EventType = "SAND_TRAP_ESCAPE"
	EventSandTrapServed    EventType = "SAND_TRAP_SERVED"
	EventPropertyPurchased EventType = "PROPERTY_PURCHASED"
	EventPropertyImproved  EventType = "PROPERTY_IMPROVED"
	EventImprovementSold   EventType = "IMPROVEMENT_SOLD"
	EventPropertyMortgaged EventType = "PROPERTY_MORTGAGED"
	EventTradeProposed     EventType = "TRADE_PROPOSED"
	EventTradeAccepted     EventType = "TRADE_ACCEPTED"
	EventTradeRejected     EventType = "TRADE_REJECTED"
	EventTradeCancelled    EventType = "TRADE_CANCELLED"
	EventPlayerBankrupt    EventType = "PLAYER_BANKRUPT"
	EventTurnEnded         EventType = "TURN_ENDED"
	EventGameEnded         EventType = "GAME_ENDED"
)

// Event is one entry in the append-only narrative of a game. Description is
// player-facing text; Details carries structured fields for clients.
type Event struct {
	Type        EventType      `json:"type"`
	TurnNumber  int            `json:"turnNumber"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
}

func (g *Game) emit(typ EventType, description string, details map[string]any) {
	g.events = append(g.events, Event{
		Type:        typ,
		TurnNumber:  g.TurnNumber,
		Description: description,
		Details:     details,
	})
}

// DrainEvents returns the events accumulated since the previous drain and
// clears the buffer. The coordinator drains after every committed action.
func (g *Game) DrainEvents() []Event {
	out := g.events
	g.events = nil
	return out
}

// PendingEvents returns the undrained events without clearing them.
func (g *Game) PendingEvents() []Event { return g.events }
