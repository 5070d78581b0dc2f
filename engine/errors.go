package engine

import "fmt"

// ReasonCode is a stable machine-readable identifier for a rejected action.
type ReasonCode string

const (
	ReasonGameNotInProgress ReasonCode = "game_not_in_progress"
	ReasonGameFull          ReasonCode = "game_full"
	ReasonGameNotWaiting    ReasonCode = "game_not_waiting"
	ReasonUnknownPlayer     ReasonCode = "unknown_player"
	ReasonNotYourTurn       ReasonCode = "not_your_turn"
	ReasonWrongPhase        ReasonCode = "wrong_phase"
	ReasonNotAProperty      ReasonCode = "not_a_property"
	ReasonNotOnTile         ReasonCode = "not_on_tile"
	ReasonAlreadyOwned      ReasonCode = "already_owned"
	ReasonNotOwner          ReasonCode = "not_owner"
	ReasonInsufficientFunds ReasonCode = "insufficient_funds"
	ReasonGroupIncomplete   ReasonCode = "group_incomplete"
	ReasonGroupMortgaged    ReasonCode = "group_mortgaged"
	ReasonMaxImprovement    ReasonCode = "max_improvement"
	ReasonMortgaged         ReasonCode = "mortgaged"
	ReasonTradePending      ReasonCode = "trade_pending"
	ReasonNoPendingTrade    ReasonCode = "no_pending_trade"
	ReasonNotTradeRecipient ReasonCode = "not_trade_recipient"
	ReasonInvalidTrade      ReasonCode = "invalid_trade"
)

// RuleViolation reports which precondition an action failed. It is the sole
// error channel between the rules engine and its callers: always recoverable,
// always returned as a value, never a panic. State is untouched when one is
// returned.
type RuleViolation struct {
	Code    ReasonCode
	Message string
}

func (v *RuleViolation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// violationf builds a RuleViolation with a formatted message.
func violationf(code ReasonCode, format string, args ...any) *RuleViolation {
	return &RuleViolation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvariantError reports corrupted game state. It must never occur under
// correct engine code; the coordinator halts the affected game when one
// surfaces.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant broken: " + e.Detail
}
