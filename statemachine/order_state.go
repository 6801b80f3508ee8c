package statemachine

import (
	"errors"

	"local-butler-api/models"
)

// Actor names used in the transition table
const (
	ActorCustomer = "customer"
	ActorDriver   = "driver"
	ActorAdmin    = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition.
// Forward movement never skips a state; Cancel is reachable from every
// non-terminal state.
var validTransitions = []Transition{
	// Driver claims a pending order
	{From: models.StatusPending, To: models.StatusAssigned, Actor: ActorDriver},
	// Driver departs for the pickup
	{From: models.StatusAssigned, To: models.StatusOnTheWay, Actor: ActorDriver},
	{From: models.StatusAssigned, To: models.StatusOnTheWay, Actor: ActorAdmin},
	// Driver completes the delivery
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Actor: ActorDriver},
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Actor: ActorAdmin},
	// Customer or admin cancels any non-terminal order
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: ActorAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
