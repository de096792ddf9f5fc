package orders

import (
	"fmt"
	"strings"

	"github.com/viw-carta/backend/internal/models"
)

// transition is a valid state change in the order lifecycle.
type transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the authoritative state machine definition.
var validTransitions = []transition{
	{From: models.OrderReceived, To: models.OrderPreparing},
	{From: models.OrderReceived, To: models.OrderCanceled},
	{From: models.OrderPreparing, To: models.OrderReady},
	{From: models.OrderPreparing, To: models.OrderCanceled},
	{From: models.OrderReady, To: models.OrderServed},
}

var transitionSet = func() map[transition]bool {
	m := make(map[transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// ValidNext returns all valid next states from a given state.
func ValidNext(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition reports whether an order can move from one state to
// another, with a descriptive error when it cannot.
func CanTransition(from, to models.OrderStatus) error {
	if transitionSet[transition{From: from, To: to}] {
		return nil
	}
	nexts := ValidNext(from)
	if len(nexts) == 0 {
		return fmt.Errorf("invalid transition: %s is a terminal state", from)
	}
	labels := make([]string, len(nexts))
	for i, s := range nexts {
		labels[i] = string(s)
	}
	return fmt.Errorf("invalid transition %s -> %s; valid next states: %s",
		from, to, strings.Join(labels, ", "))
}

// ParseStatus returns the OrderStatus for s, or false if unknown.
func ParseStatus(s string) (models.OrderStatus, bool) {
	switch models.OrderStatus(s) {
	case models.OrderReceived, models.OrderPreparing, models.OrderReady,
		models.OrderServed, models.OrderCanceled:
		return models.OrderStatus(s), true
	}
	return "", false
}
