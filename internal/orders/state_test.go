package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viw-carta/backend/internal/models"
)

var allStatuses = []models.OrderStatus{
	models.OrderReceived,
	models.OrderPreparing,
	models.OrderReady,
	models.OrderServed,
	models.OrderCanceled,
}

func TestTransitionTable(t *testing.T) {
	allowed := map[models.OrderStatus][]models.OrderStatus{
		models.OrderReceived:  {models.OrderPreparing, models.OrderCanceled},
		models.OrderPreparing: {models.OrderReady, models.OrderCanceled},
		models.OrderReady:     {models.OrderServed},
		models.OrderServed:    nil,
		models.OrderCanceled:  nil,
	}

	for _, from := range allStatuses {
		assert.ElementsMatch(t, allowed[from], ValidNext(from), "next states from %s", from)

		for _, to := range allStatuses {
			err := CanTransition(from, to)
			want := false
			for _, n := range allowed[from] {
				if n == to {
					want = true
				}
			}
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.Error(t, err, "%s -> %s", from, to)
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, terminal := range []models.OrderStatus{models.OrderServed, models.OrderCanceled} {
		assert.Empty(t, ValidNext(terminal))
		err := CanTransition(terminal, models.OrderReceived)
		assert.ErrorContains(t, err, "terminal")
	}
}

func TestNoSelfTransitions(t *testing.T) {
	for _, s := range allStatuses {
		assert.Error(t, CanTransition(s, s), "self transition %s", s)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		got, ok := ParseStatus(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := ParseStatus("delivered")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}
