package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHeap_OrdersByTimestampThenInsertion(t *testing.T) {
	// GIVEN events pushed out of order, three of them at tick 5
	h := NewEventHeap()
	a := &ArrivalEvent{time: 5, Request: NewRequest("a", 1, 2, 5, 1, 1)}
	b := &DepartureEvent{time: 5, Request: NewRequest("b", 1, 2, 0, 5, 1)}
	c := &ArrivalEvent{time: 1, Request: NewRequest("c", 1, 2, 1, 1, 1)}
	d := &ArrivalEvent{time: 5, Request: NewRequest("d", 1, 2, 5, 1, 1)}
	for _, ev := range []Event{a, b, c, d} {
		h.Schedule(ev)
	}

	// WHEN popped
	var got []Event
	for h.Len() > 0 {
		got = append(got, h.PopNext())
	}

	// THEN the earliest comes first and ties keep insertion order
	require.Len(t, got, 4)
	assert.Same(t, c, got[0])
	assert.Same(t, a, got[1])
	assert.Same(t, b, got[2])
	assert.Same(t, d, got[3])
}

func TestEventHeap_EmptyPeekAndPop(t *testing.T) {
	h := NewEventHeap()
	assert.Nil(t, h.Peek())
	assert.Nil(t, h.PopNext())
}

func TestEventHeap_PeekDoesNotRemove(t *testing.T) {
	h := NewEventHeap()
	ev := &ArrivalEvent{time: 3, Request: NewRequest("a", 1, 2, 3, 1, 1)}
	h.Schedule(ev)
	assert.Same(t, ev, h.Peek())
	assert.Equal(t, 1, h.Len())
}
