package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest_Pending(t *testing.T) {
	req := NewRequest("lp_1_0", 1, 2, 100, 50, 3)
	assert.Equal(t, StatePending, req.State)
	assert.Equal(t, int64(150), req.EndTime())
	assert.Nil(t, req.Slots())
}

func TestRequest_Assign_OnlyOnce(t *testing.T) {
	req := NewRequest("r", 1, 2, 0, 10, 2)
	usage := []SlotUse{{EdgeID: 0, Slot: 3}, {EdgeID: 0, Slot: 4}, {EdgeID: 1, Slot: 3}, {EdgeID: 1, Slot: 4}}

	req.assign([]int{1, 5, 2}, usage)

	assert.Equal(t, StateActive, req.State)
	assert.Equal(t, []int{3, 4}, req.Slots())
	assert.Panics(t, func() { req.assign([]int{1, 2}, usage) })
}

func TestRequest_String(t *testing.T) {
	req := NewRequest("r7", 3, 9, 5, 6, 2)
	assert.Equal(t, "Request: (ID: r7, 3 -> 9, Slots: 2, ArrivalTime: 5, Duration: 6, State: pending)", req.String())
}
