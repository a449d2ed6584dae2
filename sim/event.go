package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// ArrivalEvent represents the arrival of a new lightpath request.
type ArrivalEvent struct {
	time    int64         // Simulation time of arrival (in ticks)
	Request *Request      // The incoming request associated with this event
	source  RequestSource // Source to pull the next request from (nil for injected requests)
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() int64 {
	return e.time
}

// Execute hands the request to the admission controller and, if the request
// came from a generator, schedules that generator's next arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	logrus.Infof("<< Arrival: %s (%d -> %d, %d slots) at %d ticks",
		e.Request.ID, e.Request.Src, e.Request.Dst, e.Request.NumSlots, e.time)
	sim.handleArrival(e)
}

// DepartureEvent fires at the end time of an admitted request.
type DepartureEvent struct {
	time    int64    // End time of the request (in ticks)
	Request *Request // The admitted request that is leaving
}

// Timestamp returns the scheduled time of the DepartureEvent.
func (e *DepartureEvent) Timestamp() int64 {
	return e.time
}

// Execute releases every lightpath that has expired by now.
func (e *DepartureEvent) Execute(sim *Simulator) {
	logrus.Infof(">> Departure: %s at %d ticks", e.Request.ID, e.time)
	sim.handleDeparture(e)
}
