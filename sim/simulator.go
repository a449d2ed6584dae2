// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RequestSource produces the arrivals of one source node in increasing time
// order. Next returns nil once the source is exhausted; it is not called again
// after that.
type RequestSource interface {
	Next() *Request
}

// Simulator is the event scheduler: it holds the clock and the event queue
// and dispatches each event to the AdmissionController, one at a time.
type Simulator struct {
	Clock   int64
	Horizon int64 // events later than Horizon are never executed
	// EventQueue has all pending arrival and departure events
	EventQueue *EventHeap
	Controller *AdmissionController

	observers []Observer
	sources   int
	exhausted int
	steps     int
	halted    bool
}

// NewSimulator creates a simulator that drives controller until horizon.
func NewSimulator(horizon int64, controller *AdmissionController) *Simulator {
	return &Simulator{
		Horizon:    horizon,
		EventQueue: NewEventHeap(),
		Controller: controller,
	}
}

// AddObserver registers an observer of outcomes and releases.
func (sim *Simulator) AddObserver(o Observer) {
	sim.observers = append(sim.observers, o)
}

// AddSource registers a request source and schedules its first arrival.
func (sim *Simulator) AddSource(src RequestSource) {
	sim.sources++
	sim.pull(src)
}

// InjectArrival schedules an arrival for a request that has no source.
func (sim *Simulator) InjectArrival(req *Request) {
	sim.Schedule(&ArrivalEvent{time: req.ArrivalTime, Request: req})
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.EventQueue.Schedule(ev)
}

// NextEventTime returns the time of the next event to execute, if any.
func (sim *Simulator) NextEventTime() (int64, bool) {
	if sim.halted {
		return 0, false
	}
	next := sim.EventQueue.Peek()
	if next == nil || next.Timestamp() > sim.Horizon {
		return 0, false
	}
	return next.Timestamp(), true
}

// Step executes the earliest pending event and advances the clock to its
// time. It returns false, without executing anything, once the queue is
// empty or the next event lies beyond the horizon.
func (sim *Simulator) Step() bool {
	if _, ok := sim.NextEventTime(); !ok {
		sim.halted = true
		return false
	}
	ev := sim.EventQueue.PopNext()
	if ev.Timestamp() < sim.Clock {
		panic(fmt.Sprintf("event at %d scheduled before clock %d", ev.Timestamp(), sim.Clock))
	}
	sim.Clock = ev.Timestamp()
	logrus.Debugf("[tick %07d] Executing %T", sim.Clock, ev)
	ev.Execute(sim)
	sim.steps++
	return true
}

// Run steps until the queue is empty or the horizon is reached.
func (sim *Simulator) Run() {
	for sim.Step() {
	}
	sim.Finish()
}

// Finish logs the end of the run. Run calls it; external drivers of Step
// should call it once Step returns false.
func (sim *Simulator) Finish() {
	logrus.Infof("[tick %07d] Simulation ended after %d events, %d/%d sources exhausted, %d lightpaths active",
		sim.Clock, sim.steps, sim.exhausted, sim.sources, sim.Controller.ActiveCount())
}

// Now returns the current simulation time.
func (sim *Simulator) Now() int64 { return sim.Clock }

// Steps returns the number of executed events.
func (sim *Simulator) Steps() int { return sim.steps }

// SourcesExhausted reports whether every registered source reached its quota.
func (sim *Simulator) SourcesExhausted() bool { return sim.exhausted == sim.sources }

func (sim *Simulator) handleArrival(e *ArrivalEvent) {
	// expired lightpaths leave before the new request is considered, even if
	// their departure event is queued behind this arrival at the same tick
	sim.release()

	outcome := sim.Controller.Put(e.Request)
	switch o := outcome.(type) {
	case *Admitted:
		sim.Schedule(&DepartureEvent{time: o.Req.EndTime(), Request: o.Req})
	case *Blocked:
		logrus.Infof("   Blocked: %s (%s)", o.Req.ID, o.Reason)
	}
	snap := sim.snapshot()
	for _, obs := range sim.observers {
		obs.ObserveOutcome(outcome, snap)
	}

	if e.source != nil {
		sim.pull(e.source)
	}
}

func (sim *Simulator) handleDeparture(_ *DepartureEvent) {
	sim.release()
}

func (sim *Simulator) release() {
	released := sim.Controller.Release(sim.Clock)
	if len(released) == 0 {
		return
	}
	snap := sim.snapshot()
	for _, obs := range sim.observers {
		obs.ObserveRelease(released, snap)
	}
}

// pull schedules the next arrival of src, or records that src is exhausted.
func (sim *Simulator) pull(src RequestSource) {
	req := src.Next()
	if req == nil {
		sim.exhausted++
		logrus.Infof("[tick %07d] request source exhausted (%d/%d)", sim.Clock, sim.exhausted, sim.sources)
		return
	}
	sim.Schedule(&ArrivalEvent{time: req.ArrivalTime, Request: req, source: src})
}

func (sim *Simulator) snapshot() Snapshot {
	res := sim.Controller.Resources()
	return Snapshot{
		Clock:            sim.Clock,
		ActiveLightpaths: sim.Controller.ActiveCount(),
		BusySlots:        res.BusySlots(),
		TotalSlots:       res.TotalSlots(),
	}
}
