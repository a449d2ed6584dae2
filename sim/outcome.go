package sim

// BlockReason says why a request was not admitted.
type BlockReason string

const (
	// ReasonNoPath: source and destination are disconnected.
	ReasonNoPath BlockReason = "no-path"
	// ReasonInsufficientSpectrum: no contiguous block is free on every edge of the route.
	ReasonInsufficientSpectrum BlockReason = "insufficient-spectrum"
	// ReasonInsufficientTransceivers: the source has no free transmitter or the
	// destination no free receiver.
	ReasonInsufficientTransceivers BlockReason = "insufficient-transceivers"
)

// Outcome is the result of AdmissionController.Put: either *Admitted or *Blocked.
// Callers are expected to type-switch over both cases.
type Outcome interface {
	// Request returns the request the decision was made for.
	Request() *Request
	outcome()
}

// Admitted carries the route and exact slot assignment of an admitted request.
type Admitted struct {
	Req   *Request
	Path  []int
	Slots []SlotUse
}

func (a *Admitted) Request() *Request { return a.Req }
func (*Admitted) outcome()            {}

// Blocked carries the reason a request was rejected. Detail is free text for logs.
type Blocked struct {
	Req    *Request
	Reason BlockReason
	Detail string
}

func (b *Blocked) Request() *Request { return b.Req }
func (*Blocked) outcome()            {}
