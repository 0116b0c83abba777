package statemach

// TimeGate is a self-rearming deadline producing automatic transitions
// independent of user input. Every firing both reports the target and
// reschedules the next firing at now+duration.
type TimeGate struct {
	target   State
	deadline uint32
	duration uint32
}

// NewTimeGate creates a gate armed to fire at now+duration.
func NewTimeGate(target State, now, duration uint32) *TimeGate {
	return &TimeGate{target: target, deadline: now + duration, duration: duration}
}

// Arm resets the deadline to now+duration.
func (g *TimeGate) Arm(now uint32) {
	g.deadline = now + g.duration
}

// Deadline returns the current absolute deadline.
func (g *TimeGate) Deadline() uint32 {
	return g.deadline
}

// Duration returns the rearm duration.
func (g *TimeGate) Duration() uint32 {
	return g.duration
}

// Fire reports the target once the deadline has passed and rearms the
// gate. The signed difference keeps the comparison correct across tick
// counter wraparound.
func (g *TimeGate) Fire(now uint32) (State, bool) {
	if int32(now-g.deadline) < 0 {
		return nil, false
	}
	g.deadline = now + g.duration
	return g.target, true
}
