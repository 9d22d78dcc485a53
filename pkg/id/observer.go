package id

// Observer receives generation events. Callbacks run on the caller's
// goroutine while the Sequencer is mid-call, so they must not call back into
// the same Sequencer.
type Observer interface {
	// Generated is called with every issued ID.
	Generated(id uint64)
	// SequenceExhausted is called after the sequence hit its overflow
	// threshold in millisecond ms and the Sequencer slept waits times.
	SequenceExhausted(ms uint64, waits int)
	// ClockDegraded is called when the clock read failed and zero was used.
	ClockDegraded(err error)
	// ClockRegressed is called when the clock reads behind the last seen
	// millisecond.
	ClockRegressed(curr, last uint64)
	// TimestampExhausted is called when the clock reads past maxMs, the last
	// millisecond the layout can encode. The Sequencer uses maxMs instead.
	TimestampExhausted(curr, maxMs uint64)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) Generated(uint64)                  {}
func (NoopObserver) SequenceExhausted(uint64, int)     {}
func (NoopObserver) ClockDegraded(error)               {}
func (NoopObserver) ClockRegressed(uint64, uint64)     {}
func (NoopObserver) TimestampExhausted(uint64, uint64) {}

// MultiObserver fans events out to every member in order.
type MultiObserver []Observer

func (m MultiObserver) Generated(id uint64) {
	for _, o := range m {
		o.Generated(id)
	}
}

func (m MultiObserver) SequenceExhausted(ms uint64, waits int) {
	for _, o := range m {
		o.SequenceExhausted(ms, waits)
	}
}

func (m MultiObserver) ClockDegraded(err error) {
	for _, o := range m {
		o.ClockDegraded(err)
	}
}

func (m MultiObserver) ClockRegressed(curr, last uint64) {
	for _, o := range m {
		o.ClockRegressed(curr, last)
	}
}

func (m MultiObserver) TimestampExhausted(curr, maxMs uint64) {
	for _, o := range m {
		o.TimestampExhausted(curr, maxMs)
	}
}
