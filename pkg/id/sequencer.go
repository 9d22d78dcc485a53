package id

import (
	"fmt"
	"time"
)

// DefaultOverflowWait is how long a Sequencer sleeps per attempt once the
// sequence for the current millisecond is used up.
const DefaultOverflowWait = time.Millisecond

// OverflowPolicy selects the sequence value at which a Sequencer stops and
// waits for the next millisecond.
type OverflowPolicy int

const (
	// OverflowHalfCapacity waits once the sequence reaches
	// 2^(sequenceBits-1), leaving the upper half of the sequence field
	// unused. It matches the reference generator's output exactly.
	OverflowHalfCapacity OverflowPolicy = iota
	// OverflowFullCapacity waits once the sequence reaches 2^sequenceBits.
	OverflowFullCapacity
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowHalfCapacity:
		return "half"
	case OverflowFullCapacity:
		return "full"
	default:
		return "unknown"
	}
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the system clock.
func WithClock(c Clock) Option { return func(s *Sequencer) { s.clock = c } }

// WithSleeper replaces time.Sleep for the overflow wait.
func WithSleeper(fn Sleeper) Option { return func(s *Sequencer) { s.sleep = fn } }

// WithOverflowWait sets the duration of a single overflow sleep.
func WithOverflowWait(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.wait = d
		}
	}
}

// WithOverflowPolicy sets the overflow threshold policy.
func WithOverflowPolicy(p OverflowPolicy) Option { return func(s *Sequencer) { s.policy = p } }

// WithObserver registers an Observer for generation events.
func WithObserver(o Observer) Option {
	return func(s *Sequencer) {
		if o != nil {
			s.observer = o
		}
	}
}

// Sequencer generates IDs for a single node.
//
// A Sequencer is not safe for concurrent use. Exactly one goroutine may call
// Next at a time; use Locked to share one.
type Sequencer struct {
	layout    Layout
	nodeID    uint64
	threshold uint64

	lastMs  uint64
	lastSeq uint64

	clock    Clock
	sleep    Sleeper
	wait     time.Duration
	policy   OverflowPolicy
	observer Observer
}

// NewSequencer binds a Sequencer to layout and nodeID. It fails with
// ErrNodeIDOutOfRange when nodeID does not fit in layout.NodeBits().
func NewSequencer(layout Layout, nodeID uint64, opts ...Option) (*Sequencer, error) {
	if maxID := layout.MaxNodeID(); nodeID > maxID {
		return nil, &ConfigError{Field: "node_id", Value: nodeID, Limit: maxID, Err: ErrNodeIDOutOfRange}
	}
	s := &Sequencer{
		layout:   layout,
		nodeID:   nodeID,
		clock:    SystemClock{},
		sleep:    time.Sleep,
		wait:     DefaultOverflowWait,
		policy:   OverflowHalfCapacity,
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.threshold = uint64(1) << layout.SequenceBits()
	if s.policy == OverflowHalfCapacity {
		s.threshold >>= 1
	}
	return s, nil
}

// MustSequencer is like NewSequencer but panics on error.
func MustSequencer(layout Layout, nodeID uint64, opts ...Option) *Sequencer {
	s, err := NewSequencer(layout, nodeID, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Sequencer) Layout() Layout { return s.layout }
func (s *Sequencer) NodeID() uint64 { return s.nodeID }

// OverflowThreshold is the sequence value that triggers the overflow wait.
// IDs carry sequences in [0, OverflowThreshold()).
func (s *Sequencer) OverflowThreshold() uint64 { return s.threshold }

// Next returns the next ID. It blocks only when the sequence for the current
// millisecond is used up, until the clock advances.
//
// A failing clock is read as zero; the Sequencer then stays pinned to the
// last seen millisecond so IDs remain unique within the process.
//
// Next panics with ErrTimestampExhausted when the sequence of the layout's
// last representable millisecond is used up, since no larger ID exists.
func (s *Sequencer) Next() uint64 {
	curr := s.now()
	ms := curr
	if curr <= s.lastMs {
		if curr < s.lastMs {
			s.observer.ClockRegressed(curr, s.lastMs)
			ms = s.lastMs
		}
		s.lastSeq++
		if s.lastSeq == s.threshold {
			if maxMs := s.layout.MaxTimestamp(); ms >= maxMs {
				panic(fmt.Errorf("%w: sequence of millisecond %d used up", ErrTimestampExhausted, maxMs))
			}
			ms = s.awaitNextMs()
			s.lastSeq = 0
		}
	} else {
		s.lastSeq = 0
	}
	s.lastMs = ms

	id := s.layout.Compose(ms, s.nodeID, s.lastSeq)
	s.observer.Generated(id)
	return id
}

// awaitNextMs sleeps until the clock reads past lastMs and returns that
// reading.
func (s *Sequencer) awaitNextMs() uint64 {
	for waits := 1; ; waits++ {
		s.sleep(s.wait)
		if curr := s.now(); curr > s.lastMs {
			s.observer.SequenceExhausted(s.lastMs, waits)
			return curr
		}
	}
}

func (s *Sequencer) now() uint64 {
	ms, err := s.clock.NowMs()
	if err != nil {
		s.observer.ClockDegraded(err)
		return 0
	}
	if maxMs := s.layout.MaxTimestamp(); ms > maxMs {
		s.observer.TimestampExhausted(ms, maxMs)
		return maxMs
	}
	return ms
}
