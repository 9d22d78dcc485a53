package id

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock; its sleeper moves time forward.
type fakeClock struct {
	ms     uint64
	err    error
	sleeps int
}

func (c *fakeClock) NowMs() (uint64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.ms, nil
}

func (c *fakeClock) sleep(time.Duration) {
	c.sleeps++
	c.ms++
}

type recordingObserver struct {
	generated int
	exhausted []uint64
	degraded  int
	regressed int
	pinned    int
}

func (o *recordingObserver) Generated(uint64) { o.generated++ }
func (o *recordingObserver) SequenceExhausted(ms uint64, _ int) {
	o.exhausted = append(o.exhausted, ms)
}
func (o *recordingObserver) ClockDegraded(error)               { o.degraded++ }
func (o *recordingObserver) ClockRegressed(uint64, uint64)     { o.regressed++ }
func (o *recordingObserver) TimestampExhausted(uint64, uint64) { o.pinned++ }

func newFakeSequencer(t *testing.T, layout Layout, node uint64, opts ...Option) (*Sequencer, *fakeClock) {
	t.Helper()
	clk := &fakeClock{ms: 1000}
	opts = append([]Option{WithClock(clk), WithSleeper(clk.sleep)}, opts...)
	s, err := NewSequencer(layout, node, opts...)
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	return s, clk
}

func TestNodeIDBounds(t *testing.T) {
	l := DefaultLayout()
	if _, err := NewSequencer(l, 2047); err != nil {
		t.Fatalf("node 2047: %v", err)
	}
	_, err := NewSequencer(l, 2048)
	if !errors.Is(err, ErrNodeIDOutOfRange) {
		t.Fatalf("expected ErrNodeIDOutOfRange, got %v", err)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Value != 2048 || ce.Limit != 2047 {
		t.Fatalf("unexpected config error %#v", err)
	}
}

func TestOrderingMonotonic(t *testing.T) {
	s, clk := newFakeSequencer(t, DefaultLayout(), 12)
	var prev uint64
	for i := 0; i < 10000; i++ {
		if i%100 == 0 {
			clk.ms++
		}
		v := s.Next()
		if i > 0 && v <= prev {
			t.Fatalf("id %d not greater than previous: %d <= %d", i, v, prev)
		}
		prev = v
	}
}

func TestUniquenessRealClock(t *testing.T) {
	s, err := NewSequencer(DefaultLayout(), 3)
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	seen := make(map[uint64]struct{}, 50000)
	var prev uint64
	for i := 0; i < 50000; i++ {
		v := s.Next()
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %d at call %d", v, i)
		}
		if v <= prev {
			t.Fatalf("non-monotonic id at call %d", i)
		}
		seen[v] = struct{}{}
		prev = v
	}
}

func TestFieldRecovery(t *testing.T) {
	l := DefaultLayout()
	s, clk := newFakeSequencer(t, l, 12)
	clk.ms = 1_700_000_000_123
	v := s.Next()
	if node := (v >> l.NodeShift()) & l.MaxNodeID(); node != 12 {
		t.Fatalf("node %d", node)
	}
	if ts := v >> l.TimestampShift(); ts != clk.ms {
		t.Fatalf("timestamp %d want %d", ts, clk.ms)
	}
	p := l.Decompose(v)
	if p.Sequence != 0 || p.NodeID != 12 || p.TimestampMs != clk.ms {
		t.Fatalf("decompose %+v", p)
	}
}

func TestBurstHalfCapacity(t *testing.T) {
	obs := &recordingObserver{}
	s, clk := newFakeSequencer(t, DefaultLayout(), 1, WithObserver(obs))
	if s.OverflowThreshold() != 512 {
		t.Fatalf("threshold %d", s.OverflowThreshold())
	}
	l := s.Layout()
	for want := uint64(0); want < 512; want++ {
		p := l.Decompose(s.Next())
		if p.Sequence != want || p.TimestampMs != 1000 {
			t.Fatalf("call %d: got %+v", want, p)
		}
	}
	if clk.sleeps != 0 {
		t.Fatalf("unexpected sleep before threshold")
	}
	p := l.Decompose(s.Next())
	if clk.sleeps != 1 {
		t.Fatalf("expected one sleep, got %d", clk.sleeps)
	}
	if p.Sequence != 0 || p.TimestampMs != 1001 {
		t.Fatalf("after overflow: %+v", p)
	}
	if len(obs.exhausted) != 1 || obs.exhausted[0] != 1000 {
		t.Fatalf("exhausted events %v", obs.exhausted)
	}
	if obs.generated != 513 {
		t.Fatalf("generated %d", obs.generated)
	}
}

func TestBurstFullCapacity(t *testing.T) {
	s, clk := newFakeSequencer(t, DefaultLayout(), 1, WithOverflowPolicy(OverflowFullCapacity))
	if s.OverflowThreshold() != 1024 {
		t.Fatalf("threshold %d", s.OverflowThreshold())
	}
	var last Parts
	for i := 0; i < 1024; i++ {
		last = s.Layout().Decompose(s.Next())
	}
	if last.Sequence != s.Layout().MaxSequence() || clk.sleeps != 0 {
		t.Fatalf("last %+v sleeps %d", last, clk.sleeps)
	}
	p := s.Layout().Decompose(s.Next())
	if p.Sequence != 0 || p.TimestampMs != 1001 || clk.sleeps != 1 {
		t.Fatalf("after overflow %+v sleeps %d", p, clk.sleeps)
	}
}

func TestOverflowWaitsUntilClockAdvances(t *testing.T) {
	clk := &fakeClock{ms: 500}
	var waits []time.Duration
	sleeper := func(d time.Duration) {
		waits = append(waits, d)
		// the clock only moves on the third sleep
		if len(waits) == 3 {
			clk.ms++
		}
	}
	s := MustSequencer(MustLayout(55, 4), 0,
		WithClock(clk), WithSleeper(sleeper), WithOverflowWait(250*time.Microsecond))
	// 4 sequence bits, half capacity: 8 ids per ms
	for i := 0; i < 8; i++ {
		s.Next()
	}
	v := s.Next()
	if len(waits) != 3 {
		t.Fatalf("expected 3 sleeps, got %d", len(waits))
	}
	if waits[0] != 250*time.Microsecond {
		t.Fatalf("wait %v", waits[0])
	}
	if p := s.Layout().Decompose(v); p.TimestampMs != 501 || p.Sequence != 0 {
		t.Fatalf("after wait %+v", p)
	}
}

func TestClockRegressionGuard(t *testing.T) {
	obs := &recordingObserver{}
	s, clk := newFakeSequencer(t, DefaultLayout(), 5, WithObserver(obs))
	a := s.Next()
	clk.ms = 900 // clock went backwards
	b := s.Next()
	if b <= a {
		t.Fatalf("expected b>a despite clock regression")
	}
	if p := s.Layout().Decompose(b); p.TimestampMs != 1000 || p.Sequence != 1 {
		t.Fatalf("expected pin to last ms, got %+v", p)
	}
	if obs.regressed != 1 {
		t.Fatalf("regressed events %d", obs.regressed)
	}
}

func TestClockFailureReadsAsZero(t *testing.T) {
	obs := &recordingObserver{}
	clk := &fakeClock{err: errors.New("clock unavailable")}
	s := MustSequencer(DefaultLayout(), 9, WithClock(clk), WithObserver(obs))
	a := s.Next()
	b := s.Next()
	if p := s.Layout().Decompose(a); p.TimestampMs != 0 || p.NodeID != 9 {
		t.Fatalf("degraded id %+v", p)
	}
	if b <= a {
		t.Fatalf("degraded ids must still increase")
	}
	if obs.degraded != 2 {
		t.Fatalf("degraded events %d", obs.degraded)
	}
}

func TestSequencersShareLayout(t *testing.T) {
	l := DefaultLayout()
	clk := &fakeClock{ms: 42}
	a := MustSequencer(l, 1, WithClock(clk))
	b := MustSequencer(l, 2, WithClock(clk))
	if a.Next() == b.Next() {
		t.Fatalf("distinct nodes produced the same id")
	}
}

func TestTimestampFieldExhaustion(t *testing.T) {
	l := MustLayout(55, 4)
	obs := &recordingObserver{}
	clk := &fakeClock{ms: l.MaxTimestamp()}
	s := MustSequencer(l, 3, WithClock(clk), WithSleeper(clk.sleep), WithObserver(obs))

	a := s.Next()
	clk.ms = l.MaxTimestamp() + 1
	b := s.Next()
	if b <= a {
		t.Fatalf("id went backwards past the timestamp field: %d <= %d", b, a)
	}
	if p := l.Decompose(b); p.TimestampMs != l.MaxTimestamp() || p.Sequence != 1 {
		t.Fatalf("expected pin to last millisecond, got %+v", p)
	}
	if obs.pinned != 1 {
		t.Fatalf("timestamp exhausted events %d", obs.pinned)
	}

	// 8 ids fit the pinned millisecond at half capacity
	prev := b
	for i := 2; i < 8; i++ {
		v := s.Next()
		if v <= prev {
			t.Fatalf("call %d not increasing", i)
		}
		prev = v
	}
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, ErrTimestampExhausted) {
			t.Fatalf("expected ErrTimestampExhausted panic, got %v", err)
		}
		if clk.sleeps != 0 {
			t.Fatalf("slept %d times waiting for an unreachable millisecond", clk.sleeps)
		}
	}()
	s.Next()
	t.Fatalf("expected panic once the last millisecond is used up")
}
