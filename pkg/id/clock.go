package id

import (
	"errors"
	"time"
)

// ErrClockBeforeEpoch is returned by clocks when wall time precedes the epoch.
var ErrClockBeforeEpoch = errors.New("id: clock reads before epoch")

// Clock is a small indirection over wall time so generation can be driven
// by a fake clock in tests.
type Clock interface {
	// NowMs returns whole milliseconds elapsed since the clock's epoch.
	NowMs() (uint64, error)
}

// Sleeper blocks the caller for d.
type Sleeper func(d time.Duration)

// SystemClock measures milliseconds since the Unix epoch.
type SystemClock struct{}

func (SystemClock) NowMs() (uint64, error) {
	ms := time.Now().UnixMilli()
	if ms < 0 {
		return 0, ErrClockBeforeEpoch
	}
	return uint64(ms), nil
}

// EpochClock measures milliseconds since a custom epoch. A later epoch
// stretches the useful life of the timestamp field.
type EpochClock struct {
	Epoch time.Time
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewEpochClock returns a clock anchored at epochMs Unix milliseconds.
func NewEpochClock(epochMs int64) EpochClock {
	return EpochClock{Epoch: time.UnixMilli(epochMs)}
}

func (c EpochClock) NowMs() (uint64, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ms := now().Sub(c.Epoch).Milliseconds()
	if ms < 0 {
		return 0, ErrClockBeforeEpoch
	}
	return uint64(ms), nil
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() (uint64, error)

func (f ClockFunc) NowMs() (uint64, error) { return f() }
