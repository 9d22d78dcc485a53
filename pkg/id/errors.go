package id

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldsTooWide is returned when timestamp and node widths leave fewer
	// than MinSequenceBits for the sequence.
	ErrFieldsTooWide = errors.New("id: layout fields too wide")
	// ErrNodeIDOutOfRange is returned when a node id does not fit the layout.
	ErrNodeIDOutOfRange = errors.New("id: node id out of range")
	// ErrTimestampExhausted means the clock has run past the last millisecond
	// the layout's timestamp field can hold.
	ErrTimestampExhausted = errors.New("id: timestamp field exhausted")
)

// ConfigError describes a construction-time failure. It unwraps to one of
// the package sentinels.
type ConfigError struct {
	Field string
	Value uint64
	Limit uint64
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%d exceeds %d", e.Err, e.Field, e.Value, e.Limit)
}

func (e *ConfigError) Unwrap() error { return e.Err }
