package id

import "sync"

// Generator is anything that hands out IDs.
type Generator interface {
	Next() uint64
}

// Locked serializes access to a Sequencer so it can be shared between
// goroutines.
type Locked struct {
	mu  sync.Mutex
	seq *Sequencer
}

// NewLocked wraps s. The caller must stop using s directly.
func NewLocked(s *Sequencer) *Locked { return &Locked{seq: s} }

// Next returns the next ID from the wrapped Sequencer.
func (l *Locked) Next() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq.Next()
}

// NextN fills a slice with n consecutive IDs under a single lock hold.
func (l *Locked) NextN(n int) []uint64 {
	if n <= 0 {
		return nil
	}
	out := make([]uint64, n)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range out {
		out[i] = l.seq.Next()
	}
	return out
}

func (l *Locked) Layout() Layout { return l.seq.Layout() }
func (l *Locked) NodeID() uint64 { return l.seq.NodeID() }
