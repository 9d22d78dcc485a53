package runtime

import (
	"github.com/rzbill/uidgen/pkg/id"
	logpkg "github.com/rzbill/uidgen/pkg/log"
)

// logObserver reports clock trouble and sequence exhaustion.
type logObserver struct {
	logger logpkg.Logger
}

func newLogObserver(l logpkg.Logger) id.Observer {
	return logObserver{logger: l.WithComponent("sequencer")}
}

func (o logObserver) Generated(uint64) {}

func (o logObserver) SequenceExhausted(ms uint64, waits int) {
	o.logger.Debug("sequence exhausted, waited for next millisecond",
		logpkg.Uint64("ms", ms), logpkg.Int("waits", waits))
}

func (o logObserver) ClockDegraded(err error) {
	o.logger.Error("clock read failed, using zero timestamp", logpkg.Err(err))
}

func (o logObserver) ClockRegressed(curr, last uint64) {
	o.logger.Warn("clock moved backwards, pinning to last millisecond",
		logpkg.Uint64("now_ms", curr), logpkg.Uint64("last_ms", last))
}

func (o logObserver) TimestampExhausted(curr, maxMs uint64) {
	o.logger.Error("clock is past the timestamp field, pinning to its last millisecond",
		logpkg.Uint64("now_ms", curr), logpkg.Uint64("max_ms", maxMs))
}
