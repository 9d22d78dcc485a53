package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	cfgpkg "github.com/rzbill/uidgen/internal/config"
	"github.com/rzbill/uidgen/internal/ledger"
	"github.com/rzbill/uidgen/internal/metrics"
	pebblestore "github.com/rzbill/uidgen/internal/storage/pebble"
	"github.com/rzbill/uidgen/pkg/id"
	logpkg "github.com/rzbill/uidgen/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Registry receives the node's metrics. A private registry is created
	// when nil.
	Registry *prometheus.Registry
	// Ledger opens the Pebble ledger under Config.DataDir.
	Ledger bool
	Fsync  pebblestore.FsyncMode
	// SequencerOptions are applied after the ones derived from Config.
	SequencerOptions []id.Option
}

// Runtime is a single uidgen node.
type Runtime struct {
	config   cfgpkg.Config
	layout   id.Layout
	gen      *id.Locked
	logger   logpkg.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	db     *pebblestore.DB
	ledger *ledger.Ledger
}

// Open validates the configuration and builds the node.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	logger = logger.With(logpkg.Component("runtime"), logpkg.Uint64("node_id", cfg.NodeID))

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg, layout, cfg.NodeID)

	seqOpts := append(cfg.SequencerOptions(),
		id.WithObserver(id.MultiObserver{m.Observer(), newLogObserver(logger)}))
	seqOpts = append(seqOpts, opts.SequencerOptions...)
	seq, err := id.NewSequencer(layout, cfg.NodeID, seqOpts...)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		config:   cfg,
		layout:   layout,
		gen:      id.NewLocked(seq),
		logger:   logger,
		registry: reg,
		metrics:  m,
	}

	if opts.Ledger {
		dir := cfgpkg.LedgerDir(cfg.DataDir)
		db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: opts.Fsync, Metrics: m})
		if err != nil {
			return nil, err
		}
		lg, err := ledger.Open(db, cfg.NodeID)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		rt.db, rt.ledger = db, lg
		logger.Debug("ledger opened", logpkg.Str("dir", dir))
	}

	summary := layout.Describe()
	logger.Info("sequencer ready",
		logpkg.Int("timestamp_bits", int(summary.TimestampBits)),
		logpkg.Int("node_bits", int(summary.NodeBits)),
		logpkg.Int("sequence_bits", int(summary.SequenceBits)),
		logpkg.Str("overflow_policy", cfg.OverflowPolicy().String()),
		logpkg.Uint64("overflow_threshold", seq.OverflowThreshold()),
	)
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.ledger = nil, nil
	return err
}

// CheckHealth verifies the ledger store is readable when one is open.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.ledger == nil {
		return nil
	}
	_, _, err := r.ledger.Read(ledger.ReadOptions{Limit: 1})
	return err
}

// Next returns the next ID. Safe for concurrent use.
func (r *Runtime) Next() uint64 { return r.gen.Next() }

// NextN returns n consecutive IDs.
func (r *Runtime) NextN(n int) []uint64 { return r.gen.NextN(n) }

// Record generates n IDs and appends them to the ledger as one batch.
func (r *Runtime) Record(ctx context.Context, n int) ([]uint64, error) {
	if r.ledger == nil {
		return nil, errors.New("runtime: ledger not open")
	}
	ids := r.gen.NextN(n)
	if err := r.ledger.Append(ctx, ids); err != nil {
		return ids, fmt.Errorf("runtime: record: %w", err)
	}
	return ids, nil
}

// Verify audits the ledger against the node's layout.
func (r *Runtime) Verify(ctx context.Context) (ledger.Report, error) {
	if r.ledger == nil {
		return ledger.Report{}, errors.New("runtime: ledger not open")
	}
	return r.ledger.Verify(ctx, r.layout)
}

func (r *Runtime) Layout() id.Layout              { return r.layout }
func (r *Runtime) NodeID() uint64                 { return r.config.NodeID }
func (r *Runtime) Config() cfgpkg.Config          { return r.config }
func (r *Runtime) Registry() *prometheus.Registry { return r.registry }
func (r *Runtime) Ledger() *ledger.Ledger         { return r.ledger }
