package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rzbill/uidgen/pkg/id"
	logpkg "github.com/rzbill/uidgen/pkg/log"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	TimestampBits uint   `json:"timestampBits" yaml:"timestampBits"`
	NodeBits      uint   `json:"nodeBits" yaml:"nodeBits"`
	NodeID        uint64 `json:"nodeId" yaml:"nodeId"`
	// EpochMs is the Unix millisecond the timestamp field counts from.
	EpochMs int64 `json:"epochMs" yaml:"epochMs"`
	// OverflowWaitMs is the length of one overflow sleep.
	OverflowWaitMs int `json:"overflowWaitMs" yaml:"overflowWaitMs"`
	// FullCapacity lets the sequence use its whole field before waiting
	// instead of stopping at half.
	FullCapacity bool          `json:"fullCapacity" yaml:"fullCapacity"`
	DataDir      string        `json:"dataDir" yaml:"dataDir"`
	MetricsAddr  string        `json:"metricsAddr" yaml:"metricsAddr"`
	Log          logpkg.Config `json:"log" yaml:"log"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		TimestampBits:  id.DefaultTimestampBits,
		NodeBits:       id.DefaultNodeBits,
		OverflowWaitMs: 1,
		Log: logpkg.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Layout builds the ID layout described by cfg.
func (c Config) Layout() (id.Layout, error) {
	return id.NewLayout(c.TimestampBits, c.NodeBits)
}

// Validate reports configuration errors that would otherwise surface when
// the Sequencer is built or, for a timestamp field that is already too
// narrow for the epoch, when it starts issuing IDs.
func (c Config) Validate() error { return c.ValidateAt(time.Now()) }

// ValidateAt is Validate with the clock read at now.
func (c Config) ValidateAt(now time.Time) error {
	layout, err := c.Layout()
	if err != nil {
		return err
	}
	if c.NodeID > layout.MaxNodeID() {
		return &id.ConfigError{Field: "node_id", Value: c.NodeID, Limit: layout.MaxNodeID(), Err: id.ErrNodeIDOutOfRange}
	}
	if c.EpochMs < 0 {
		return fmt.Errorf("config: epochMs must not be negative, got %d", c.EpochMs)
	}
	if c.OverflowWaitMs < 0 {
		return fmt.Errorf("config: overflowWaitMs must not be negative, got %d", c.OverflowWaitMs)
	}
	clock := id.EpochClock{Epoch: time.UnixMilli(c.EpochMs), Now: func() time.Time { return now }}
	ms, err := clock.NowMs()
	if err != nil {
		return fmt.Errorf("config: epochMs %d is in the future: %w", c.EpochMs, err)
	}
	if ms > layout.MaxTimestamp() {
		return &id.ConfigError{Field: "clock_ms", Value: ms, Limit: layout.MaxTimestamp(), Err: id.ErrTimestampExhausted}
	}
	return nil
}

// TimestampEnd is the wall-clock instant after which the timestamp field can
// no longer represent the clock.
func (c Config) TimestampEnd(layout id.Layout) time.Time {
	return time.UnixMilli(c.EpochMs + int64(layout.MaxTimestamp()))
}

// OverflowPolicy maps FullCapacity to the Sequencer policy.
func (c Config) OverflowPolicy() id.OverflowPolicy {
	if c.FullCapacity {
		return id.OverflowFullCapacity
	}
	return id.OverflowHalfCapacity
}

// SequencerOptions translates cfg into Sequencer options. The clock is
// anchored at EpochMs when it is set.
func (c Config) SequencerOptions() []id.Option {
	opts := []id.Option{id.WithOverflowPolicy(c.OverflowPolicy())}
	if c.EpochMs > 0 {
		opts = append(opts, id.WithClock(id.NewEpochClock(c.EpochMs)))
	}
	if c.OverflowWaitMs > 0 {
		opts = append(opts, id.WithOverflowWait(time.Duration(c.OverflowWaitMs)*time.Millisecond))
	}
	return opts
}
