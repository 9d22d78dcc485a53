package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays UIDGEN_* environment variables onto cfg. Unparseable
// values are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("UIDGEN_TIMESTAMP_BITS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.TimestampBits = uint(n)
		}
	}
	if v := os.Getenv("UIDGEN_NODE_BITS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.NodeBits = uint(n)
		}
	}
	if v := os.Getenv("UIDGEN_NODE_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.NodeID = n
		}
	}
	if v := os.Getenv("UIDGEN_EPOCH_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.EpochMs = n
		}
	}
	if v := os.Getenv("UIDGEN_OVERFLOW_WAIT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.OverflowWaitMs = n
		}
	}
	if v := os.Getenv("UIDGEN_FULL_CAPACITY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.FullCapacity = b
		}
	}
	if v := os.Getenv("UIDGEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("UIDGEN_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("UIDGEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("UIDGEN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
}
