// Package log provides uidgen's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by the standard library's
// slog through a bridge handler that feeds records into our own
// formatter/outputs pipeline, so output looks the same whether a record
// came from the facade or from a plain slog.Logger.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("sequencer"), log.Uint64("node_id", 12))
//	l.Info("sequencer ready", log.Int("sequence_bits", 12))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config: level,
// text or JSON formatting, and an output of stdout, stderr or none. Keys can
// be redacted and repeated messages sampled.
//
// # Interop
//
// RedirectStdLog routes the standard library logger (used by Pebble) into a
// Logger, and Slog returns a *slog.Logger sharing the same pipeline.
package log
