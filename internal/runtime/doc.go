// Package runtime wires configuration, the ID layout, a locked Sequencer,
// metrics, logging and the optional ledger into a single uidgen node.
//
// Example:
//
//	cfg := config.Default()
//	cfg.NodeID = 12
//	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
//	if err != nil { /* invalid layout or node id */ }
//	defer rt.Close()
//	v := rt.Next()
//
// With Options.Ledger set, Record generates IDs and appends them to the
// Pebble ledger under Config.DataDir for later verification.
package runtime
