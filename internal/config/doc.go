// Package config provides loading and environment overlay for uidgen
// configuration: the ID layout, this node's identity, the epoch, and the
// overflow policy of the Sequencer.
//
// Example:
//
//	cfg := config.Default()
//	// Optionally load from file and overlay env vars
//	if fileCfg, err := config.Load("/etc/uidgen.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	layout, err := cfg.Layout()
//	if err != nil { /* fields too wide */ }
//	seq, err := id.NewSequencer(layout, cfg.NodeID, cfg.SequencerOptions()...)
package config
