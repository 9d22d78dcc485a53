// Package pebblestore provides a thin wrapper around Pebble with an fsync
// policy, batches, iterators and a metrics hook. It backs the ID ledger.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data/ledger",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
//
//	v, err := db.Get([]byte("k"))
//	if errors.Is(err, pebblestore.ErrNotFound) { /* absent */ }
package pebblestore
