package ledger

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
)

// ReadOptions bounds a Read. After is exclusive; zero starts at the first
// entry.
type ReadOptions struct {
	After uint64
	Limit int
}

// Entry is one recorded id.
type Entry struct {
	ID         uint64
	RecordedMs uint64
}

// Read returns up to Limit entries with ids greater than opts.After, in id
// order, and the id to pass as After to continue. next is zero when the scan
// reached the end.
func (l *Ledger) Read(opts ReadOptions) (entries []Entry, next uint64, err error) {
	low := KeyEntry(l.node, 0)
	if opts.After > 0 {
		low = KeyEntry(l.node, opts.After+1)
	}
	hi := append(KeyEntry(l.node, ^uint64(0)), 0x00)

	it, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return nil, 0, err
	}
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		if opts.Limit > 0 && len(entries) == opts.Limit {
			return entries, entries[len(entries)-1].ID, nil
		}
		v, ok := entryID(it.Key())
		if !ok {
			continue
		}
		e := Entry{ID: v}
		if val := it.Value(); len(val) >= 8 {
			e.RecordedMs = binary.BigEndian.Uint64(val[:8])
		}
		entries = append(entries, e)
	}
	return entries, 0, it.Error()
}
