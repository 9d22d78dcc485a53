package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	pebblestore "github.com/rzbill/uidgen/internal/storage/pebble"
)

var (
	// ErrDuplicateID is returned when an appended id is already recorded.
	ErrDuplicateID = errors.New("ledger: duplicate id")
	// ErrOutOfOrder is returned when an appended id is not greater than the
	// last recorded one.
	ErrOutOfOrder = errors.New("ledger: id out of order")
)

// Ledger is the append-only record of IDs issued by one node. It is safe
// for concurrent use.
type Ledger struct {
	db   *pebblestore.DB
	node uint64
	now  func() time.Time

	mu     sync.Mutex
	lastID uint64
	count  uint64
}

// Open initializes a Ledger for node and loads its metadata (if any).
func Open(db *pebblestore.DB, node uint64) (*Ledger, error) {
	l := &Ledger{db: db, node: node, now: time.Now}
	meta, err := db.Get(KeyMeta(node))
	switch {
	case err == nil && len(meta) >= 16:
		l.lastID = binary.BigEndian.Uint64(meta[:8])
		l.count = binary.BigEndian.Uint64(meta[8:16])
	case err == nil, errors.Is(err, pebblestore.ErrNotFound):
	default:
		return nil, fmt.Errorf("ledger: load meta: %w", err)
	}
	return l, nil
}

func (l *Ledger) Node() uint64 { return l.node }

// Last returns the last appended id and the number of recorded ids.
func (l *Ledger) Last() (id, count uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastID, l.count
}

// Append records ids as a single atomic batch. ids must be strictly
// increasing and greater than every id already recorded.
func (l *Ledger) Append(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	var stamp [8]byte
	binary.BigEndian.PutUint64(stamp[:], uint64(l.now().UnixMilli()))

	last, count := l.lastID, l.count
	for _, v := range ids {
		key := KeyEntry(l.node, v)
		if count > 0 && v <= last {
			dup := v == last
			if !dup {
				var err error
				if dup, err = l.db.Has(key); err != nil {
					return err
				}
			}
			if dup {
				return fmt.Errorf("%w: %d", ErrDuplicateID, v)
			}
			return fmt.Errorf("%w: %d after %d", ErrOutOfOrder, v, last)
		}
		if err := b.Set(key, stamp[:], nil); err != nil {
			return err
		}
		last = v
		count++
	}

	var meta [16]byte
	binary.BigEndian.PutUint64(meta[:8], last)
	binary.BigEndian.PutUint64(meta[8:], count)
	if err := b.Set(KeyMeta(l.node), meta[:], nil); err != nil {
		return err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	l.lastID, l.count = last, count
	return nil
}
