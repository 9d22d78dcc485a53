// Package ledger records issued IDs in Pebble so that uniqueness and
// ordering can be audited after the fact.
//
// # Overview
//
// Each node has its own keyspace. Keys are lexicographically ordered so a
// range scan walks IDs in numeric order:
//   - node/{node_be8}/m             (metadata: last appended id, count)
//   - node/{node_be8}/i/{id_be8}    (entries; value is the wall-clock ms at append)
//
// Append rejects an ID that is already present (ErrDuplicateID) or not
// greater than the last one appended (ErrOutOfOrder); a rejected batch
// leaves the ledger untouched. Verify rescans the whole keyspace and checks
// every entry against a Layout.
//
// The ledger is an audit trail. The Sequencer never reads it back, so it
// does not carry generator state across restarts.
//
//	l, _ := ledger.Open(db, 12)
//	_ = l.Append(ctx, ids)
//	entries, next := l.Read(ledger.ReadOptions{Limit: 100})
//	report, _ := l.Verify(ctx, id.DefaultLayout())
package ledger
