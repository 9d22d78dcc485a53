// Package id provides a Snowflake-style, 63-bit identifier generator.
//
// # Format
//
// An ID is a uint64 whose top bit is always zero. The remaining 63 bits are
// split by a Layout into three fields, most significant first:
//
//	+--------+----------------+-----------+-------------+
//	| 1 bit  | timestamp (ms) |  node id  |  sequence   |
//	+--------+----------------+-----------+-------------+
//
// The default Layout uses 42 timestamp bits, 11 node bits and the remaining
// 10 sequence bits: 2048 nodes, 1024 IDs per node per millisecond (2097152
// across all nodes) and roughly 139 years of timestamp space from the epoch.
// The sequence always takes what is left: 63 - timestampBits - nodeBits.
//
// # Monotonicity
//
// A Sequencer issues strictly increasing IDs for one node:
//   - Calls within the same millisecond increment the sequence.
//   - If the clock regresses, the Sequencer pins to the last seen millisecond
//     and keeps incrementing the sequence.
//   - When the sequence reaches its overflow threshold the Sequencer sleeps
//     until the clock moves past the last seen millisecond and restarts the
//     sequence at zero.
//   - Once the clock reads past Layout.MaxTimestamp the Sequencer pins to the
//     last representable millisecond. When that millisecond's sequence is
//     used up too, Next panics with ErrTimestampExhausted; pick a later epoch
//     or a wider timestamp field before that happens.
//
// A Sequencer has a single owner. It holds no lock; wrap it in Locked (or
// confine it to one goroutine) before sharing it.
//
// Usage
//
//	layout := id.DefaultLayout()
//	seq, err := id.NewSequencer(layout, 12)
//	if err != nil { /* configuration error */ }
//	v := seq.Next()
//	parts := layout.Decompose(v)
//	s, _ := id.Encode(v, id.FormatBase58)
package id
