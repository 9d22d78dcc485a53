package id

const (
	// UsableBits is the number of bits an ID may occupy. The top bit of the
	// uint64 stays zero so IDs survive a round trip through int64.
	UsableBits = 63
	// MinSequenceBits is the smallest sequence field a Layout accepts.
	MinSequenceBits = 4

	DefaultTimestampBits = 42
	DefaultNodeBits      = 11

	millisecondsPerYear = 1000 * 86400 * 365
)

// Layout partitions the usable bits of an ID into timestamp, node and
// sequence fields. It is immutable and safe to share between goroutines and
// Sequencers. The zero value is not a valid Layout; use NewLayout.
type Layout struct {
	timestampBits  uint
	nodeBits       uint
	timestampShift uint
	nodeShift      uint
}

// Summary holds the capacity figures of a Layout for display.
type Summary struct {
	TimestampBits    uint   `json:"timestampBits"`
	NodeBits         uint   `json:"nodeBits"`
	SequenceBits     uint   `json:"sequenceBits"`
	MaxNodes         uint64 `json:"maxNodes"`
	MaxLoadPerNode   uint64 `json:"maxLoadPerNode"`
	MaxLoadTotal     uint64 `json:"maxLoadTotal"`
	MaxLifetimeYears uint64 `json:"maxLifetimeYears"`
}

// Parts are the decoded fields of an ID.
type Parts struct {
	TimestampMs uint64 `json:"timestampMs"`
	NodeID      uint64 `json:"nodeId"`
	Sequence    uint64 `json:"sequence"`
}

// NewLayout validates the field widths and returns a Layout with its shifts
// precomputed. It fails with ErrFieldsTooWide when
// timestampBits+nodeBits+MinSequenceBits exceeds UsableBits.
func NewLayout(timestampBits, nodeBits uint) (Layout, error) {
	switch {
	case timestampBits > UsableBits:
		return Layout{}, &ConfigError{Field: "timestamp_bits", Value: uint64(timestampBits), Limit: UsableBits, Err: ErrFieldsTooWide}
	case nodeBits > UsableBits:
		return Layout{}, &ConfigError{Field: "node_bits", Value: uint64(nodeBits), Limit: UsableBits, Err: ErrFieldsTooWide}
	case timestampBits+nodeBits+MinSequenceBits > UsableBits:
		return Layout{}, &ConfigError{
			Field: "timestamp_bits+node_bits+min_sequence_bits",
			Value: uint64(timestampBits + nodeBits + MinSequenceBits),
			Limit: UsableBits,
			Err:   ErrFieldsTooWide,
		}
	}
	return Layout{
		timestampBits:  timestampBits,
		nodeBits:       nodeBits,
		timestampShift: UsableBits - timestampBits,
		nodeShift:      UsableBits - (timestampBits + nodeBits),
	}, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout(timestampBits, nodeBits uint) Layout {
	l, err := NewLayout(timestampBits, nodeBits)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultLayout returns the 42/11/10 layout.
func DefaultLayout() Layout { return MustLayout(DefaultTimestampBits, DefaultNodeBits) }

func (l Layout) TimestampBits() uint  { return l.timestampBits }
func (l Layout) NodeBits() uint       { return l.nodeBits }
func (l Layout) SequenceBits() uint   { return l.nodeShift }
func (l Layout) TimestampShift() uint { return l.timestampShift }
func (l Layout) NodeShift() uint      { return l.nodeShift }

// MaxNodeID is the largest node id the layout can address.
func (l Layout) MaxNodeID() uint64 { return mask(l.nodeBits) }

// MaxTimestamp is the last representable millisecond. A Sequencer whose
// clock reads past it pins to it and reports TimestampExhausted.
func (l Layout) MaxTimestamp() uint64 { return mask(l.timestampBits) }

// MaxSequence is the largest value the sequence field can hold.
func (l Layout) MaxSequence() uint64 { return mask(l.nodeShift) }

// Compose packs the three fields into an ID. Each field is truncated to its
// width.
func (l Layout) Compose(ms, nodeID, sequence uint64) uint64 {
	return (ms&mask(l.timestampBits))<<l.timestampShift |
		(nodeID&mask(l.nodeBits))<<l.nodeShift |
		sequence&mask(l.nodeShift)
}

// Decompose splits an ID produced under this layout into its fields.
func (l Layout) Decompose(id uint64) Parts {
	return Parts{
		TimestampMs: (id >> l.timestampShift) & mask(l.timestampBits),
		NodeID:      (id >> l.nodeShift) & mask(l.nodeBits),
		Sequence:    id & mask(l.nodeShift),
	}
}

// Describe reports the capacity of the layout. MaxLoadPerNode is the nominal
// sequence space; see OverflowPolicy for how much of it a Sequencer uses.
func (l Layout) Describe() Summary {
	return Summary{
		TimestampBits:    l.timestampBits,
		NodeBits:         l.nodeBits,
		SequenceBits:     l.nodeShift,
		MaxNodes:         1 << l.nodeBits,
		MaxLoadPerNode:   1 << l.nodeShift,
		MaxLoadTotal:     1 << (l.nodeBits + l.nodeShift),
		MaxLifetimeYears: (1 << l.timestampBits) / millisecondsPerYear,
	}
}

func mask(bits uint) uint64 { return 1<<bits - 1 }
