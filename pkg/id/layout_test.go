package id

import (
	"errors"
	"testing"
)

func TestNewLayoutValidation(t *testing.T) {
	tests := []struct {
		name          string
		timestampBits uint
		nodeBits      uint
		wantErr       bool
	}{
		{name: "default widths", timestampBits: 42, nodeBits: 11},
		{name: "exactly min sequence", timestampBits: 48, nodeBits: 11},
		{name: "too wide", timestampBits: 60, nodeBits: 5, wantErr: true},
		{name: "one over budget", timestampBits: 49, nodeBits: 11, wantErr: true},
		{name: "huge timestamp", timestampBits: ^uint(0), nodeBits: 1, wantErr: true},
		{name: "no node bits", timestampBits: 41, nodeBits: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.timestampBits, tt.nodeBits)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldsTooWide) {
					t.Fatalf("expected ErrFieldsTooWide, got %v", err)
				}
				var ce *ConfigError
				if !errors.As(err, &ce) || ce.Limit != UsableBits {
					t.Fatalf("expected ConfigError with limit %d, got %#v", UsableBits, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultLayoutEqualsExplicit(t *testing.T) {
	l, err := NewLayout(42, 11)
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	if DefaultLayout() != l {
		t.Fatalf("default layout differs from NewLayout(42, 11)")
	}
	if l.TimestampShift() != 21 || l.NodeShift() != 10 || l.SequenceBits() != 10 {
		t.Fatalf("shifts: ts=%d node=%d seq=%d", l.TimestampShift(), l.NodeShift(), l.SequenceBits())
	}
	if l.MaxNodeID() != 2047 {
		t.Fatalf("max node id %d", l.MaxNodeID())
	}
}

func TestNewLayoutReportsOversizedField(t *testing.T) {
	tests := []struct {
		name          string
		timestampBits uint
		nodeBits      uint
		field         string
		value         uint64
	}{
		{name: "timestamp", timestampBits: ^uint(0), nodeBits: 1, field: "timestamp_bits", value: uint64(^uint(0))},
		{name: "node", timestampBits: 1, nodeBits: 64, field: "node_bits", value: 64},
		{name: "sum", timestampBits: 50, nodeBits: 10, field: "timestamp_bits+node_bits+min_sequence_bits", value: 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.timestampBits, tt.nodeBits)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if ce.Field != tt.field || ce.Value != tt.value {
				t.Fatalf("got field=%s value=%d, want field=%s value=%d", ce.Field, ce.Value, tt.field, tt.value)
			}
		})
	}
}

func TestLayoutWidths(t *testing.T) {
	tests := []struct {
		timestampBits uint
		nodeBits      uint
		want          Summary
	}{
		{42, 11, Summary{TimestampBits: 42, NodeBits: 11, SequenceBits: 10, MaxNodes: 2048, MaxLoadPerNode: 1024, MaxLoadTotal: 2097152, MaxLifetimeYears: 139}},
		{41, 10, Summary{TimestampBits: 41, NodeBits: 10, SequenceBits: 12, MaxNodes: 1024, MaxLoadPerNode: 4096, MaxLoadTotal: 4194304, MaxLifetimeYears: 69}},
		{48, 11, Summary{TimestampBits: 48, NodeBits: 11, SequenceBits: 4, MaxNodes: 2048, MaxLoadPerNode: 16, MaxLoadTotal: 32768, MaxLifetimeYears: 8925}},
		{39, 8, Summary{TimestampBits: 39, NodeBits: 8, SequenceBits: 16, MaxNodes: 256, MaxLoadPerNode: 65536, MaxLoadTotal: 16777216, MaxLifetimeYears: 17}},
	}
	for _, tt := range tests {
		l := MustLayout(tt.timestampBits, tt.nodeBits)
		if l.SequenceBits() != UsableBits-tt.timestampBits-tt.nodeBits {
			t.Fatalf("%d/%d: sequence bits %d", tt.timestampBits, tt.nodeBits, l.SequenceBits())
		}
		if l.TimestampShift() != UsableBits-tt.timestampBits || l.NodeShift() != l.SequenceBits() {
			t.Fatalf("%d/%d: shifts ts=%d node=%d", tt.timestampBits, tt.nodeBits, l.TimestampShift(), l.NodeShift())
		}
		if got := l.Describe(); got != tt.want {
			t.Fatalf("%d/%d: describe %+v want %+v", tt.timestampBits, tt.nodeBits, got, tt.want)
		}

		clk := &fakeClock{ms: min(1_700_000_000_123, l.MaxTimestamp())}
		s := MustSequencer(l, l.MaxNodeID(), WithClock(clk))
		for i := uint64(0); i < 3; i++ {
			p := l.Decompose(s.Next())
			if p.TimestampMs != clk.ms || p.NodeID != l.MaxNodeID() || p.Sequence != i {
				t.Fatalf("%d/%d: decompose %+v, clock %d", tt.timestampBits, tt.nodeBits, p, clk.ms)
			}
		}
	}
}

func TestMustLayoutPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = MustLayout(60, 5)
}

func TestDescribeDefault(t *testing.T) {
	s := DefaultLayout().Describe()
	if s.MaxNodes != 2048 {
		t.Fatalf("max nodes %d", s.MaxNodes)
	}
	if s.SequenceBits != 10 {
		t.Fatalf("sequence bits %d", s.SequenceBits)
	}
	if s.MaxLoadPerNode != 1024 {
		t.Fatalf("max load per node %d", s.MaxLoadPerNode)
	}
	if s.MaxLoadTotal != 2097152 {
		t.Fatalf("max load total %d", s.MaxLoadTotal)
	}
	if s.MaxLifetimeYears != 139 {
		t.Fatalf("lifetime %d years", s.MaxLifetimeYears)
	}
}

func TestDescribeCustom(t *testing.T) {
	s := MustLayout(41, 10).Describe()
	if s.MaxNodes != 1024 || s.MaxLoadPerNode != 4096 || s.MaxLifetimeYears != 69 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	l := DefaultLayout()
	cases := []Parts{
		{TimestampMs: 0, NodeID: 0, Sequence: 0},
		{TimestampMs: 1_700_000_000_000, NodeID: 12, Sequence: 7},
		{TimestampMs: l.MaxTimestamp(), NodeID: l.MaxNodeID(), Sequence: l.MaxSequence()},
	}
	for _, p := range cases {
		v := l.Compose(p.TimestampMs, p.NodeID, p.Sequence)
		if v>>UsableBits != 0 {
			t.Fatalf("top bit set for %+v", p)
		}
		if got := l.Decompose(v); got != p {
			t.Fatalf("round trip: got %+v want %+v", got, p)
		}
	}
}
