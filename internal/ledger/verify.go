package ledger

import (
	"context"
	"fmt"

	"github.com/rzbill/uidgen/pkg/id"
)

// Report summarizes a Verify scan.
type Report struct {
	Count      uint64   `json:"count"`
	First      uint64   `json:"first"`
	Last       uint64   `json:"last"`
	Violations []string `json:"violations,omitempty"`
}

// OK reports whether the scan found no violations.
func (r Report) OK() bool { return len(r.Violations) == 0 }

const (
	verifyPage    = 4096
	maxViolations = 100
)

// Verify scans every entry and checks that each carries this ledger's node
// id under layout and that the count and last id match the metadata. Entry
// keys sort by id, so the scan itself visits ids in increasing order;
// ordering is enforced when entries are appended.
func (l *Ledger) Verify(ctx context.Context, layout id.Layout) (Report, error) {
	var (
		rep   Report
		prev  uint64
		after uint64
	)
	violate := func(format string, args ...interface{}) {
		if len(rep.Violations) < maxViolations {
			rep.Violations = append(rep.Violations, fmt.Sprintf(format, args...))
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		entries, next, err := l.Read(ReadOptions{After: after, Limit: verifyPage})
		if err != nil {
			return rep, err
		}
		for _, e := range entries {
			if rep.Count == 0 {
				rep.First = e.ID
			}
			if node := layout.Decompose(e.ID).NodeID; node != l.node {
				violate("id %d carries node %d, want %d", e.ID, node, l.node)
			}
			prev = e.ID
			rep.Count++
		}
		if next == 0 {
			break
		}
		after = next
	}
	rep.Last = prev

	last, count := l.Last()
	if count != rep.Count {
		violate("metadata count %d, scanned %d", count, rep.Count)
	}
	if last != rep.Last {
		violate("metadata last id %d, scanned %d", last, rep.Last)
	}
	return rep, nil
}
