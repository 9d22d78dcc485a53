package ledger

import (
	"context"
	"errors"
	"testing"

	pebblestore "github.com/rzbill/uidgen/internal/storage/pebble"
	"github.com/rzbill/uidgen/pkg/id"
)

func openTestDB(t *testing.T, dir string) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

// idsFor returns n consecutive ids starting at ms, moving to the next
// millisecond whenever the sequence field is full.
func idsFor(layout id.Layout, node uint64, ms uint64, n int) []uint64 {
	per := layout.MaxSequence() + 1
	out := make([]uint64, n)
	for i := range out {
		out[i] = layout.Compose(ms+uint64(i)/per, node, uint64(i)%per)
	}
	return out
}

func TestAppendAndRead(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	l, err := Open(db, 12)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	layout := id.DefaultLayout()
	ids := idsFor(layout, 12, 1000, 10)
	if err := l.Append(context.Background(), ids); err != nil {
		t.Fatalf("append: %v", err)
	}

	page, next, err := l.Read(ReadOptions{Limit: 4})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(page) != 4 || page[0].ID != ids[0] || next != ids[3] {
		t.Fatalf("first page %v next %d", page, next)
	}
	if page[0].RecordedMs == 0 {
		t.Fatalf("expected recorded time")
	}
	rest, next, err := l.Read(ReadOptions{After: next})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rest) != 6 || rest[0].ID != ids[4] || next != 0 {
		t.Fatalf("rest %v next %d", rest, next)
	}
}

func TestAppendRejectsDuplicatesAndDisorder(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	l, _ := Open(db, 1)
	layout := id.DefaultLayout()
	ids := idsFor(layout, 1, 2000, 5)
	ctx := context.Background()
	if err := l.Append(ctx, ids); err != nil {
		t.Fatalf("append: %v", err)
	}

	err := l.Append(ctx, []uint64{ids[2]})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	err = l.Append(ctx, []uint64{layout.Compose(1999, 1, 0)})
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
	next := layout.Compose(2001, 1, 0)
	err = l.Append(ctx, []uint64{next, next})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected in-batch duplicate, got %v", err)
	}

	// rejected batches leave no trace
	last, count := l.Last()
	if last != ids[4] || count != 5 {
		t.Fatalf("last %d count %d", last, count)
	}
	if ok, _ := db.Has(KeyEntry(1, next)); ok {
		t.Fatalf("rejected id was written")
	}
}

func TestMetaSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	layout := id.DefaultLayout()
	ids := idsFor(layout, 3, 5000, 3)

	db := openTestDB(t, dir)
	l, _ := Open(db, 3)
	if err := l.Append(context.Background(), ids); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db = openTestDB(t, dir)
	defer db.Close()
	l, err := Open(db, 3)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if last, count := l.Last(); last != ids[2] || count != 3 {
		t.Fatalf("after reopen last %d count %d", last, count)
	}
	if err := l.Append(context.Background(), []uint64{ids[0]}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate after reopen, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	layout := id.DefaultLayout()
	ctx := context.Background()

	l, _ := Open(db, 7)
	if err := l.Append(ctx, idsFor(layout, 7, 100, 5000)); err != nil {
		t.Fatalf("append: %v", err)
	}
	rep, err := l.Verify(ctx, layout)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !rep.OK() || rep.Count != 5000 {
		t.Fatalf("report %+v", rep)
	}
	if want := layout.Compose(104, 7, 4999%1024); rep.Last != want {
		t.Fatalf("last %d want %d", rep.Last, want)
	}

	// ids from another node recorded under node 8's keyspace
	other, _ := Open(db, 8)
	if err := other.Append(ctx, idsFor(layout, 9, 100, 2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	rep, err = other.Verify(ctx, layout)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rep.OK() || len(rep.Violations) != 2 {
		t.Fatalf("expected node violations, got %+v", rep)
	}
}

func TestIDsForStaysInsideSequenceField(t *testing.T) {
	layout := id.DefaultLayout()
	ids := idsFor(layout, 7, 100, 3000)
	for i, v := range ids {
		p := layout.Decompose(v)
		if p.Sequence > layout.MaxSequence() || p.NodeID != 7 {
			t.Fatalf("id %d: %+v", i, p)
		}
		if i > 0 && v <= ids[i-1] {
			t.Fatalf("id %d not increasing", i)
		}
	}
}

func TestVerifyDetectsStaleMetadata(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	layout := id.DefaultLayout()
	ctx := context.Background()

	l, _ := Open(db, 4)
	ids := idsFor(layout, 4, 100, 3)
	if err := l.Append(ctx, ids); err != nil {
		t.Fatalf("append: %v", err)
	}
	// an entry written behind the ledger's back
	b := db.NewBatch()
	var stamp [8]byte
	if err := b.Set(KeyEntry(4, layout.Compose(200, 4, 0)), stamp[:], nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.CommitBatch(ctx, b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()

	rep, err := l.Verify(ctx, layout)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rep.OK() || len(rep.Violations) != 2 {
		t.Fatalf("expected count and last-id violations, got %+v", rep)
	}
}

func TestKeysSortByID(t *testing.T) {
	a, b := KeyEntry(1, 255), KeyEntry(1, 256)
	if string(a) >= string(b) {
		t.Fatalf("entry keys must sort by id")
	}
	if v, ok := entryID(b); !ok || v != 256 {
		t.Fatalf("entryID %d %v", v, ok)
	}
	if string(KeyMeta(1)) == string(KeyMeta(2)) {
		t.Fatalf("meta keys must differ per node")
	}
}
