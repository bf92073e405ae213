package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func testRecords() []Record {
	return []Record{
		{FromID: "shelf_a", ToID: "shelf_b", Distance: 4},
		{FromID: "start_0_0", ToID: "shelf_a", Distance: 2},
		{FromID: "shelf_b", ToID: "end_2_2", Distance: -1},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		t.Run(fmt.Sprintf("compress=%v", compress), func(t *testing.T) {
			fs, err := NewFileStore(t.TempDir(), compress)
			if err != nil {
				t.Fatalf("NewFileStore failed: %v", err)
			}

			want := testRecords()
			if err := fs.Save(context.Background(), "warehouse-1", want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := fs.Load(context.Background(), "warehouse-1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("expected %d records, got %d", len(want), len(got))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("record %d: got %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestFileStoreNotFound(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, err = fs.Load(context.Background(), "never-processed")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreOverwrites(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := fs.Save(ctx, "m", testRecords()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	replacement := []Record{{FromID: "x", ToID: "y", Distance: 9}}
	if err := fs.Save(ctx, "m", replacement); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := fs.Load(ctx, "m")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0] != replacement[0] {
		t.Errorf("expected last-write-wins, got %+v", got)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, false)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := fs.Save(context.Background(), "m", testRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
	if got := entries[0].Name(); got != "m.json" {
		t.Errorf("expected m.json, got %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "m.json")); err != nil {
		t.Errorf("persisted file missing: %v", err)
	}
}

func TestFileStoreEmptySetRoundTrip(t *testing.T) {
	// A map with no landmark pairs still persists: loading it back yields
	// an empty set, not ErrNotFound.
	fs, err := NewFileStore(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := fs.Save(ctx, "bare", []Record{}); err != nil {
		t.Fatalf("Save of an empty set failed: %v", err)
	}

	got, err := fs.Load(ctx, "bare")
	if err != nil {
		t.Fatalf("Load of a saved empty set failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected an empty set, got %+v", got)
	}
}

func TestFileStoreRejectsEscapingMapIDs(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(filepath.Join(dir, "data"), false)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	bad := []string{"", ".", "..", "../escape", "a/b", `a\b`, "/etc/passwd"}
	for _, mapID := range bad {
		if err := fs.Save(ctx, mapID, testRecords()); err == nil {
			t.Errorf("Save(%q) must be rejected", mapID)
		}
		if _, err := fs.Load(ctx, mapID); err == nil || IsNotFound(err) {
			t.Errorf("Load(%q) must be rejected outright, got %v", mapID, err)
		}
	}

	// Nothing escaped the (empty) data directory.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "data" {
		t.Errorf("unexpected entries alongside the data dir: %v", entries)
	}
}

func TestSetUnorderedLookup(t *testing.T) {
	set := NewSet(testRecords())

	if d, ok := set.Get("shelf_a", "shelf_b"); !ok || d != 4 {
		t.Errorf("forward lookup: got (%d, %v)", d, ok)
	}
	if d, ok := set.Get("shelf_b", "shelf_a"); !ok || d != 4 {
		t.Errorf("reverse lookup: got (%d, %v)", d, ok)
	}
	if d, ok := set.Get("shelf_b", "end_2_2"); !ok || d != -1 {
		t.Errorf("no-path record must resolve to -1: got (%d, %v)", d, ok)
	}
	if _, ok := set.Get("shelf_a", "end_2_2"); ok {
		t.Error("missing pair must not resolve")
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 records, got %d", set.Len())
	}
}

func TestSaveLoadLookupEquivalence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("loaded set answers every pair like the saved set", prop.ForAll(
		func(n int, seed int64) bool {
			records := make([]Record, n)
			for i := range records {
				records[i] = Record{
					FromID:   fmt.Sprintf("p%d", i),
					ToID:     fmt.Sprintf("p%d", (i*7+int(seed%13)+1)%(n+1)),
					Distance: int(seed%97) + i,
				}
			}

			fs, err := NewFileStore(t.TempDir(), seed%2 == 0)
			if err != nil {
				return false
			}
			ctx := context.Background()
			if err := fs.Save(ctx, "prop", records); err != nil {
				return false
			}
			loaded, err := fs.Load(ctx, "prop")
			if err != nil {
				return false
			}

			before := NewSet(records)
			after := NewSet(loaded)
			for i := 0; i <= n; i++ {
				for j := 0; j <= n; j++ {
					a, b := fmt.Sprintf("p%d", i), fmt.Sprintf("p%d", j)
					d1, ok1 := before.Get(a, b)
					d2, ok2 := after.Get(a, b)
					if ok1 != ok2 || d1 != d2 {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
