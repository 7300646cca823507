package catalogtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/storageid"
)

// CatalogFactory creates a fresh Catalog for each test.
type CatalogFactory func(t *testing.T) catalog.Catalog

// RunConformanceSuite runs the catalog contract tests against factory.
// Each subtest gets a fresh catalog.
func RunConformanceSuite(t *testing.T, factory CatalogFactory) {
	t.Helper()

	t.Run("RegisterAllocatesDistinctIDs", func(t *testing.T) {
		testRegisterAllocatesDistinctIDs(t, factory(t))
	})
	t.Run("RegisterIsIdempotent", func(t *testing.T) {
		testRegisterIsIdempotent(t, factory(t))
	})
	t.Run("RegisterRejectsEmptyID", func(t *testing.T) {
		testRegisterRejectsEmptyID(t, factory(t))
	})
	t.Run("RoundTrip", func(t *testing.T) {
		testRoundTrip(t, factory(t))
	})
	t.Run("LongIDsAreHashed", func(t *testing.T) {
		testLongIDsAreHashed(t, factory(t))
	})
	t.Run("UnknownIDs", func(t *testing.T) {
		testUnknownIDs(t, factory(t))
	})
	t.Run("Remove", func(t *testing.T) {
		testRemove(t, factory(t))
	})
	t.Run("ListOrderedByNumericID", func(t *testing.T) {
		testList(t, factory(t))
	})
	t.Run("ConcurrentRegister", func(t *testing.T) {
		testConcurrentRegister(t, factory(t))
	})
}

func mustRegister(t *testing.T, c catalog.Catalog, storageID string) int64 {
	t.Helper()
	id, err := c.Register(context.Background(), storageID)
	if err != nil {
		t.Fatalf("Register(%q) failed: %v", storageID, err)
	}
	return id
}

func testRegisterAllocatesDistinctIDs(t *testing.T, c catalog.Catalog) {
	a := mustRegister(t, c, "local::/srv/a/")
	b := mustRegister(t, c, "local::/srv/b/")

	if a == b {
		t.Errorf("Expected distinct numeric ids, both were %d", a)
	}
	if a <= 0 || b <= 0 {
		t.Errorf("Expected positive numeric ids, got %d and %d", a, b)
	}
}

func testRegisterIsIdempotent(t *testing.T, c catalog.Catalog) {
	first := mustRegister(t, c, "amazon::photos")
	second := mustRegister(t, c, "amazon::photos")

	if first != second {
		t.Errorf("Expected Register to return the existing id %d, got %d", first, second)
	}
}

func testRegisterRejectsEmptyID(t *testing.T, c catalog.Catalog) {
	_, err := c.Register(context.Background(), "")
	if !errors.Is(err, catalog.ErrInvalidStorageID) {
		t.Errorf("Expected ErrInvalidStorageID, got %v", err)
	}
}

func testRoundTrip(t *testing.T, c catalog.Catalog) {
	ctx := context.Background()
	id := mustRegister(t, c, "local::/home/alice/")

	storageID, err := c.StorageID(ctx, id)
	if err != nil {
		t.Fatalf("StorageID(%d) failed: %v", id, err)
	}
	if storageID != "local::/home/alice/" {
		t.Errorf("Expected storage id %q, got %q", "local::/home/alice/", storageID)
	}

	numericID, err := c.NumericID(ctx, "local::/home/alice/")
	if err != nil {
		t.Fatalf("NumericID failed: %v", err)
	}
	if numericID != id {
		t.Errorf("Expected numeric id %d, got %d", id, numericID)
	}
}

func testLongIDsAreHashed(t *testing.T, c catalog.Catalog) {
	ctx := context.Background()
	raw := "amazon::" + strings.Repeat("very-long-bucket-name-", 5)
	id := mustRegister(t, c, raw)

	storageID, err := c.StorageID(ctx, id)
	if err != nil {
		t.Fatalf("StorageID(%d) failed: %v", id, err)
	}
	if storageID != storageid.Shorten(raw) {
		t.Errorf("Expected hashed storage id %q, got %q", storageid.Shorten(raw), storageID)
	}

	// Both the raw and the hashed form resolve to the same entry.
	for _, lookup := range []string{raw, storageid.Shorten(raw)} {
		got, err := c.NumericID(ctx, lookup)
		if err != nil {
			t.Fatalf("NumericID(%q) failed: %v", lookup, err)
		}
		if got != id {
			t.Errorf("NumericID(%q) = %d, want %d", lookup, got, id)
		}
	}
}

func testUnknownIDs(t *testing.T, c catalog.Catalog) {
	ctx := context.Background()

	if _, err := c.StorageID(ctx, 4242); !errors.Is(err, catalog.ErrStorageNotFound) {
		t.Errorf("StorageID(unknown): expected ErrStorageNotFound, got %v", err)
	}
	if _, err := c.NumericID(ctx, "local::/nowhere/"); !errors.Is(err, catalog.ErrStorageNotFound) {
		t.Errorf("NumericID(unknown): expected ErrStorageNotFound, got %v", err)
	}
}

func testRemove(t *testing.T, c catalog.Catalog) {
	ctx := context.Background()
	id := mustRegister(t, c, "local::/tmp/")

	if err := c.Remove(ctx, "local::/tmp/"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := c.StorageID(ctx, id); !errors.Is(err, catalog.ErrStorageNotFound) {
		t.Errorf("Expected removed id to be unknown, got %v", err)
	}
	if err := c.Remove(ctx, "local::/tmp/"); !errors.Is(err, catalog.ErrStorageNotFound) {
		t.Errorf("Expected second Remove to return ErrStorageNotFound, got %v", err)
	}
}

func testList(t *testing.T, c catalog.Catalog) {
	ids := []string{"local::/c/", "local::/a/", "local::/b/"}
	for _, id := range ids {
		mustRegister(t, c, id)
	}

	entries, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != len(ids) {
		t.Fatalf("Expected %d entries, got %d", len(ids), len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].NumericID >= entries[i].NumericID {
			t.Errorf("Entries not ordered by numeric id: %+v", entries)
		}
	}
	for i, e := range entries {
		if e.StorageID != ids[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, ids[i], e.StorageID)
		}
	}
}

func testConcurrentRegister(t *testing.T, c catalog.Catalog) {
	const workers = 8

	var wg sync.WaitGroup
	results := make([]int64, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Register(context.Background(), "local::/shared/")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: Register failed: %v", i, err)
		}
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Errorf("Concurrent Register returned different ids: %v", results)
			break
		}
	}

	entries, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one entry, got %s", fmt.Sprint(entries))
	}
}
