package main

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	store, err := openStore(path)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetOrCreatePageIDIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	id1, err := store.getOrCreatePageID("Canada")
	if err != nil {
		t.Fatalf("getOrCreatePageID: %v", err)
	}
	id2, err := store.getOrCreatePageID("Canada")
	if err != nil {
		t.Fatalf("getOrCreatePageID: %v", err)
	}
	if id1 != id2 {
		t.Errorf("expected repeated lookups of the same title to return the same id, got %d and %d", id1, id2)
	}

	other, err := store.getOrCreatePageID("Mexico")
	if err != nil {
		t.Fatalf("getOrCreatePageID: %v", err)
	}
	if other == id1 {
		t.Error("expected distinct titles to get distinct ids")
	}
}

func TestWriteShardResultAndCatalogLookups(t *testing.T) {
	store := newTestStore(t)

	result := newShardResult()
	result.pendingLinks["Canada"] = map[string]struct{}{"Mexico": {}, "United States": {}}
	result.pendingLinks["Mexico"] = map[string]struct{}{}
	result.pendingRedirects["USA"] = "United States"

	if err := store.writeShardResult(result); err != nil {
		t.Fatalf("writeShardResult: %v", err)
	}
	if err := store.buildIndexes(); err != nil {
		t.Fatalf("buildIndexes: %v", err)
	}

	exists, err := store.pageExists("Canada")
	if err != nil || !exists {
		t.Fatalf("expected Canada to exist, got exists=%v err=%v", exists, err)
	}

	exists, err = store.pageExists("United States")
	if err != nil || exists {
		t.Fatalf("United States was never parsed as a page, expected pageExists to be false, got %v err=%v", exists, err)
	}

	target, ok, err := store.redirectOf("USA")
	if err != nil || !ok || target != "United States" {
		t.Fatalf("expected USA to redirect to United States, got target=%q ok=%v err=%v", target, ok, err)
	}

	id, ok, err := store.pageID("Canada")
	if err != nil || !ok {
		t.Fatalf("pageID(Canada): ok=%v err=%v", ok, err)
	}
	links, err := store.outLinks(id)
	if err != nil {
		t.Fatalf("outLinks: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 out-links for Canada, got %d (%v)", len(links), links)
	}
}

func TestSeedLanguageCodesRoundTrips(t *testing.T) {
	store := newTestStore(t)

	seeded := map[string]string{"la": "Latin", "grc": "Ancient Greek"}
	if err := store.seedLanguageCodes(seeded); err != nil {
		t.Fatalf("seedLanguageCodes: %v", err)
	}

	got, err := store.languageCodes()
	if err != nil {
		t.Fatalf("languageCodes: %v", err)
	}
	if len(got) != len(seeded) {
		t.Fatalf("expected %d language codes, got %d", len(seeded), len(got))
	}
	for code, name := range seeded {
		if got[code] != name {
			t.Errorf("expected code %q to map to %q, got %q", code, name, got[code])
		}
	}
}
