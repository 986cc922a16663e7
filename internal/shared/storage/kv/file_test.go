package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("dashboard_cache", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok := store.Get("dashboard_cache")
	if !ok {
		t.Fatalf("expected value after set")
	}
	if string(val) != `{"a":1}` {
		t.Fatalf("unexpected value: %s", val)
	}
}

func TestFileStoreMissingKeyReportsAbsent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := store.Get("nope"); ok {
		t.Fatalf("expected absent value")
	}
}

func TestFileStoreSetReplacesWholeValue(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("k", []byte("a much longer first value")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set("k", []byte("short")); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok := store.Get("k")
	if !ok || string(val) != "short" {
		t.Fatalf("expected replaced value, got %q ok=%v", val, ok)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestFileStoreRemoveIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Remove("k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove("k"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected value gone")
	}
}

func TestFileStoreRejectsPathTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"../evil", "a/b", `a\b`, ""} {
		if err := store.Set(key, []byte("v")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
