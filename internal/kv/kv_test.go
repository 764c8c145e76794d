package kv

import (
	"context"
	"testing"

	"github.com/erazemk/inventura/internal/db"
)

func TestSQLiteGetMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	store := NewSQLite(database)

	_, ok, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected missing key to report ok=false")
	}
}

func TestSQLiteSetOverwrites(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	store := NewSQLite(database)

	if err := store.Set(ctx, "k", "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "k", "second"); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}

	value, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if value != "second" {
		t.Errorf("expected %q, got %q", "second", value)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, _ := store.Get(ctx, "k")
	if !ok || value != "v" {
		t.Errorf("expected (v, true), got (%q, %v)", value, ok)
	}

	if _, ok, _ := store.Get(ctx, "other"); ok {
		t.Error("expected missing key to report ok=false")
	}
}
