// Package inventory implements the counting repository: an ordered list of
// storage locations and a newest-first log of count records, both persisted
// as JSON blobs through a key-value store.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/inventura/internal/kv"
	"github.com/erazemk/inventura/internal/model"
)

// Sentinel errors for the user-facing failure modes. Callers match them
// with errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrDuplicate  = errors.New("already exists")
)

// Blob keys for the two persisted collections.
const (
	locationsKey = "inventory_locations"
	recordsKey   = "inventory_items"
)

// Store owns the location and record collections and is the sole writer of
// their persisted state. Every mutation rewrites the affected blob in full
// before the new state becomes visible, so a failed persist leaves the
// in-memory collections unchanged.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	locations []string
	records   []model.Record
	nextID    int64

	now func() time.Time
}

// New loads both collections from the key-value store. Missing blobs are
// treated as empty collections (first run).
func New(ctx context.Context, store kv.Store) (*Store, error) {
	s := &Store{
		kv:     store,
		nextID: 1,
		now:    time.Now,
	}

	if err := loadBlob(ctx, store, locationsKey, &s.locations); err != nil {
		return nil, fmt.Errorf("loading locations: %w", err)
	}
	if err := loadBlob(ctx, store, recordsKey, &s.records); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	for _, r := range s.records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}

	return s, nil
}

func loadBlob(ctx context.Context, store kv.Store, key string, target any) error {
	blob, ok, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(blob), target); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(blob)); err != nil {
		return fmt.Errorf("persisting %q: %w", key, err)
	}
	return nil
}

// Locations returns the location collection in insertion order.
func (s *Store) Locations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.locations))
	copy(out, s.locations)
	return out
}

// HasLocation reports whether a location with the given name exists.
func (s *Store) HasLocation(name string) bool {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.locations {
		if l == name {
			return true
		}
	}
	return false
}

// AddLocation appends a new location. The name is trimmed; empty names fail
// with ErrValidation and names equal to an existing location fail with
// ErrDuplicate.
func (s *Store) AddLocation(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("location name: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.locations {
		if l == name {
			return fmt.Errorf("location %q: %w", name, ErrDuplicate)
		}
	}

	updated := append(append([]string{}, s.locations...), name)
	if err := s.persist(ctx, locationsKey, updated); err != nil {
		return err
	}
	s.locations = updated
	return nil
}

// DeleteLocation removes all locations equal to name. Deleting an absent
// name is a no-op. Records referencing the location are left untouched.
func (s *Store) DeleteLocation(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]string, 0, len(s.locations))
	for _, l := range s.locations {
		if l != name {
			updated = append(updated, l)
		}
	}
	if len(updated) == len(s.locations) {
		return nil
	}

	if err := s.persist(ctx, locationsKey, updated); err != nil {
		return err
	}
	s.locations = updated
	return nil
}

// AddItem creates a new record with a fresh id and the current time and
// prepends it to the record collection (newest first). The code must be
// non-empty and the quantity at least 1; the location is stored as given
// and is not checked against the location collection.
func (s *Store) AddItem(ctx context.Context, code, location string, quantity int) (*model.Record, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("code: %w", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := model.Record{
		ID:        s.nextID,
		Code:      code,
		Location:  location,
		Quantity:  quantity,
		CreatedAt: s.now(),
	}

	updated := append([]model.Record{record}, s.records...)
	if err := s.persist(ctx, recordsKey, updated); err != nil {
		return nil, err
	}
	s.records = updated
	s.nextID++
	return &record, nil
}

// DeleteItem removes the record with the given id. Deleting an absent id is
// a no-op.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			updated = append(updated, r)
		}
	}
	if len(updated) == len(s.records) {
		return nil
	}

	if err := s.persist(ctx, recordsKey, updated); err != nil {
		return err
	}
	s.records = updated
	return nil
}

// Items returns the record collection newest first. A non-empty location
// restricts the result to records counted at that location.
func (s *Store) Items(location string) []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if location == "" || r.Location == location {
			out = append(out, r)
		}
	}
	return out
}
