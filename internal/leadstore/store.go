// Package leadstore persists scored leads as a single newest-first JSON
// collection in a key-value store.
//
// Every operation is a full read-modify-write of the collection. A Store is
// not safe against concurrent writers; the last writer wins. Callers that
// share a Store across goroutines must serialize calls themselves.
package leadstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jonathan/lead-intel/internal/kv"
	"github.com/jonathan/lead-intel/internal/types"
)

// CollectionKey is the key holding the lead collection.
const CollectionKey = "orioex_leads"

// StoreError wraps a failure to persist the collection.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("leadstore %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Options configures a Store. Zero values select the defaults.
type Options struct {
	// Now returns the save timestamp. Defaults to time.Now in UTC.
	Now func() time.Time
	// NewID generates record ids. Defaults to monotonic ULIDs.
	NewID func(t time.Time) string
}

// Store is the lead collection over a kv.Store.
type Store struct {
	kv    kv.Store
	now   func() time.Time
	newID func(t time.Time) string
}

// New creates a Store backed by store.
func New(store kv.Store, opts Options) *Store {
	s := &Store{kv: store, now: opts.Now, newID: opts.NewID}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = newULIDGenerator(rand.Reader)
	}
	return s
}

// newULIDGenerator returns a goroutine-safe ULID generator with monotonic
// entropy, so ids created within the same millisecond still sort and differ.
func newULIDGenerator(r io.Reader) func(time.Time) string {
	var mu sync.Mutex
	entropy := ulid.Monotonic(r, 0)
	return func(t time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Timestamp(t), entropy).String()
	}
}

// GetLeads returns the stored collection, newest first.
// An absent, unreadable or corrupt collection yields an empty slice, and
// individual records that cannot be decoded are skipped.
func (s *Store) GetLeads(ctx context.Context) []types.PersistedLead {
	records, err := s.load(ctx)
	if err != nil {
		log.Printf("[leadstore] Failed to load leads: %v", err)
		return []types.PersistedLead{}
	}

	leads := make([]types.PersistedLead, 0, len(records))
	for i, rec := range records {
		var lead types.PersistedLead
		if err := json.Unmarshal(rec, &lead); err != nil {
			log.Printf("[leadstore] Skipping unreadable lead at index %d: %v", i, err)
			continue
		}
		leads = append(leads, lead)
	}
	return leads
}

// load reads the raw records of the collection. Unlike GetLeads it reports
// read and decode failures, so the write paths never replace a collection
// they could not read.
func (s *Store) load(ctx context.Context) ([]json.RawMessage, error) {
	raw, ok, err := s.kv.Read(ctx, CollectionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read leads: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return records, nil
}

// SaveLead merges data and result into a new record, prepends it to the
// collection and writes the collection back. Existing records are carried
// over undecoded, so fields this package does not model survive.
func (s *Store) SaveLead(ctx context.Context, data types.LeadFormData, result types.LeadScoreResult) (types.PersistedLead, error) {
	existing, err := s.load(ctx)
	if err != nil {
		return types.PersistedLead{}, &StoreError{Op: "save", Cause: err}
	}

	now := s.now()
	lead := types.NewPersistedLead(s.newID(now), now, data, result)
	encoded, err := json.Marshal(lead)
	if err != nil {
		return types.PersistedLead{}, &StoreError{Op: "save", Cause: fmt.Errorf("failed to encode lead: %w", err)}
	}

	records := make([]json.RawMessage, 0, len(existing)+1)
	records = append(records, encoded)
	records = append(records, existing...)

	if err := s.write(ctx, "save", records); err != nil {
		return types.PersistedLead{}, err
	}
	return lead, nil
}

// DeleteLead removes the record with the given id. An unknown id leaves the
// collection unchanged and is not an error.
func (s *Store) DeleteLead(ctx context.Context, id string) error {
	existing, err := s.load(ctx)
	if err != nil {
		return &StoreError{Op: "delete", Cause: err}
	}

	kept := make([]json.RawMessage, 0, len(existing))
	for _, rec := range existing {
		var ref struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec, &ref); err == nil && ref.ID == id {
			continue
		}
		kept = append(kept, rec)
	}
	return s.write(ctx, "delete", kept)
}

// ClearLeads removes the whole collection.
func (s *Store) ClearLeads(ctx context.Context) error {
	if err := s.kv.Remove(ctx, CollectionKey); err != nil {
		return &StoreError{Op: "clear", Cause: err}
	}
	return nil
}

// GetLead looks up a single record by id.
func (s *Store) GetLead(ctx context.Context, id string) (types.PersistedLead, bool) {
	for _, lead := range s.GetLeads(ctx) {
		if lead.ID == id {
			return lead, true
		}
	}
	return types.PersistedLead{}, false
}

// FilterByPriority returns the leads with the given priority, newest first.
// An empty priority returns every lead.
func (s *Store) FilterByPriority(ctx context.Context, priority types.Priority) []types.PersistedLead {
	leads := s.GetLeads(ctx)
	if priority == "" {
		return leads
	}
	filtered := make([]types.PersistedLead, 0, len(leads))
	for _, lead := range leads {
		if lead.Priority == priority {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}

func (s *Store) write(ctx context.Context, op string, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &StoreError{Op: op, Cause: fmt.Errorf("failed to encode leads: %w", err)}
	}
	if err := s.kv.Write(ctx, CollectionKey, string(data)); err != nil {
		return &StoreError{Op: op, Cause: err}
	}
	return nil
}
