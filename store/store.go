package store

import (
	"context"
	"log"
	"sync"
	"time"

	"golang-physiobackend/models"
)

// RecordStore is the persistence contract for patient records: whole
// collection in, whole collection out. There is deliberately no per-record
// update primitive, matching the sheet-backed original.
//
// LoadAll returns an empty map on failure together with the error, so a
// caller can tell "store unreachable" from "genuinely empty" and refuse to
// write. SaveAll reports success; it never panics into the caller.
//
// A handle is meant to serve one user interaction: load, mutate one record,
// save, discard. Create a fresh handle per interaction (see the factories
// below).
type RecordStore interface {
	LoadAll(ctx context.Context) (map[string]models.PatientRecord, error)
	SaveAll(ctx context.Context, records map[string]models.PatientRecord) bool
}

// Plain is the historical whole-collection store: the last writer wins at
// the granularity of the entire collection. Two overlapping sessions that
// each save will silently drop the earlier save's changes to every other
// patient. Reloading immediately before a mutation narrows that window but
// does not close it; Versioned is the upgrade that does.
type Plain struct {
	doc       Document
	mu        sync.Mutex
	confirmed bool
}

func NewPlain(doc Document) *Plain {
	return &Plain{doc: doc}
}

func (s *Plain) LoadAll(ctx context.Context) (map[string]models.PatientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, _, err := s.doc.Load(ctx)
	if err != nil {
		s.confirmed = false
		log.Printf("store: load failed: %v", err)
		return map[string]models.PatientRecord{}, err
	}
	records, err := DecodeRecords(payload)
	if err != nil {
		s.confirmed = false
		log.Printf("store: collection payload unreadable: %v", err)
		return map[string]models.PatientRecord{}, err
	}
	s.confirmed = true
	return records, nil
}

func (s *Plain) SaveAll(ctx context.Context, records map[string]models.PatientRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.confirmed {
		// Writing an unconfirmed (possibly empty-because-unreachable)
		// collection would wipe every patient.
		log.Print("store: refusing to save, last load was not confirmed")
		return false
	}
	payload, err := EncodeRecords(records)
	if err != nil {
		log.Printf("store: encode failed: %v", err)
		return false
	}
	if err := s.doc.Store(ctx, payload, -1); err != nil {
		log.Printf("store: save failed: %v", err)
		return false
	}
	return true
}

// Versioned adds optimistic concurrency on top of the same Document: SaveAll
// is a check-and-swap against the version seen by this handle's last
// LoadAll, so an overlapping writer makes the save fail instead of being
// silently overwritten. Callers reload and reapply on failure.
type Versioned struct {
	doc       Document
	mu        sync.Mutex
	version   int64
	confirmed bool
}

func NewVersioned(doc Document) *Versioned {
	return &Versioned{doc: doc}
}

func (s *Versioned) LoadAll(ctx context.Context) (map[string]models.PatientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, version, err := s.doc.Load(ctx)
	if err != nil {
		s.confirmed = false
		log.Printf("store: load failed: %v", err)
		return map[string]models.PatientRecord{}, err
	}
	records, err := DecodeRecords(payload)
	if err != nil {
		s.confirmed = false
		log.Printf("store: collection payload unreadable: %v", err)
		return map[string]models.PatientRecord{}, err
	}
	s.version = version
	s.confirmed = true
	return records, nil
}

func (s *Versioned) SaveAll(ctx context.Context, records map[string]models.PatientRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.confirmed {
		log.Print("store: refusing to save, last load was not confirmed")
		return false
	}
	payload, err := EncodeRecords(records)
	if err != nil {
		log.Printf("store: encode failed: %v", err)
		return false
	}
	if err := s.doc.Store(ctx, payload, s.version); err != nil {
		log.Printf("store: save failed: %v", err)
		return false
	}
	s.version++
	return true
}

// Factory builds a fresh store handle for one user interaction.
type Factory func() RecordStore

func PlainFactory(doc Document) Factory {
	return func() RecordStore { return NewPlain(doc) }
}

func VersionedFactory(doc Document) Factory {
	return func() RecordStore { return NewVersioned(doc) }
}

// DefaultCacheTTL bounds how stale a read-only view may be. Mutation paths
// never read through the cache.
const DefaultCacheTTL = 30 * time.Second

// Cache is a short-lived read cache in front of a store factory, for the
// dashboard and patient views that only display state.
type Cache struct {
	newStore Factory
	ttl      time.Duration

	mu       sync.Mutex
	records  map[string]models.PatientRecord
	err      error
	loadedAt time.Time
}

func NewCache(newStore Factory, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{newStore: newStore, ttl: ttl}
}

func (c *Cache) LoadAll(ctx context.Context) (map[string]models.PatientRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records != nil && time.Since(c.loadedAt) < c.ttl {
		return c.records, c.err
	}
	c.records, c.err = c.newStore().LoadAll(ctx)
	c.loadedAt = time.Now()
	return c.records, c.err
}

// Invalidate drops the cached view, called after every successful save.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}
