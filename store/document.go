package store

import (
	"context"
	"errors"
	"os"
	"sync"
)

// ErrStale is returned by a check-and-swap write when the stored version no
// longer matches the one the caller loaded.
var ErrStale = errors.New("store: document changed since last load")

// Document is the single writable blob behind a record store. The whole
// patient collection lives in one document; there is no finer write
// primitive. Load returns the current payload and its version. Store writes
// the payload: with expected >= 0 it succeeds only while the stored version
// still equals expected (ErrStale otherwise), with expected < 0 it
// overwrites unconditionally.
type Document interface {
	Load(ctx context.Context) (payload []byte, version int64, err error)
	Store(ctx context.Context, payload []byte, expected int64) error
}

// MemoryDocument is an in-process Document, used by tests and as the
// reference for the version semantics.
type MemoryDocument struct {
	mu      sync.Mutex
	payload []byte
	version int64
}

func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{}
}

func (d *MemoryDocument) Load(ctx context.Context) ([]byte, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, len(d.payload))
	copy(out, d.payload)
	return out, d.version, nil
}

func (d *MemoryDocument) Store(ctx context.Context, payload []byte, expected int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if expected >= 0 && expected != d.version {
		return ErrStale
	}
	d.payload = make([]byte, len(payload))
	copy(d.payload, payload)
	d.version++
	return nil
}

// FileDocument keeps the collection in a single JSON file on disk, the way
// the practice originally ran. The version is a write counter kept in a
// sidecar-free way: it only lives for the lifetime of the process, which is
// enough for the versioned store's single-process use of this backend.
type FileDocument struct {
	mu      sync.Mutex
	path    string
	version int64
}

func NewFileDocument(path string) *FileDocument {
	return &FileDocument{path: path}
}

func (d *FileDocument) Load(ctx context.Context) ([]byte, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	payload, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, d.version, nil
		}
		return nil, d.version, err
	}
	return payload, d.version, nil
}

func (d *FileDocument) Store(ctx context.Context, payload []byte, expected int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if expected >= 0 && expected != d.version {
		return ErrStale
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return err
	}
	d.version++
	return nil
}
