package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang-physiobackend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(code, name string) models.PatientRecord {
	return models.PatientRecord{
		AccessCode:  code,
		PatientName: name,
		CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Exercises:   []models.PrescribedExercise{{Name: "Plank", Sets: 3, Reps: 30}},
		Completed:   map[string]bool{},
		Notes:       map[string]string{},
		History:     map[string][]models.Day{},
		Videos:      map[string][]models.VideoSubmission{},
	}
}

func seed(t *testing.T, doc Document, records ...models.PatientRecord) {
	t.Helper()
	m := make(map[string]models.PatientRecord)
	for _, r := range records {
		m[r.AccessCode] = r
	}
	payload, err := EncodeRecords(m)
	require.NoError(t, err)
	require.NoError(t, doc.Store(context.Background(), payload, -1))
}

func markDone(t *testing.T, rec *models.PatientRecord, exercise, dayStr string) {
	t.Helper()
	d, err := models.ParseDay(dayStr)
	require.NoError(t, err)
	rec.History[exercise] = append(rec.History[exercise], d)
	rec.Completed[exercise] = true
}

// Two overlapping sessions against the plain store: the second save wins at
// collection granularity and silently drops the first session's change.
// This pins the known hazard of the whole-collection contract.
func TestPlainStoreLastWriterWinsLosesEarlierSave(t *testing.T) {
	ctx := context.Background()
	doc := NewMemoryDocument()
	seed(t, doc, record("codeX", "Mario"), record("codeY", "Anna"))

	sessionA := NewPlain(doc)
	sessionB := NewPlain(doc)

	recordsA, err := sessionA.LoadAll(ctx)
	require.NoError(t, err)
	recordsB, err := sessionB.LoadAll(ctx)
	require.NoError(t, err)

	// A marks Mario's Plank done and saves.
	recX := recordsA["codeX"]
	markDone(t, &recX, "Plank", "10/06/2025")
	recordsA["codeX"] = recX
	require.True(t, sessionA.SaveAll(ctx, recordsA))

	// B, loaded before A's save, adds a note for Anna and saves.
	recY := recordsB["codeY"]
	recY.Notes["Plank"] = "ginocchio dolorante"
	recordsB["codeY"] = recY
	require.True(t, sessionB.SaveAll(ctx, recordsB))

	final, err := NewPlain(doc).LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ginocchio dolorante", final["codeY"].Notes["Plank"], "B's note survives")
	assert.Empty(t, final["codeX"].History["Plank"], "A's history entry is lost: last writer wins")
}

// Same interleaving against the versioned store: B's save fails instead of
// overwriting, and a reload-reapply preserves both changes.
func TestVersionedStorePreservesBothWrites(t *testing.T) {
	ctx := context.Background()
	doc := NewMemoryDocument()
	seed(t, doc, record("codeX", "Mario"), record("codeY", "Anna"))

	sessionA := NewVersioned(doc)
	sessionB := NewVersioned(doc)

	recordsA, err := sessionA.LoadAll(ctx)
	require.NoError(t, err)
	recordsB, err := sessionB.LoadAll(ctx)
	require.NoError(t, err)

	recX := recordsA["codeX"]
	markDone(t, &recX, "Plank", "10/06/2025")
	recordsA["codeX"] = recX
	require.True(t, sessionA.SaveAll(ctx, recordsA))

	recY := recordsB["codeY"]
	recY.Notes["Plank"] = "ginocchio dolorante"
	recordsB["codeY"] = recY
	assert.False(t, sessionB.SaveAll(ctx, recordsB), "stale save must fail")

	// B retries the way the session layer does: fresh load, reapply, save.
	recordsB, err = sessionB.LoadAll(ctx)
	require.NoError(t, err)
	recY = recordsB["codeY"]
	recY.Notes["Plank"] = "ginocchio dolorante"
	recordsB["codeY"] = recY
	require.True(t, sessionB.SaveAll(ctx, recordsB))

	final, err := NewVersioned(doc).LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, final["codeX"].History["Plank"], 1, "A's history entry survives")
	assert.Equal(t, "ginocchio dolorante", final["codeY"].Notes["Plank"])
}

func TestVersionedStoreConsecutiveSavesFromSameHandle(t *testing.T) {
	ctx := context.Background()
	doc := NewMemoryDocument()
	seed(t, doc, record("codeX", "Mario"))

	s := NewVersioned(doc)
	records, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveAll(ctx, records))
	require.True(t, s.SaveAll(ctx, records), "the handle tracks the version across its own saves")
}

type brokenDocument struct{ err error }

func (d brokenDocument) Load(context.Context) ([]byte, int64, error) { return nil, 0, d.err }
func (d brokenDocument) Store(context.Context, []byte, int64) error  { return d.err }

// An unreachable store loads as empty, but that empty collection must never
// be saved back: doing so would wipe every patient.
func TestRefusesToSaveAfterFailedLoad(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")

	for _, s := range []RecordStore{NewPlain(brokenDocument{err: down}), NewVersioned(brokenDocument{err: down})} {
		records, err := s.LoadAll(ctx)
		assert.Error(t, err)
		assert.Empty(t, records)
		assert.False(t, s.SaveAll(ctx, records), "save must be refused while connectivity is unconfirmed")
	}
}

func TestSaveRefusedBeforeAnyLoad(t *testing.T) {
	s := NewPlain(NewMemoryDocument())
	assert.False(t, s.SaveAll(context.Background(), map[string]models.PatientRecord{}))
}

func TestFileDocumentPersistsAcrossHandles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pazienti_database.json")

	doc := NewFileDocument(path)
	payload, _, err := doc.Load(ctx)
	require.NoError(t, err, "a missing file reads as empty, not as an error")
	assert.Empty(t, payload)

	seed(t, doc, record("codeX", "Mario"))

	reread, _, err := NewFileDocument(path).Load(ctx)
	require.NoError(t, err)
	records, err := DecodeRecords(reread)
	require.NoError(t, err)
	assert.Equal(t, "Mario", records["codeX"].PatientName)
}

func TestCacheServesStaleReadsUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	doc := NewMemoryDocument()
	seed(t, doc, record("codeX", "Mario"))

	cache := NewCache(PlainFactory(doc), time.Hour)
	first, err := cache.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A write lands behind the cache's back.
	seed(t, doc, record("codeX", "Mario"), record("codeY", "Anna"))

	stale, err := cache.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1, "within the TTL the cache may serve stale state")

	cache.Invalidate()
	fresh, err := cache.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}
