// Package session owns every load-mutate-save sequence against the patient
// record store. Each operation reloads the collection immediately before
// mutating and saves immediately after, with no user-interaction time in
// between. That narrows the lost-update window of the whole-collection
// store; it does not close it. The versioned store closes it: its saves
// fail when another writer got there first, and this package retries the
// whole sequence once on a fresh load.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang-physiobackend/helpers"
	"golang-physiobackend/models"
	"golang-physiobackend/notify"
	"golang-physiobackend/progress"
	"golang-physiobackend/store"
)

var (
	ErrNotFound         = errors.New("session: invalid code")
	ErrNotPrescribed    = errors.New("session: exercise is not part of this program")
	ErrNoSuchSubmission = errors.New("session: no video submission at that position")
	ErrStoreUnavailable = errors.New("session: patient store unavailable")
	ErrSaveFailed       = errors.New("session: changes were not saved, please retry")
)

// BlobStore is the external video storage the record store's submissions
// point into.
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	DownloadURL(key string) (string, error)
}

type Session struct {
	newStore store.Factory
	cache    *store.Cache
	blobs    BlobStore
	notifier notify.Notifier
	now      func() time.Time
}

func New(newStore store.Factory, cache *store.Cache, blobs BlobStore, notifier notify.Notifier) *Session {
	return &Session{
		newStore: newStore,
		cache:    cache,
		blobs:    blobs,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Session) today() models.Day {
	return models.NewDay(s.now())
}

// mutate runs one critical section: fresh load, apply, immediate save. A
// failed save is retried once from a fresh load (the versioned store fails
// saves that lost a race; reapplying on fresh state preserves both writes).
func (s *Session) mutate(ctx context.Context, code string, apply func(*models.PatientRecord) error) (models.PatientRecord, error) {
	for attempt := 0; attempt < 2; attempt++ {
		st := s.newStore()
		records, err := st.LoadAll(ctx)
		if err != nil {
			return models.PatientRecord{}, ErrStoreUnavailable
		}
		rec, ok := records[code]
		if !ok {
			return models.PatientRecord{}, ErrNotFound
		}
		if err := apply(&rec); err != nil {
			return models.PatientRecord{}, err
		}
		records[code] = rec
		if st.SaveAll(ctx, records) {
			if s.cache != nil {
				s.cache.Invalidate()
			}
			return rec, nil
		}
	}
	return models.PatientRecord{}, ErrSaveFailed
}

// CreatePatient issues an access code unique against the live collection
// and persists the new record.
func (s *Session) CreatePatient(ctx context.Context, rec models.PatientRecord) (models.PatientRecord, error) {
	for attempt := 0; attempt < 2; attempt++ {
		st := s.newStore()
		records, err := st.LoadAll(ctx)
		if err != nil {
			return models.PatientRecord{}, ErrStoreUnavailable
		}
		rec.AccessCode = helpers.UniqueAccessCode(rec.PatientName, s.now(), records)
		records[rec.AccessCode] = rec
		if st.SaveAll(ctx, records) {
			if s.cache != nil {
				s.cache.Invalidate()
			}
			s.notifier.PatientCreated(rec.PatientName, rec.AccessCode)
			return rec, nil
		}
	}
	return models.PatientRecord{}, ErrSaveFailed
}

// Resolve maps an access code to its record. ErrNotFound covers unknown,
// malformed and deleted codes alike; nothing distinguishes them outward.
// Reads go through the short-lived cache, so a just-saved change from
// another session may take a few seconds to appear.
func (s *Session) Resolve(ctx context.Context, code string) (models.PatientRecord, error) {
	records, err := s.cache.LoadAll(ctx)
	if err != nil {
		return models.PatientRecord{}, ErrStoreUnavailable
	}
	rec, ok := records[code]
	if !ok {
		return models.PatientRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *Session) MarkDone(ctx context.Context, code, exercise string) (models.PatientRecord, error) {
	return s.mutate(ctx, code, func(rec *models.PatientRecord) error {
		if !rec.IsPrescribed(exercise) {
			return ErrNotPrescribed
		}
		progress.MarkDoneToday(rec, exercise, s.today())
		return nil
	})
}

func (s *Session) Undo(ctx context.Context, code, exercise string) (models.PatientRecord, error) {
	return s.mutate(ctx, code, func(rec *models.PatientRecord) error {
		if !rec.IsPrescribed(exercise) {
			return ErrNotPrescribed
		}
		progress.UndoToday(rec, exercise, s.today())
		return nil
	})
}

func (s *Session) SaveNote(ctx context.Context, code, exercise, text string) (models.PatientRecord, error) {
	return s.mutate(ctx, code, func(rec *models.PatientRecord) error {
		if !rec.IsPrescribed(exercise) {
			return ErrNotPrescribed
		}
		progress.SetNote(rec, exercise, text)
		return nil
	})
}

func (s *Session) SaveFeedback(ctx context.Context, code, exercise string, index int, text string) (models.PatientRecord, error) {
	return s.mutate(ctx, code, func(rec *models.PatientRecord) error {
		if !progress.SetTherapistFeedback(rec, exercise, index, text) {
			return ErrNoSuchSubmission
		}
		return nil
	})
}

// AttachVideo uploads the blob first, outside the critical section, then
// appends the submission. If the record mutation cannot be persisted the
// uploaded blob is deleted again, best effort.
func (s *Session) AttachVideo(ctx context.Context, code, exercise string, sub models.VideoSubmission, body io.Reader) (models.PatientRecord, error) {
	ext := strings.TrimPrefix(filepath.Ext(sub.OriginalFilename), ".")
	if ext == "" {
		ext = "mp4"
	}
	sub.StorageKey = helpers.VideoKey(code, exercise, s.now(), ext)
	sub.UploadedAt = s.now()

	if err := s.blobs.Upload(ctx, sub.StorageKey, body); err != nil {
		return models.PatientRecord{}, fmt.Errorf("session: video upload failed: %w", err)
	}

	rec, err := s.mutate(ctx, code, func(rec *models.PatientRecord) error {
		if !rec.IsPrescribed(exercise) {
			return ErrNotPrescribed
		}
		progress.AddVideoSubmission(rec, exercise, sub)
		return nil
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, sub.StorageKey); delErr != nil {
			log.Printf("session: could not clean up orphaned blob %s: %v", sub.StorageKey, delErr)
		}
		return models.PatientRecord{}, err
	}

	s.notifier.VideoSubmitted(rec.PatientName, exercise, sub.OriginalFilename)
	return rec, nil
}

// RemoveVideo drops the submission and requests deletion of its blob. Blob
// deletion is best effort: a storage failure is logged, never surfaced as a
// failure of the removal itself.
func (s *Session) RemoveVideo(ctx context.Context, code, exercise string, index int) (models.PatientRecord, error) {
	var removed models.VideoSubmission
	rec, err := s.mutate(ctx, code, func(rec *models.PatientRecord) error {
		sub, ok := progress.RemoveVideoSubmission(rec, exercise, index)
		if !ok {
			return ErrNoSuchSubmission
		}
		removed = sub
		return nil
	})
	if err != nil {
		return models.PatientRecord{}, err
	}
	s.deleteBlob(ctx, removed.StorageKey)
	return rec, nil
}

// DeletePatient removes the record and requests deletion of every blob it
// referenced, best effort.
func (s *Session) DeletePatient(ctx context.Context, code string) error {
	var blobs []string
	for attempt := 0; attempt < 2; attempt++ {
		st := s.newStore()
		records, err := st.LoadAll(ctx)
		if err != nil {
			return ErrStoreUnavailable
		}
		rec, ok := records[code]
		if !ok {
			return ErrNotFound
		}
		blobs = blobs[:0]
		for _, subs := range rec.Videos {
			for _, sub := range subs {
				blobs = append(blobs, sub.StorageKey)
			}
		}
		delete(records, code)
		if st.SaveAll(ctx, records) {
			if s.cache != nil {
				s.cache.Invalidate()
			}
			for _, key := range blobs {
				s.deleteBlob(ctx, key)
			}
			return nil
		}
	}
	return ErrSaveFailed
}

func (s *Session) deleteBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("session: blob delete failed for %s (will orphan): %v", key, err)
	}
}
