package models

import (
	"sort"
	"time"
)

// PrescribedExercise is one row of a patient's program. Catalog fields are
// copied by value at assignment time so later catalog edits never change an
// already issued program. The JSON keys match the historical sheet columns.
type PrescribedExercise struct {
	Name        string `json:"nome" validate:"required"`
	Description string `json:"descrizione"`
	DemoLink    string `json:"link_video"`
	Difficulty  string `json:"difficoltà"`
	Region      string `json:"distretto"`
	Sets        int    `json:"serie" validate:"required,min=1,max=10"`
	Reps        int    `json:"ripetizioni" validate:"required,min=1,max=30"`
}

// VideoSubmission is a proof-of-execution video uploaded by the patient for
// one exercise. StorageKey points at an external blob; the retrieval URL is
// presigned per view and never stored.
type VideoSubmission struct {
	OriginalFilename  string    `json:"original_filename"`
	UploadedAt        time.Time `json:"uploaded_at"`
	PatientComment    string    `json:"patient_comment"`
	TherapistFeedback string    `json:"therapist_feedback"`
	StorageKey        string    `json:"storage_key"`
	SizeMB            float64   `json:"size_mb"`
	WrappedKey        string    `json:"wrapped_key,omitempty"`
}

// PatientRecord is everything the practice keeps about one issued program:
// the prescription itself plus all patient-submitted state. The maps are
// keyed by exercise name. Keys left behind by a removed or renamed exercise
// are tolerated, not purged.
//
// Completed is the legacy binary done-flag and History the dated completion
// log; History is the source of truth for streaks and activity stats, the
// flag survives only for backward display compatibility.
type PatientRecord struct {
	AccessCode  string
	PatientName string
	VisitReason string
	CreatedAt   time.Time
	Exercises   []PrescribedExercise
	Completed   map[string]bool
	Notes       map[string]string
	History     map[string][]Day
	Videos      map[string][]VideoSubmission
}

// IsPrescribed reports whether name is one of the record's exercises.
func (r *PatientRecord) IsPrescribed(name string) bool {
	for _, ex := range r.Exercises {
		if ex.Name == name {
			return true
		}
	}
	return false
}

// AllHistoryDays returns the distinct calendar days on which any exercise
// was marked done, in ascending order.
func (r *PatientRecord) AllHistoryDays() []Day {
	seen := make(map[Day]bool)
	for _, days := range r.History {
		for _, d := range days {
			seen[d] = true
		}
	}
	out := make([]Day, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
