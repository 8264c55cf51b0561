// Package program assembles new patient records from catalog entries and
// practitioner-chosen overrides.
package program

import (
	"errors"
	"fmt"
	"time"

	"golang-physiobackend/catalog"
	"golang-physiobackend/models"
)

var (
	ErrNoName         = errors.New("program: patient name is required")
	ErrNoExercises    = errors.New("program: select at least one exercise")
	ErrSetsOutOfRange = errors.New("program: sets must be between 1 and 10")
	ErrRepsOutOfRange = errors.New("program: reps must be between 1 and 30")
)

// Pick pairs a catalog entry with the sets/reps the therapist chose.
// Zero values fall back to the entry's defaults.
type Pick struct {
	Entry catalog.Entry
	Sets  int
	Reps  int
}

// Build creates a new patient record. Catalog fields are copied by value so
// the issued program never changes when the catalog does. The access code is
// left empty; issuing it is the session's job, because uniqueness is checked
// against live store contents.
func Build(patientName, visitReason string, picks []Pick, now time.Time) (models.PatientRecord, error) {
	if patientName == "" {
		return models.PatientRecord{}, ErrNoName
	}
	if len(picks) == 0 {
		return models.PatientRecord{}, ErrNoExercises
	}

	exercises := make([]models.PrescribedExercise, 0, len(picks))
	for _, p := range picks {
		sets := p.Sets
		if sets == 0 {
			sets = p.Entry.DefaultSets
		}
		reps := p.Reps
		if reps == 0 {
			reps = p.Entry.DefaultReps
		}
		if sets < 1 || sets > 10 {
			return models.PatientRecord{}, fmt.Errorf("%w: %q", ErrSetsOutOfRange, p.Entry.Name)
		}
		if reps < 1 || reps > 30 {
			return models.PatientRecord{}, fmt.Errorf("%w: %q", ErrRepsOutOfRange, p.Entry.Name)
		}
		exercises = append(exercises, models.PrescribedExercise{
			Name:        p.Entry.Name,
			Description: p.Entry.Description,
			DemoLink:    p.Entry.DemoLink,
			Difficulty:  p.Entry.Difficulty,
			Region:      p.Entry.Region,
			Sets:        sets,
			Reps:        reps,
		})
	}

	return models.PatientRecord{
		PatientName: patientName,
		VisitReason: visitReason,
		CreatedAt:   now,
		Exercises:   exercises,
		Completed:   make(map[string]bool),
		Notes:       make(map[string]string),
		History:     make(map[string][]models.Day),
		Videos:      make(map[string][]models.VideoSubmission),
	}, nil
}

// FromTemplate turns a template into picks against the current catalog.
// Items whose exercise no longer exists in the catalog are returned in
// missing rather than silently dropped.
func FromTemplate(t models.Template, loader *catalog.Loader) (picks []Pick, missing []string) {
	for _, item := range t.Items {
		entry, ok := loader.Find(item.ExerciseName)
		if !ok {
			missing = append(missing, item.ExerciseName)
			continue
		}
		picks = append(picks, Pick{Entry: entry, Sets: item.Sets, Reps: item.Reps})
	}
	return picks, missing
}
