// Package progress holds the pure mutation and derivation logic for a
// patient record. Nothing here touches storage; the caller owns the
// load-mutate-save sequence.
package progress

import "golang-physiobackend/models"

// MarkDoneToday stamps today into the exercise's history, at most once per
// calendar day, and sets the legacy completion flag. The returned bool says
// whether a new history entry was added; even when it is false the record
// must still be persisted, because the flag may have changed.
func MarkDoneToday(rec *models.PatientRecord, exercise string, today models.Day) bool {
	if rec.Completed == nil {
		rec.Completed = make(map[string]bool)
	}
	if rec.History == nil {
		rec.History = make(map[string][]models.Day)
	}
	rec.Completed[exercise] = true
	for _, d := range rec.History[exercise] {
		if d == today {
			return false
		}
	}
	rec.History[exercise] = append(rec.History[exercise], today)
	return true
}

// UndoToday removes today's stamp from the exercise's history if present.
// The legacy completion flag is deliberately left set: that is how the
// system has always behaved, and displays built on the flag rely on it
// staying sticky. Whether undo should also clear the flag is an open
// decision; changing it here would silently change observable stats.
func UndoToday(rec *models.PatientRecord, exercise string, today models.Day) bool {
	days := rec.History[exercise]
	for i, d := range days {
		if d == today {
			rec.History[exercise] = append(days[:i], days[i+1:]...)
			return true
		}
	}
	return false
}

// SetNote replaces the patient's note for the exercise, last write wins.
func SetNote(rec *models.PatientRecord, exercise, text string) {
	if rec.Notes == nil {
		rec.Notes = make(map[string]string)
	}
	rec.Notes[exercise] = text
}

// AddVideoSubmission appends to the exercise's submission list. Existing
// entries are never reordered or removed by an add.
func AddVideoSubmission(rec *models.PatientRecord, exercise string, sub models.VideoSubmission) {
	if rec.Videos == nil {
		rec.Videos = make(map[string][]models.VideoSubmission)
	}
	rec.Videos[exercise] = append(rec.Videos[exercise], sub)
}

// RemoveVideoSubmission removes the submission at index and returns it so
// the caller can request deletion of the backing blob.
func RemoveVideoSubmission(rec *models.PatientRecord, exercise string, index int) (models.VideoSubmission, bool) {
	subs := rec.Videos[exercise]
	if index < 0 || index >= len(subs) {
		return models.VideoSubmission{}, false
	}
	removed := subs[index]
	rec.Videos[exercise] = append(subs[:index], subs[index+1:]...)
	return removed, true
}

// SetTherapistFeedback replaces the feedback text on one submission,
// last write wins.
func SetTherapistFeedback(rec *models.PatientRecord, exercise string, index int, text string) bool {
	subs := rec.Videos[exercise]
	if index < 0 || index >= len(subs) {
		return false
	}
	subs[index].TherapistFeedback = text
	return true
}
