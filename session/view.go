package session

import (
	"context"
	"log"
	"sort"
	"time"

	"golang-physiobackend/models"
	"golang-physiobackend/progress"
)

// Summary is one dashboard row for the therapist's patient list.
type Summary struct {
	AccessCode     string    `json:"access_code"`
	PatientName    string    `json:"patient_name"`
	VisitReason    string    `json:"visit_reason"`
	CreatedAt      time.Time `json:"created_at"`
	TotalExercises int       `json:"total_exercises"`
	Completed      int       `json:"completed"`
	CompletionRate int       `json:"completion_rate"`
	Streak         int       `json:"streak"`
}

// Summaries lists every patient with their headline numbers, newest first.
func (s *Session) Summaries(ctx context.Context) ([]Summary, error) {
	records, err := s.cache.LoadAll(ctx)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	today := s.today()
	out := make([]Summary, 0, len(records))
	for _, rec := range records {
		completed := 0
		for _, ex := range rec.Exercises {
			if rec.Completed[ex.Name] {
				completed++
			}
		}
		out = append(out, Summary{
			AccessCode:     rec.AccessCode,
			PatientName:    rec.PatientName,
			VisitReason:    rec.VisitReason,
			CreatedAt:      rec.CreatedAt,
			TotalExercises: len(rec.Exercises),
			Completed:      completed,
			CompletionRate: progress.CompletionRate(&rec),
			Streak:         progress.Streak(&rec, today),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ExerciseView is one exercise as the patient page shows it.
type ExerciseView struct {
	Exercise       models.PrescribedExercise `json:"exercise"`
	Done           bool                      `json:"done"`
	DoneToday      bool                      `json:"done_today"`
	TimesPerformed int                       `json:"times_performed"`
	Note           string                    `json:"note"`
	Videos         []VideoView               `json:"videos"`
}

// VideoView carries a submission plus its freshly presigned URL. The URL is
// re-derived on every view because it expires.
type VideoView struct {
	Submission models.VideoSubmission `json:"submission"`
	URL        string                 `json:"url,omitempty"`
}

// RecordView is the full patient page payload.
type RecordView struct {
	AccessCode     string         `json:"access_code"`
	PatientName    string         `json:"patient_name"`
	VisitReason    string         `json:"visit_reason"`
	CreatedAt      time.Time      `json:"created_at"`
	Exercises      []ExerciseView `json:"exercises"`
	CompletionRate int            `json:"completion_rate"`
	Streak         int            `json:"streak"`
}

// View resolves a code and assembles the patient page, deriving stats and
// presigning each video URL.
func (s *Session) View(ctx context.Context, code string) (RecordView, error) {
	rec, err := s.Resolve(ctx, code)
	if err != nil {
		return RecordView{}, err
	}
	today := s.today()
	view := RecordView{
		AccessCode:     rec.AccessCode,
		PatientName:    rec.PatientName,
		VisitReason:    rec.VisitReason,
		CreatedAt:      rec.CreatedAt,
		CompletionRate: progress.CompletionRate(&rec),
		Streak:         progress.Streak(&rec, today),
	}
	for _, ex := range rec.Exercises {
		ev := ExerciseView{
			Exercise:       ex,
			Done:           rec.Completed[ex.Name],
			TimesPerformed: progress.TimesPerformed(&rec, ex.Name),
			Note:           rec.Notes[ex.Name],
		}
		for _, d := range rec.History[ex.Name] {
			if d == today {
				ev.DoneToday = true
				break
			}
		}
		for _, sub := range rec.Videos[ex.Name] {
			vv := VideoView{Submission: sub}
			if url, err := s.blobs.DownloadURL(sub.StorageKey); err == nil {
				vv.URL = url
			} else {
				log.Printf("session: presign failed for %s: %v", sub.StorageKey, err)
			}
			ev.Videos = append(ev.Videos, vv)
		}
		view.Exercises = append(view.Exercises, ev)
	}
	return view, nil
}

// Stats is the aggregate view for the therapist's charts.
type Stats struct {
	CompletionRate int                `json:"completion_rate"`
	Streak         int                `json:"streak"`
	PerDay         map[models.Day]int `json:"per_day"`
	InactivityDays int                `json:"inactivity_days"`
	NeverStarted   bool               `json:"never_started"`
}

func (s *Session) Stats(ctx context.Context, code string) (Stats, error) {
	rec, err := s.Resolve(ctx, code)
	if err != nil {
		return Stats{}, err
	}
	today := s.today()
	inactive, started := progress.InactivityDays(&rec, today)
	return Stats{
		CompletionRate: progress.CompletionRate(&rec),
		Streak:         progress.Streak(&rec, today),
		PerDay:         progress.PerDayActivityCounts(&rec),
		InactivityDays: inactive,
		NeverStarted:   !started,
	}, nil
}
