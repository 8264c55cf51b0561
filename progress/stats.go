package progress

import "golang-physiobackend/models"

// CompletionRate is the integer percentage of prescribed exercises whose
// legacy completion flag is set. 0 when nothing is prescribed.
func CompletionRate(rec *models.PatientRecord) int {
	total := len(rec.Exercises)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, ex := range rec.Exercises {
		if rec.Completed[ex.Name] {
			completed++
		}
	}
	return completed * 100 / total
}

// TimesPerformed counts the history entries for one exercise.
func TimesPerformed(rec *models.PatientRecord, exercise string) int {
	return len(rec.History[exercise])
}

// Streak is the number of consecutive calendar days, counted backward from
// the most recent activity, on which at least one exercise was marked done.
// A streak only counts while it is alive: if the last activity is more than
// one day before today the streak is 0.
func Streak(rec *models.PatientRecord, today models.Day) int {
	days := rec.AllHistoryDays()
	if len(days) == 0 {
		return 0
	}
	latest := days[len(days)-1]
	if latest.DaysUntil(today) > 1 {
		return 0
	}
	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i].DaysUntil(days[i+1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// PerDayActivityCounts maps each calendar day to the number of exercises
// with a history entry on that day, for the activity chart.
func PerDayActivityCounts(rec *models.PatientRecord) map[models.Day]int {
	counts := make(map[models.Day]int)
	for _, days := range rec.History {
		for _, d := range days {
			counts[d]++
		}
	}
	return counts
}

// InactivityDays is the number of days between the most recent activity and
// asOf. ok is false when the patient has never marked anything done, which
// is "never started", not day zero.
func InactivityDays(rec *models.PatientRecord, asOf models.Day) (int, bool) {
	days := rec.AllHistoryDays()
	if len(days) == 0 {
		return 0, false
	}
	return days[len(days)-1].DaysUntil(asOf), true
}
