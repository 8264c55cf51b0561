package models

// TemplateItem names a catalog exercise with suggested sets and reps.
type TemplateItem struct {
	ExerciseName string `json:"nome"`
	Sets         int    `json:"serie"`
	Reps         int    `json:"ripetizioni"`
}

// Template is a named preset used to pre-fill a new patient program.
type Template struct {
	Name  string         `json:"name"`
	Items []TemplateItem `json:"items"`
}
