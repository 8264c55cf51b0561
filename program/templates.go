package program

import "golang-physiobackend/models"

// BuiltinTemplates are the practice's standard presets. They reference
// catalog exercises by name; FromTemplate reports any that the current
// catalog no longer carries.
func BuiltinTemplates() []models.Template {
	return []models.Template{
		{
			Name: "Lombalgia base",
			Items: []models.TemplateItem{
				{ExerciseName: "Plank", Sets: 3, Reps: 30},
				{ExerciseName: "Ponte glutei", Sets: 3, Reps: 12},
				{ExerciseName: "Bird dog", Sets: 3, Reps: 10},
				{ExerciseName: "Stretching lombare", Sets: 2, Reps: 10},
			},
		},
		{
			Name: "Spalla post-chirurgica",
			Items: []models.TemplateItem{
				{ExerciseName: "Pendolo di Codman", Sets: 3, Reps: 15},
				{ExerciseName: "Extrarotazioni con elastico", Sets: 3, Reps: 12},
				{ExerciseName: "Scapole retrazione", Sets: 3, Reps: 10},
			},
		},
		{
			Name: "Ginocchio rinforzo",
			Items: []models.TemplateItem{
				{ExerciseName: "Squat", Sets: 3, Reps: 12},
				{ExerciseName: "Affondi", Sets: 3, Reps: 10},
				{ExerciseName: "Ponte glutei", Sets: 3, Reps: 12},
			},
		},
	}
}

// FindTemplate looks a builtin template up by name.
func FindTemplate(name string) (models.Template, bool) {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			return t, true
		}
	}
	return models.Template{}, false
}
