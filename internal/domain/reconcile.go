package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReconcileExercises replaces the workout's exercise list with the given
// templates, in the given order. The order defines the new 1-based position
// sequence.
//
// An existing exercise that references one of the requested templates is kept
// together with all of its sets; only its position is rewritten. Templates
// with no matching exercise get a fresh exercise with metadata snapshotted
// from the template and an empty set list. Existing exercises not named in
// the request are dropped, sets included.
//
// Matching is by exercise-template id, so the caller must reject duplicate
// template ids before calling.
func (w *Workout) ReconcileExercises(templates []ExerciseTemplate) {
	existing := make(map[primitive.ObjectID]*WorkoutExercise, len(w.Exercises))
	for i := range w.Exercises {
		if tid := w.Exercises[i].ExerciseTemplateID; tid != nil {
			existing[*tid] = &w.Exercises[i]
		}
	}

	next := make([]WorkoutExercise, 0, len(templates))
	for i, tpl := range templates {
		if kept, ok := existing[tpl.ID]; ok {
			e := *kept
			e.Position = i + 1
			next = append(next, e)
			continue
		}
		tid := tpl.ID
		next = append(next, WorkoutExercise{
			ID:                 primitive.NewObjectID(),
			ExerciseTemplateID: &tid,
			Name:               tpl.Name,
			ImplementType:      tpl.ImplementType,
			ExerciseType:       tpl.ExerciseType,
			Position:           i + 1,
			Sets:               []WorkoutSet{},
		})
	}
	w.Exercises = next
}

// NewWorkoutFromTemplate builds an in-progress workout seeded from a workout
// template. Exercise metadata is copied from each exercise template at this
// moment; the workout never re-reads the templates afterwards.
func NewWorkoutFromTemplate(ownerID primitive.ObjectID, tpl *WorkoutTemplate, exercises []ExerciseTemplate, startedAt time.Time) *Workout {
	tplID := tpl.ID
	w := &Workout{
		OwnerID:    ownerID,
		TemplateID: &tplID,
		Name:       tpl.Name,
		Status:     StatusInProgress,
		StartedAt:  startedAt,
		Exercises:  make([]WorkoutExercise, 0, len(exercises)),
	}
	if tpl.LocationID != nil {
		lid := *tpl.LocationID
		w.LocationID = &lid
		if tpl.LocationName != nil {
			name := *tpl.LocationName
			w.LocationName = &name
		}
	}
	for i, ex := range exercises {
		tid := ex.ID
		w.Exercises = append(w.Exercises, WorkoutExercise{
			ID:                 primitive.NewObjectID(),
			ExerciseTemplateID: &tid,
			Name:               ex.Name,
			ImplementType:      ex.ImplementType,
			ExerciseType:       ex.ExerciseType,
			Position:           i + 1,
			Sets:               []WorkoutSet{},
		})
	}
	return w
}
