package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
)

func exerciseTemplate(name string) domain.ExerciseTemplate {
	return domain.ExerciseTemplate{
		ID:            primitive.NewObjectID(),
		Name:          name,
		ImplementType: "barbell",
		ExerciseType:  "weight_reps",
	}
}

func TestReconcileExercises(t *testing.T) {
	squat := exerciseTemplate("Squat")
	bench := exerciseTemplate("Bench Press")
	row := exerciseTemplate("Row")

	w := domain.Workout{Status: domain.StatusInProgress}
	w.ReconcileExercises([]domain.ExerciseTemplate{squat, bench})
	require.Len(t, w.Exercises, 2)

	// Log sets against the squat, then rename its template: the workout
	// keeps the snapshot taken at attach time.
	w.Exercises[0].Sets = []domain.WorkoutSet{setAt(1), setAt(2), setAt(3)}
	squatExerciseID := w.Exercises[0].ID
	squat.Name = "Back Squat"

	t.Run("matched exercise keeps identity and sets", func(t *testing.T) {
		w := w
		w.ReconcileExercises([]domain.ExerciseTemplate{row, squat})

		require.Len(t, w.Exercises, 2)
		assert.Equal(t, "Row", w.Exercises[0].Name)
		assert.Equal(t, 1, w.Exercises[0].Position)
		assert.Empty(t, w.Exercises[0].Sets)

		kept := w.Exercises[1]
		assert.Equal(t, squatExerciseID, kept.ID)
		assert.Equal(t, "Squat", kept.Name) // snapshot, not the renamed template
		assert.Equal(t, 2, kept.Position)
		assert.Len(t, kept.Sets, 3)
	})

	t.Run("unmatched exercise is dropped with its sets", func(t *testing.T) {
		w := w
		w.ReconcileExercises([]domain.ExerciseTemplate{bench})

		require.Len(t, w.Exercises, 1)
		assert.Equal(t, "Bench Press", w.Exercises[0].Name)
		assert.Equal(t, 1, w.Exercises[0].Position)
	})

	t.Run("reordering only rewrites positions", func(t *testing.T) {
		w := w
		before := []primitive.ObjectID{w.Exercises[0].ID, w.Exercises[1].ID}
		w.ReconcileExercises([]domain.ExerciseTemplate{bench, squat})

		require.Len(t, w.Exercises, 2)
		assert.Equal(t, before[1], w.Exercises[0].ID)
		assert.Equal(t, before[0], w.Exercises[1].ID)
		assert.Equal(t, 1, w.Exercises[0].Position)
		assert.Equal(t, 2, w.Exercises[1].Position)
	})
}

func TestNewWorkoutFromTemplate(t *testing.T) {
	ownerID := primitive.NewObjectID()
	squat := exerciseTemplate("Squat")
	bench := exerciseTemplate("Bench Press")
	locationID := primitive.NewObjectID()

	tpl := &domain.WorkoutTemplate{
		ID:                  primitive.NewObjectID(),
		OwnerID:             ownerID,
		Name:                "Push Day",
		ExerciseTemplateIDs: []primitive.ObjectID{bench.ID, squat.ID},
		LocationID:          &locationID,
		LocationName:        ptr("Home Gym"),
	}
	startedAt := time.Date(2026, 8, 30, 7, 15, 0, 0, time.UTC)

	// Exercises arrive already resolved in template order.
	w := domain.NewWorkoutFromTemplate(ownerID, tpl, []domain.ExerciseTemplate{bench, squat}, startedAt)

	assert.Equal(t, ownerID, w.OwnerID)
	require.NotNil(t, w.TemplateID)
	assert.Equal(t, tpl.ID, *w.TemplateID)
	assert.Equal(t, "Push Day", w.Name)
	assert.Equal(t, domain.StatusInProgress, w.Status)
	assert.Equal(t, startedAt, w.StartedAt)
	assert.Nil(t, w.EndedAt)
	require.NotNil(t, w.LocationID)
	assert.Equal(t, locationID, *w.LocationID)
	require.NotNil(t, w.LocationName)
	assert.Equal(t, "Home Gym", *w.LocationName)

	require.Len(t, w.Exercises, 2)
	assert.Equal(t, "Bench Press", w.Exercises[0].Name)
	assert.Equal(t, 1, w.Exercises[0].Position)
	assert.Equal(t, "Squat", w.Exercises[1].Name)
	assert.Equal(t, 2, w.Exercises[1].Position)
	for _, e := range w.Exercises {
		assert.Empty(t, e.Sets)
		assert.Equal(t, "barbell", e.ImplementType)
		assert.Equal(t, "weight_reps", e.ExerciseType)
	}
}
