package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func setAt(position int) domain.WorkoutSet {
	return domain.WorkoutSet{
		ID:       primitive.NewObjectID(),
		Position: position,
		Reps:     ptr(10),
	}
}

func TestWorkoutSetValidate(t *testing.T) {
	t.Run("all measurement fields empty is rejected", func(t *testing.T) {
		s := domain.WorkoutSet{}
		err := s.Validate()
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("empty band color counts as absent", func(t *testing.T) {
		s := domain.WorkoutSet{BandColor: ptr("")}
		assert.Error(t, s.Validate())
	})

	t.Run("exactly one measurement field is enough", func(t *testing.T) {
		for name, s := range map[string]domain.WorkoutSet{
			"weight":     {Weight: ptr(60.0)},
			"reps":       {Reps: ptr(5)},
			"duration":   {Duration: ptr(90)},
			"distance":   {Distance: ptr(2.5)},
			"bodyweight": {Bodyweight: ptr(82.3)},
			"band color": {BandColor: ptr("red")},
		} {
			assert.NoError(t, s.Validate(), name)
		}
	})

	t.Run("negative numbers are rejected", func(t *testing.T) {
		s := domain.WorkoutSet{Weight: ptr(-1.0), Reps: ptr(-2)}
		err := s.Validate()
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})
}

func TestNextSetPosition(t *testing.T) {
	e := domain.WorkoutExercise{}
	assert.Equal(t, 1, e.NextSetPosition())

	e.Sets = []domain.WorkoutSet{setAt(1), setAt(2), setAt(3)}
	assert.Equal(t, 4, e.NextSetPosition())
}

func TestRemoveSetResequences(t *testing.T) {
	sets := []domain.WorkoutSet{setAt(1), setAt(2), setAt(3), setAt(4)}
	first, third, fourth := sets[0].ID, sets[2].ID, sets[3].ID
	e := domain.WorkoutExercise{Sets: sets}

	require.NoError(t, e.RemoveSet(sets[1].ID))

	require.Len(t, e.Sets, 3)
	// Old 1 unchanged, old 3 -> 2, old 4 -> 3.
	assert.Equal(t, first, e.Sets[0].ID)
	assert.Equal(t, 1, e.Sets[0].Position)
	assert.Equal(t, third, e.Sets[1].ID)
	assert.Equal(t, 2, e.Sets[1].Position)
	assert.Equal(t, fourth, e.Sets[2].ID)
	assert.Equal(t, 3, e.Sets[2].Position)
}

func TestRemoveSetMissing(t *testing.T) {
	e := domain.WorkoutExercise{Sets: []domain.WorkoutSet{setAt(1)}}
	err := e.RemoveSet(primitive.NewObjectID())
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "workout set", notFound.Kind)
}

func TestWorkoutComplete(t *testing.T) {
	w := domain.Workout{Status: domain.StatusInProgress}
	endedAt := time.Now().UTC()

	require.NoError(t, w.Complete(endedAt))
	assert.Equal(t, domain.StatusCompleted, w.Status)
	require.NotNil(t, w.EndedAt)
	assert.Equal(t, endedAt, *w.EndedAt)

	// A completed workout cannot be completed again.
	err := w.Complete(endedAt.Add(time.Minute))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateRating(t *testing.T) {
	assert.Error(t, domain.ValidateRating(0))
	assert.Error(t, domain.ValidateRating(6))
	assert.NoError(t, domain.ValidateRating(1))
	assert.NoError(t, domain.ValidateRating(5))
}

func TestValidateTimeOrder(t *testing.T) {
	start := time.Now()
	assert.Error(t, domain.ValidateTimeOrder(start, start))
	assert.Error(t, domain.ValidateTimeOrder(start, start.Add(-time.Second)))
	assert.NoError(t, domain.ValidateTimeOrder(start, start.Add(time.Second)))
}
