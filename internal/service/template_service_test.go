package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/service"
)

type templateFixture struct {
	owner     primitive.ObjectID
	templates *fakeWorkoutTemplateRepo
	exercises *fakeExerciseTemplateRepo
	locations *fakeLocationRepo
	svc       service.TemplateService
}

func newTemplateFixture() *templateFixture {
	f := &templateFixture{
		owner:     primitive.NewObjectID(),
		templates: newFakeWorkoutTemplateRepo(),
		exercises: newFakeExerciseTemplateRepo(),
		locations: newFakeLocationRepo(),
	}
	f.svc = service.NewTemplateService(f.templates, f.exercises, f.locations)
	return f
}

func TestCreateExerciseTemplate(t *testing.T) {
	ctx := context.Background()
	f := newTemplateFixture()

	tpl, err := f.svc.CreateExerciseTemplate(ctx, f.owner, service.CreateExerciseTemplateInput{
		Name:          "Pull Up",
		ImplementType: "bodyweight",
		ExerciseType:  "reps",
	})
	require.NoError(t, err)
	assert.False(t, tpl.ID.IsZero())
	assert.Equal(t, f.owner, tpl.OwnerID)

	got, err := f.svc.GetExerciseTemplate(ctx, f.owner, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pull Up", got.Name)

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := f.svc.CreateExerciseTemplate(ctx, f.owner, service.CreateExerciseTemplateInput{})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("foreign template looks missing", func(t *testing.T) {
		_, err := f.svc.GetExerciseTemplate(ctx, primitive.NewObjectID(), tpl.ID)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestCreateWorkoutTemplate(t *testing.T) {
	ctx := context.Background()
	f := newTemplateFixture()

	squat, err := f.svc.CreateExerciseTemplate(ctx, f.owner, service.CreateExerciseTemplateInput{Name: "Squat"})
	require.NoError(t, err)
	bench, err := f.svc.CreateExerciseTemplate(ctx, f.owner, service.CreateExerciseTemplateInput{Name: "Bench Press"})
	require.NoError(t, err)

	t.Run("references are kept in order", func(t *testing.T) {
		tpl, err := f.svc.CreateWorkoutTemplate(ctx, f.owner, service.CreateWorkoutTemplateInput{
			Name:                "Leg Day",
			ExerciseTemplateIDs: []primitive.ObjectID{bench.ID, squat.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{bench.ID, squat.ID}, tpl.ExerciseTemplateIDs)
		assert.Nil(t, tpl.LocationID)
	})

	t.Run("location is snapshotted", func(t *testing.T) {
		loc := f.locations.put(&domain.Location{OwnerID: f.owner, Name: "Garage"})
		tpl, err := f.svc.CreateWorkoutTemplate(ctx, f.owner, service.CreateWorkoutTemplateInput{
			Name:                "Home Session",
			LocationID:          &loc.ID,
			ExerciseTemplateIDs: []primitive.ObjectID{squat.ID},
		})
		require.NoError(t, err)
		require.NotNil(t, tpl.LocationName)
		assert.Equal(t, "Garage", *tpl.LocationName)
	})

	t.Run("soft-deleted location is rejected", func(t *testing.T) {
		deletedAt := time.Now()
		loc := f.locations.put(&domain.Location{OwnerID: f.owner, Name: "Closed", DeletedAt: &deletedAt})
		_, err := f.svc.CreateWorkoutTemplate(ctx, f.owner, service.CreateWorkoutTemplateInput{
			Name:                "Nope",
			LocationID:          &loc.ID,
			ExerciseTemplateIDs: []primitive.ObjectID{squat.ID},
		})
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "location", nf.Kind)
	})

	t.Run("unknown exercise reference", func(t *testing.T) {
		missing := primitive.NewObjectID()
		_, err := f.svc.CreateWorkoutTemplate(ctx, f.owner, service.CreateWorkoutTemplateInput{
			Name:                "Broken",
			ExerciseTemplateIDs: []primitive.ObjectID{squat.ID, missing},
		})
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, missing.Hex(), nf.ID)
	})

	t.Run("empty exercise list is rejected", func(t *testing.T) {
		_, err := f.svc.CreateWorkoutTemplate(ctx, f.owner, service.CreateWorkoutTemplateInput{Name: "Empty"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}
