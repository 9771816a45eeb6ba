package service_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

// oid builds a deterministic ObjectID whose byte order follows n, so tests
// can reason about the ascending-id tie-break.
func oid(n int) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(fmt.Sprintf("%024x", n))
	if err != nil {
		panic(err)
	}
	return id
}

func ptr[T any](v T) *T {
	return &v
}

// cloneWorkout deep-copies the aggregate so callers mutating a returned
// workout cannot reach into the store, same as a driver decode would behave.
func cloneWorkout(w *domain.Workout) *domain.Workout {
	c := *w
	c.Exercises = make([]domain.WorkoutExercise, len(w.Exercises))
	for i, e := range w.Exercises {
		ce := e
		ce.Sets = append([]domain.WorkoutSet(nil), e.Sets...)
		c.Exercises[i] = ce
	}
	return &c
}

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
	nextID   int
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout), nextID: 1}
}

func (r *fakeWorkoutRepo) put(w *domain.Workout) *domain.Workout {
	if w.ID.IsZero() {
		w.ID = oid(r.nextID)
		r.nextID++
	}
	r.workouts[w.ID] = cloneWorkout(w)
	return w
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Status == domain.StatusInProgress {
		for _, w := range r.workouts {
			if w.OwnerID == workout.OwnerID && w.Status == domain.StatusInProgress {
				return primitive.NilObjectID, repository.ErrDuplicate
			}
		}
	}
	id := oid(r.nextID)
	r.nextID++
	stored := cloneWorkout(workout)
	stored.ID = id
	r.workouts[id] = stored
	return id, nil
}

func (r *fakeWorkoutRepo) GetByIDForOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[id]
	if !ok || w.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneWorkout(w), nil
}

func (r *fakeWorkoutRepo) GetInProgressByOwner(_ context.Context, ownerID primitive.ObjectID) (*domain.Workout, error) {
	for _, w := range r.workouts {
		if w.OwnerID == ownerID && w.Status == domain.StatusInProgress {
			return cloneWorkout(w), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	stored, ok := r.workouts[workout.ID]
	if !ok || stored.OwnerID != workout.OwnerID {
		return repository.ErrNotFound
	}
	r.workouts[workout.ID] = cloneWorkout(workout)
	return nil
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	w, ok := r.workouts[id]
	if !ok || w.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *fakeWorkoutRepo) List(_ context.Context, filter repository.WorkoutListFilter) ([]domain.Workout, error) {
	var rows []domain.Workout
	for _, w := range r.workouts {
		if w.OwnerID != filter.OwnerID || w.Status != filter.Status {
			continue
		}
		if filter.LocationID != nil && (w.LocationID == nil || *w.LocationID != *filter.LocationID) {
			continue
		}
		if filter.MinRating != nil && (w.Rating == nil || *w.Rating < *filter.MinRating) {
			continue
		}
		if filter.NotesContains != "" && (w.Notes == nil || !strings.Contains(*w.Notes, filter.NotesContains)) {
			continue
		}
		rows = append(rows, *cloneWorkout(w))
	}

	sort.Slice(rows, func(i, j int) bool {
		return compareHistory(filter.SortBy, filter.Descending, &rows[i], &rows[j]) < 0
	})

	if c := filter.After; c != nil {
		resumeRow := domain.Workout{ID: c.ID, EndedAt: c.EndedAt, Rating: c.Rating}
		kept := rows[:0]
		for i := range rows {
			if compareHistory(filter.SortBy, filter.Descending, &resumeRow, &rows[i]) < 0 {
				kept = append(kept, rows[i])
			}
		}
		rows = kept
	}

	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r *fakeWorkoutRepo) GetRecentCompleted(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]domain.Workout, error) {
	return r.List(ctx, repository.WorkoutListFilter{
		OwnerID:    ownerID,
		Status:     domain.StatusCompleted,
		SortBy:     domain.SortByDate,
		Descending: true,
		Limit:      limit,
	})
}

// compareHistory orders two workouts by the history sort: primary key in the
// requested direction, then id ascending regardless of direction. An absent
// rating sorts below every present one, matching BSON null ordering.
func compareHistory(sortBy domain.HistorySort, descending bool, a, b *domain.Workout) int {
	var c int
	if sortBy == domain.SortByRating {
		c = compareIntPtr(a.Rating, b.Rating)
	} else {
		c = compareTimePtr(a.EndedAt, b.EndedAt)
	}
	if descending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func compareIntPtr(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

type fakeWorkoutTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.WorkoutTemplate
}

func newFakeWorkoutTemplateRepo() *fakeWorkoutTemplateRepo {
	return &fakeWorkoutTemplateRepo{templates: make(map[primitive.ObjectID]*domain.WorkoutTemplate)}
}

func (r *fakeWorkoutTemplateRepo) Create(_ context.Context, tpl *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if tpl.ID.IsZero() {
		tpl.ID = primitive.NewObjectID()
	}
	cp := *tpl
	r.templates[tpl.ID] = &cp
	return tpl.ID, nil
}

func (r *fakeWorkoutTemplateRepo) GetByIDForOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	tpl, ok := r.templates[id]
	if !ok || tpl.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (r *fakeWorkoutTemplateRepo) GetByOwner(_ context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, tpl := range r.templates {
		if tpl.OwnerID == ownerID {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

type fakeExerciseTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.ExerciseTemplate
}

func newFakeExerciseTemplateRepo() *fakeExerciseTemplateRepo {
	return &fakeExerciseTemplateRepo{templates: make(map[primitive.ObjectID]*domain.ExerciseTemplate)}
}

func (r *fakeExerciseTemplateRepo) Create(_ context.Context, tpl *domain.ExerciseTemplate) (primitive.ObjectID, error) {
	if tpl.ID.IsZero() {
		tpl.ID = primitive.NewObjectID()
	}
	cp := *tpl
	r.templates[tpl.ID] = &cp
	return tpl.ID, nil
}

func (r *fakeExerciseTemplateRepo) GetByIDForOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.ExerciseTemplate, error) {
	tpl, ok := r.templates[id]
	if !ok || tpl.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (r *fakeExerciseTemplateRepo) GetManyForOwner(_ context.Context, ids []primitive.ObjectID, ownerID primitive.ObjectID) (map[primitive.ObjectID]domain.ExerciseTemplate, error) {
	out := make(map[primitive.ObjectID]domain.ExerciseTemplate, len(ids))
	for _, id := range ids {
		if tpl, ok := r.templates[id]; ok && tpl.OwnerID == ownerID {
			out[id] = *tpl
		}
	}
	return out, nil
}

func (r *fakeExerciseTemplateRepo) GetByOwner(_ context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseTemplate, error) {
	var out []domain.ExerciseTemplate
	for _, tpl := range r.templates {
		if tpl.OwnerID == ownerID {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

type fakeLocationRepo struct {
	locations map[primitive.ObjectID]*domain.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[primitive.ObjectID]*domain.Location)}
}

func (r *fakeLocationRepo) put(loc *domain.Location) *domain.Location {
	if loc.ID.IsZero() {
		loc.ID = primitive.NewObjectID()
	}
	cp := *loc
	r.locations[loc.ID] = &cp
	return loc
}

func (r *fakeLocationRepo) GetActiveByIDForOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.Location, error) {
	loc, ok := r.locations[id]
	if !ok || loc.OwnerID != ownerID || loc.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	cp := *loc
	return &cp, nil
}
