package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

// recentWorkoutCount is the page size of the "recent workouts" home screen.
const recentWorkoutCount = 3

// CompleteWorkoutInput is the partial patch applied on completion. Nil fields
// are left untouched.
type CompleteWorkoutInput struct {
	Notes     *string
	Rating    *int
	StartedAt *time.Time
	EndedAt   *time.Time
}

// UpdateWorkoutInput is the partial patch for workout edits, available in any
// status. Nil fields are left untouched.
type UpdateWorkoutInput struct {
	LocationID *primitive.ObjectID
	Notes      *string
	Rating     *int
	StartedAt  *time.Time
	EndedAt    *time.Time
}

// SetInput carries the full field set for creating or updating a workout set.
// Unlike the workout patches this is a wholesale replacement: a nil field
// here means absent in storage.
type SetInput struct {
	Weight       *float64
	Reps         *int
	Duration     *int
	Distance     *float64
	Bodyweight   *float64
	BandColor    *string
	WeightUnit   *domain.WeightUnit
	DistanceUnit *domain.DistanceUnit
}

// WorkoutService owns the workout-session lifecycle: starting from a
// template, mutating the in-progress aggregate, completing or discarding it,
// and the non-paginated reads.
type WorkoutService interface {
	Start(ctx context.Context, ownerID, templateID primitive.ObjectID) (*domain.Workout, error)
	Complete(ctx context.Context, ownerID, workoutID primitive.ObjectID, input CompleteWorkoutInput) (*domain.Workout, error)
	Discard(ctx context.Context, ownerID, workoutID primitive.ObjectID) error
	Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, input UpdateWorkoutInput) (*domain.Workout, error)
	ReplaceExercises(ctx context.Context, ownerID, workoutID primitive.ObjectID, templateIDs []primitive.ObjectID) (*domain.Workout, error)
	AddSet(ctx context.Context, ownerID, workoutID, exerciseID primitive.ObjectID, input SetInput) (*domain.WorkoutSet, error)
	UpdateSet(ctx context.Context, ownerID, workoutID, exerciseID, setID primitive.ObjectID, input SetInput) (*domain.WorkoutSet, error)
	DeleteSet(ctx context.Context, ownerID, workoutID, exerciseID, setID primitive.ObjectID) error
	GetByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	GetInProgress(ctx context.Context, ownerID primitive.ObjectID) (*domain.Workout, error)
	GetRecent(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	templateRepo repository.WorkoutTemplateRepository
	exerciseRepo repository.ExerciseTemplateRepository
	locationRepo repository.LocationRepository
	now          func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	templateRepo repository.WorkoutTemplateRepository,
	exerciseRepo repository.ExerciseTemplateRepository,
	locationRepo repository.LocationRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		templateRepo: templateRepo,
		exerciseRepo: exerciseRepo,
		locationRepo: locationRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// loadOwned resolves a workout for the acting user. A workout that exists but
// belongs to someone else comes back as not found.
func (s *workoutService) loadOwned(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByIDForOwner(ctx, workoutID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("workout", workoutID.Hex())
		}
		return nil, err
	}
	return workout, nil
}

// resolveExerciseTemplates fetches the templates for the given ids, preserving
// request order. The first id that does not resolve is reported as not found.
func (s *workoutService) resolveExerciseTemplates(ctx context.Context, ownerID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.ExerciseTemplate, error) {
	byID, err := s.exerciseRepo.GetManyForOwner(ctx, ids, ownerID)
	if err != nil {
		return nil, err
	}
	ordered := make([]domain.ExerciseTemplate, 0, len(ids))
	for _, id := range ids {
		tpl, ok := byID[id]
		if !ok {
			return nil, domain.NewNotFound("exercise template", id.Hex())
		}
		ordered = append(ordered, tpl)
	}
	return ordered, nil
}

// Start creates a new in-progress workout seeded from a template. A user can
// only have one workout in progress at a time.
func (s *workoutService) Start(ctx context.Context, ownerID, templateID primitive.ObjectID) (*domain.Workout, error) {
	// Explicit pre-check for a friendly error; the partial unique index on
	// (ownerId, status) backstops concurrent starts.
	_, err := s.workoutRepo.GetInProgressByOwner(ctx, ownerID)
	if err == nil {
		return nil, domain.NewValidation("status", "already have a workout in progress")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	tpl, err := s.templateRepo.GetByIDForOwner(ctx, templateID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("workout template", templateID.Hex())
		}
		return nil, err
	}

	exercises, err := s.resolveExerciseTemplates(ctx, ownerID, tpl.ExerciseTemplateIDs)
	if err != nil {
		return nil, err
	}

	workout := domain.NewWorkoutFromTemplate(ownerID, tpl, exercises, s.now())
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewValidation("status", "already have a workout in progress")
		}
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

// Complete transitions an in-progress workout to completed, applying the
// partial patch. Only fields present in the input are overwritten.
func (s *workoutService) Complete(ctx context.Context, ownerID, workoutID primitive.ObjectID, input CompleteWorkoutInput) (*domain.Workout, error) {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.Status != domain.StatusInProgress {
		return nil, domain.NewValidation("status", "Workout is not in progress")
	}
	if err := validateWorkoutPatch(input.Notes, input.Rating, input.StartedAt, input.EndedAt); err != nil {
		return nil, err
	}

	if input.Notes != nil {
		workout.Notes = input.Notes
	}
	if input.Rating != nil {
		workout.Rating = input.Rating
	}
	if input.StartedAt != nil {
		workout.StartedAt = input.StartedAt.UTC()
	}
	endedAt := s.now()
	if input.EndedAt != nil {
		endedAt = input.EndedAt.UTC()
	}
	if err := workout.Complete(endedAt); err != nil {
		return nil, err
	}

	if err := s.saveOwned(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// Discard hard-deletes an in-progress workout together with its exercises and
// sets. This is the only hard-delete path for a workout.
func (s *workoutService) Discard(ctx context.Context, ownerID, workoutID primitive.ObjectID) error {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return err
	}
	if workout.Status != domain.StatusInProgress {
		return domain.NewValidation("status", "Only in-progress workouts can be discarded")
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("workout", workoutID.Hex())
		}
		return err
	}
	return nil
}

// Update applies a partial patch regardless of status; this is how completed
// workouts are edited. Reassigning the location re-snapshots its name.
func (s *workoutService) Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, input UpdateWorkoutInput) (*domain.Workout, error) {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	if err := validateWorkoutPatch(input.Notes, input.Rating, input.StartedAt, input.EndedAt); err != nil {
		return nil, err
	}

	if input.LocationID != nil {
		changed := workout.LocationID == nil || *workout.LocationID != *input.LocationID
		if changed {
			location, err := s.locationRepo.GetActiveByIDForOwner(ctx, *input.LocationID, ownerID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, domain.NewNotFound("location", input.LocationID.Hex())
				}
				return nil, err
			}
			workout.LocationID = &location.ID
			name := location.Name
			workout.LocationName = &name
		}
	}
	if input.Notes != nil {
		workout.Notes = input.Notes
	}
	if input.Rating != nil {
		workout.Rating = input.Rating
	}
	if input.StartedAt != nil {
		startedAt := input.StartedAt.UTC()
		workout.StartedAt = startedAt
	}
	if input.EndedAt != nil {
		endedAt := input.EndedAt.UTC()
		workout.EndedAt = &endedAt
	}

	if err := s.saveOwned(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// ReplaceExercises swaps the workout's exercise list for the requested
// templates, in request order. Exercises already present keep their sets.
func (s *workoutService) ReplaceExercises(ctx context.Context, ownerID, workoutID primitive.ObjectID, templateIDs []primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.Status != domain.StatusInProgress {
		return nil, domain.NewValidation("status", "Workout is not in progress")
	}
	if len(templateIDs) == 0 {
		return nil, domain.NewValidation("exerciseTemplateIds", "must not be empty")
	}
	seen := make(map[primitive.ObjectID]struct{}, len(templateIDs))
	for _, id := range templateIDs {
		if _, dup := seen[id]; dup {
			return nil, domain.NewValidation("exerciseTemplateIds", "duplicate exercise template ids are not allowed")
		}
		seen[id] = struct{}{}
	}

	templates, err := s.resolveExerciseTemplates(ctx, ownerID, templateIDs)
	if err != nil {
		return nil, err
	}

	workout.ReconcileExercises(templates)
	if err := s.saveOwned(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// AddSet appends a set to an exercise, at the next free position.
func (s *workoutService) AddSet(ctx context.Context, ownerID, workoutID, exerciseID primitive.ObjectID, input SetInput) (*domain.WorkoutSet, error) {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	exercise, err := workout.ExerciseByID(exerciseID)
	if err != nil {
		return nil, err
	}

	set := newSetFromInput(input)
	set.ID = primitive.NewObjectID()
	set.Position = exercise.NextSetPosition()
	if err := set.Validate(); err != nil {
		return nil, err
	}
	exercise.Sets = append(exercise.Sets, set)

	if err := s.saveOwned(ctx, workout); err != nil {
		return nil, err
	}
	return &exercise.Sets[len(exercise.Sets)-1], nil
}

// UpdateSet replaces every measurement field of the set with the input. This
// is deliberately not a partial patch: omitted fields become absent.
func (s *workoutService) UpdateSet(ctx context.Context, ownerID, workoutID, exerciseID, setID primitive.ObjectID, input SetInput) (*domain.WorkoutSet, error) {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	exercise, err := workout.ExerciseByID(exerciseID)
	if err != nil {
		return nil, err
	}
	target, err := exercise.SetByID(setID)
	if err != nil {
		return nil, err
	}

	replacement := newSetFromInput(input)
	replacement.ID = target.ID
	replacement.Position = target.Position
	if err := replacement.Validate(); err != nil {
		return nil, err
	}
	*target = replacement

	if err := s.saveOwned(ctx, workout); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteSet removes a set and resequences its later siblings down by one.
func (s *workoutService) DeleteSet(ctx context.Context, ownerID, workoutID, exerciseID, setID primitive.ObjectID) error {
	workout, err := s.loadOwned(ctx, ownerID, workoutID)
	if err != nil {
		return err
	}
	exercise, err := workout.ExerciseByID(exerciseID)
	if err != nil {
		return err
	}
	if err := exercise.RemoveSet(setID); err != nil {
		return err
	}
	return s.saveOwned(ctx, workout)
}

// GetByID retrieves a single workout owned by the caller.
func (s *workoutService) GetByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	return s.loadOwned(ctx, ownerID, workoutID)
}

// GetInProgress retrieves the caller's in-progress workout, if any.
func (s *workoutService) GetInProgress(ctx context.Context, ownerID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetInProgressByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("workout", "")
		}
		return nil, err
	}
	return workout, nil
}

// GetRecent returns the last few completed workouts, newest first.
func (s *workoutService) GetRecent(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetRecentCompleted(ctx, ownerID, recentWorkoutCount)
}

// saveOwned persists the aggregate, mapping a vanished row to not found.
func (s *workoutService) saveOwned(ctx context.Context, workout *domain.Workout) error {
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("workout", workout.ID.Hex())
		}
		return err
	}
	return nil
}

// validateWorkoutPatch applies the shared rules for the partial workout
// patches: rating bounds, notes length, and end-after-start when both
// timestamps are supplied in the same request.
func validateWorkoutPatch(notes *string, rating *int, startedAt, endedAt *time.Time) error {
	if rating != nil {
		if err := domain.ValidateRating(*rating); err != nil {
			return err
		}
	}
	if notes != nil {
		if err := domain.ValidateNotes(*notes); err != nil {
			return err
		}
	}
	if startedAt != nil && endedAt != nil {
		if err := domain.ValidateTimeOrder(*startedAt, *endedAt); err != nil {
			return err
		}
	}
	return nil
}

// newSetFromInput copies the wholesale field set into a WorkoutSet. ID and
// Position are left for the caller.
func newSetFromInput(input SetInput) domain.WorkoutSet {
	return domain.WorkoutSet{
		Weight:       input.Weight,
		Reps:         input.Reps,
		Duration:     input.Duration,
		Distance:     input.Distance,
		Bodyweight:   input.Bodyweight,
		BandColor:    input.BandColor,
		WeightUnit:   input.WeightUnit,
		DistanceUnit: input.DistanceUnit,
	}
}
