package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

// CreateExerciseTemplateInput holds the fields for a new exercise template.
type CreateExerciseTemplateInput struct {
	Name          string
	ImplementType string
	ExerciseType  string
}

// CreateWorkoutTemplateInput holds the fields for a new workout template.
type CreateWorkoutTemplateInput struct {
	Name                string
	LocationID          *primitive.ObjectID
	ExerciseTemplateIDs []primitive.ObjectID
}

// TemplateService manages the user's template library: the blueprints that
// seed workouts but are never mutated by logging activity.
type TemplateService interface {
	CreateExerciseTemplate(ctx context.Context, ownerID primitive.ObjectID, input CreateExerciseTemplateInput) (*domain.ExerciseTemplate, error)
	GetExerciseTemplate(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.ExerciseTemplate, error)
	ListExerciseTemplates(ctx context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseTemplate, error)

	CreateWorkoutTemplate(ctx context.Context, ownerID primitive.ObjectID, input CreateWorkoutTemplateInput) (*domain.WorkoutTemplate, error)
	GetWorkoutTemplate(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	ListWorkoutTemplates(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
}

// templateService implements the TemplateService interface.
type templateService struct {
	workoutTplRepo  repository.WorkoutTemplateRepository
	exerciseTplRepo repository.ExerciseTemplateRepository
	locationRepo    repository.LocationRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(
	workoutTplRepo repository.WorkoutTemplateRepository,
	exerciseTplRepo repository.ExerciseTemplateRepository,
	locationRepo repository.LocationRepository,
) TemplateService {
	return &templateService{
		workoutTplRepo:  workoutTplRepo,
		exerciseTplRepo: exerciseTplRepo,
		locationRepo:    locationRepo,
	}
}

// CreateExerciseTemplate adds an exercise definition to the user's library.
func (s *templateService) CreateExerciseTemplate(ctx context.Context, ownerID primitive.ObjectID, input CreateExerciseTemplateInput) (*domain.ExerciseTemplate, error) {
	if input.Name == "" {
		return nil, domain.NewValidation("name", "must not be empty")
	}
	tpl := &domain.ExerciseTemplate{
		OwnerID:       ownerID,
		Name:          input.Name,
		ImplementType: input.ImplementType,
		ExerciseType:  input.ExerciseType,
	}
	id, err := s.exerciseTplRepo.Create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	tpl.ID = id
	return tpl, nil
}

// GetExerciseTemplate retrieves one exercise template owned by the caller.
func (s *templateService) GetExerciseTemplate(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.ExerciseTemplate, error) {
	tpl, err := s.exerciseTplRepo.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("exercise template", id.Hex())
		}
		return nil, err
	}
	return tpl, nil
}

// ListExerciseTemplates lists the caller's exercise library.
func (s *templateService) ListExerciseTemplates(ctx context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseTemplate, error) {
	return s.exerciseTplRepo.GetByOwner(ctx, ownerID)
}

// CreateWorkoutTemplate creates a workout blueprint. Every referenced
// exercise template must exist and belong to the caller; an optional location
// is resolved and its name snapshotted.
func (s *templateService) CreateWorkoutTemplate(ctx context.Context, ownerID primitive.ObjectID, input CreateWorkoutTemplateInput) (*domain.WorkoutTemplate, error) {
	if input.Name == "" {
		return nil, domain.NewValidation("name", "must not be empty")
	}
	if len(input.ExerciseTemplateIDs) == 0 {
		return nil, domain.NewValidation("exerciseTemplateIds", "must not be empty")
	}

	byID, err := s.exerciseTplRepo.GetManyForOwner(ctx, input.ExerciseTemplateIDs, ownerID)
	if err != nil {
		return nil, err
	}
	for _, id := range input.ExerciseTemplateIDs {
		if _, ok := byID[id]; !ok {
			return nil, domain.NewNotFound("exercise template", id.Hex())
		}
	}

	tpl := &domain.WorkoutTemplate{
		OwnerID:             ownerID,
		Name:                input.Name,
		ExerciseTemplateIDs: input.ExerciseTemplateIDs,
	}
	if input.LocationID != nil {
		location, err := s.locationRepo.GetActiveByIDForOwner(ctx, *input.LocationID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.NewNotFound("location", input.LocationID.Hex())
			}
			return nil, err
		}
		tpl.LocationID = &location.ID
		name := location.Name
		tpl.LocationName = &name
	}

	id, err := s.workoutTplRepo.Create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	tpl.ID = id
	return tpl, nil
}

// GetWorkoutTemplate retrieves one workout template owned by the caller.
func (s *templateService) GetWorkoutTemplate(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	tpl, err := s.workoutTplRepo.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("workout template", id.Hex())
		}
		return nil, err
	}
	return tpl, nil
}

// ListWorkoutTemplates lists the caller's workout blueprints.
func (s *templateService) ListWorkoutTemplates(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	return s.workoutTplRepo.GetByOwner(ctx, ownerID)
}
