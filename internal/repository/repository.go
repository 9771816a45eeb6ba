package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutListFilter describes a history page request: ownership scope,
// optional filters, the two-key sort and an optional resume point. Limit is
// the number of rows the caller wants back (it already includes any look-ahead
// row the caller uses for has-more detection).
type WorkoutListFilter struct {
	OwnerID       primitive.ObjectID
	Status        domain.WorkoutStatus
	LocationID    *primitive.ObjectID
	MinRating     *int
	NotesContains string
	SortBy        domain.HistorySort
	Descending    bool
	After         *domain.HistoryCursor
	Limit         int
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository persists workout aggregates. Reads are scoped by owner so
// a mismatch is indistinguishable from a missing row.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Workout, error)
	GetInProgressByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.Workout, error)
	// Update replaces the whole aggregate document in one write.
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	List(ctx context.Context, filter WorkoutListFilter) ([]domain.Workout, error)
	GetRecentCompleted(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]domain.Workout, error)
}

// WorkoutTemplateRepository defines read/write access to workout templates.
type WorkoutTemplateRepository interface {
	Create(ctx context.Context, tpl *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
}

// ExerciseTemplateRepository defines read/write access to exercise templates.
type ExerciseTemplateRepository interface {
	Create(ctx context.Context, tpl *domain.ExerciseTemplate) (primitive.ObjectID, error)
	GetByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.ExerciseTemplate, error)
	// GetManyForOwner returns the templates for the given ids, keyed by id.
	// Missing or foreign ids are simply absent from the result.
	GetManyForOwner(ctx context.Context, ids []primitive.ObjectID, ownerID primitive.ObjectID) (map[primitive.ObjectID]domain.ExerciseTemplate, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseTemplate, error)
}

// LocationRepository is read-only from this subsystem's point of view: it is
// used to validate a location reassignment and re-snapshot its name.
type LocationRepository interface {
	// GetActiveByIDForOwner excludes soft-deleted locations.
	GetActiveByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Location, error)
}
