package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

const (
	// DefaultPageSize is used when the request does not name one.
	DefaultPageSize = 20
	// MaxPageSize caps a single history page.
	MaxPageSize = 100
)

// HistoryQuery describes one page request over completed workouts.
type HistoryQuery struct {
	SortBy     domain.HistorySort   // default date
	Direction  domain.SortDirection // default desc
	LocationID *primitive.ObjectID
	MinRating  *int
	Search     string // case-sensitive substring over notes
	Cursor     string // opaque continuation token, may be empty
	PageSize   int
}

// HistoryPage is one page of results. NextCursor is empty when the end of
// the result set was reached.
type HistoryPage struct {
	Items      []domain.Workout
	NextCursor string
}

// HistoryService answers paginated queries over a user's completed workouts.
type HistoryService interface {
	Query(ctx context.Context, ownerID primitive.ObjectID, query HistoryQuery) (*HistoryPage, error)
}

// historyService implements the HistoryService interface.
type historyService struct {
	workoutRepo repository.WorkoutRepository
}

// NewHistoryService creates a new instance of historyService.
func NewHistoryService(workoutRepo repository.WorkoutRepository) HistoryService {
	return &historyService{workoutRepo: workoutRepo}
}

// Query composes the filter set, decodes the cursor into a resume point,
// fetches one row past the page size and, if that extra row came back,
// truncates and emits a continuation cursor built from the last kept row.
func (s *historyService) Query(ctx context.Context, ownerID primitive.ObjectID, query HistoryQuery) (*HistoryPage, error) {
	sortBy := query.SortBy
	if sortBy != domain.SortByRating {
		sortBy = domain.SortByDate
	}
	descending := query.Direction != domain.SortAscending
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if query.MinRating != nil {
		if err := domain.ValidateRating(*query.MinRating); err != nil {
			return nil, err
		}
	}

	after := decodeCursor(query.Cursor)
	if after != nil && sortBy == domain.SortByDate && after.EndedAt == nil {
		// A date-sort cursor without a date is as good as no cursor.
		after = nil
	}

	rows, err := s.workoutRepo.List(ctx, repository.WorkoutListFilter{
		OwnerID:       ownerID,
		Status:        domain.StatusCompleted,
		LocationID:    query.LocationID,
		MinRating:     query.MinRating,
		NotesContains: query.Search,
		SortBy:        sortBy,
		Descending:    descending,
		After:         after,
		Limit:         pageSize + 1,
	})
	if err != nil {
		return nil, err
	}

	page := &HistoryPage{Items: rows}
	if len(rows) > pageSize {
		page.Items = rows[:pageSize]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = encodeCursor(&domain.HistoryCursor{
			EndedAt: last.EndedAt,
			Rating:  last.Rating,
			ID:      last.ID,
		})
	}
	return page, nil
}
