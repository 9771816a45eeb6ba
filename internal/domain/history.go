package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistorySort selects the primary sort key for the workout history query.
type HistorySort string

const (
	SortByDate   HistorySort = "date"
	SortByRating HistorySort = "rating"
)

// SortDirection for the primary sort key.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// HistoryCursor is the resume point of a paginated history query: the sort
// key values of the last row of the previous page. The tie-break on id is
// ascending regardless of the primary sort direction, which is what keeps
// pages free of duplicates and omissions when primary values collide.
type HistoryCursor struct {
	EndedAt *time.Time         `json:"endedAt,omitempty"`
	Rating  *int               `json:"rating,omitempty"`
	ID      primitive.ObjectID `json:"id"`
}
