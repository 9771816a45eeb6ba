package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/service"
)

// HistoryHandler holds the history service dependency.
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// HistoryResponse is one page of completed workouts plus an optional
// continuation token.
type HistoryResponse struct {
	Items      []WorkoutResponse `json:"items"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// GetHistory answers GET /workouts/history. Query parameters: sortBy
// (date|rating), sortDirection (asc|desc), locationId, minRating, search,
// cursor, pageSize.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	query := service.HistoryQuery{
		SortBy:    domain.HistorySort(c.Query("sortBy")),
		Direction: domain.SortDirection(c.Query("sortDirection")),
		Search:    c.Query("search"),
		Cursor:    c.Query("cursor"),
	}
	if raw := c.Query("locationId"); raw != "" {
		locationID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, domain.NewValidation("locationId", "must be a valid id"))
			return
		}
		query.LocationID = &locationID
	}
	if raw := c.Query("minRating"); raw != "" {
		minRating, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, domain.NewValidation("minRating", "must be an integer"))
			return
		}
		query.MinRating = &minRating
	}
	if raw := c.Query("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, domain.NewValidation("pageSize", "must be an integer"))
			return
		}
		query.PageSize = pageSize
	}

	page, err := h.historyService.Query(c.Request.Context(), ownerID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Items:      MapWorkoutsToResponse(page.Items),
		NextCursor: page.NextCursor,
	})
}
