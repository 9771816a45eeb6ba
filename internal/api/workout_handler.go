package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/service"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

type StartWorkoutRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

type CompleteWorkoutRequest struct {
	Notes     *string    `json:"notes"`
	Rating    *int       `json:"rating"`
	StartedAt *time.Time `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

type UpdateWorkoutRequest struct {
	LocationID *string    `json:"locationId"`
	Notes      *string    `json:"notes"`
	Rating     *int       `json:"rating"`
	StartedAt  *time.Time `json:"startedAt"`
	EndedAt    *time.Time `json:"endedAt"`
}

type ReplaceExercisesRequest struct {
	ExerciseTemplateIDs []string `json:"exerciseTemplateIds" binding:"required"`
}

// SetRequest carries the full measurement field set. Create and update share
// it: update is a wholesale replacement, omitted fields become absent.
type SetRequest struct {
	Weight          *float64 `json:"weight"`
	Reps            *int     `json:"reps"`
	DurationSeconds *int     `json:"durationSeconds"`
	Distance        *float64 `json:"distance"`
	Bodyweight      *float64 `json:"bodyweight"`
	BandColor       *string  `json:"bandColor"`
	WeightUnit      *string  `json:"weightUnit" binding:"omitempty,oneof=kg lb"`
	DistanceUnit    *string  `json:"distanceUnit" binding:"omitempty,oneof=km mi"`
}

// WorkoutSetResponse is the DTO for one set.
type WorkoutSetResponse struct {
	ID              string   `json:"id"`
	Position        int      `json:"position"`
	Weight          *float64 `json:"weight,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Bodyweight      *float64 `json:"bodyweight,omitempty"`
	BandColor       *string  `json:"bandColor,omitempty"`
	WeightUnit      *string  `json:"weightUnit,omitempty"`
	DistanceUnit    *string  `json:"distanceUnit,omitempty"`
}

// WorkoutExerciseResponse is the DTO for one exercise occurrence.
type WorkoutExerciseResponse struct {
	ID                 string               `json:"id"`
	ExerciseTemplateID *string              `json:"exerciseTemplateId,omitempty"`
	Name               string               `json:"name"`
	ImplementType      string               `json:"implementType,omitempty"`
	ExerciseType       string               `json:"exerciseType,omitempty"`
	Position           int                  `json:"position"`
	Sets               []WorkoutSetResponse `json:"sets"`
}

// WorkoutResponse is the DTO for returning a full workout aggregate.
type WorkoutResponse struct {
	ID           string                    `json:"id"`
	TemplateID   *string                   `json:"templateId,omitempty"`
	Name         string                    `json:"name"`
	Status       domain.WorkoutStatus      `json:"status"`
	StartedAt    time.Time                 `json:"startedAt"`
	EndedAt      *time.Time                `json:"endedAt,omitempty"`
	Notes        *string                   `json:"notes,omitempty"`
	Rating       *int                      `json:"rating,omitempty"`
	LocationID   *string                   `json:"locationId,omitempty"`
	LocationName *string                   `json:"locationName,omitempty"`
	Exercises    []WorkoutExerciseResponse `json:"exercises"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// MapWorkoutSetToResponse converts a domain.WorkoutSet to its DTO.
func MapWorkoutSetToResponse(set *domain.WorkoutSet) WorkoutSetResponse {
	resp := WorkoutSetResponse{
		ID:              set.ID.Hex(),
		Position:        set.Position,
		Weight:          set.Weight,
		Reps:            set.Reps,
		DurationSeconds: set.Duration,
		Distance:        set.Distance,
		Bodyweight:      set.Bodyweight,
		BandColor:       set.BandColor,
	}
	if set.WeightUnit != nil {
		unit := string(*set.WeightUnit)
		resp.WeightUnit = &unit
	}
	if set.DistanceUnit != nil {
		unit := string(*set.DistanceUnit)
		resp.DistanceUnit = &unit
	}
	return resp
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:           w.ID.Hex(),
		Name:         w.Name,
		Status:       w.Status,
		StartedAt:    w.StartedAt,
		EndedAt:      w.EndedAt,
		Notes:        w.Notes,
		Rating:       w.Rating,
		LocationName: w.LocationName,
		Exercises:    make([]WorkoutExerciseResponse, 0, len(w.Exercises)),
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
	if w.TemplateID != nil {
		id := w.TemplateID.Hex()
		resp.TemplateID = &id
	}
	if w.LocationID != nil {
		id := w.LocationID.Hex()
		resp.LocationID = &id
	}
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		exResp := WorkoutExerciseResponse{
			ID:            ex.ID.Hex(),
			Name:          ex.Name,
			ImplementType: ex.ImplementType,
			ExerciseType:  ex.ExerciseType,
			Position:      ex.Position,
			Sets:          make([]WorkoutSetResponse, 0, len(ex.Sets)),
		}
		if ex.ExerciseTemplateID != nil {
			id := ex.ExerciseTemplateID.Hex()
			exResp.ExerciseTemplateID = &id
		}
		for j := range ex.Sets {
			exResp.Sets = append(exResp.Sets, MapWorkoutSetToResponse(&ex.Sets[j]))
		}
		resp.Exercises = append(resp.Exercises, exResp)
	}
	return resp
}

// MapWorkoutsToResponse converts a slice of workouts to DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

func setInputFromRequest(req SetRequest) service.SetInput {
	input := service.SetInput{
		Weight:     req.Weight,
		Reps:       req.Reps,
		Duration:   req.DurationSeconds,
		Distance:   req.Distance,
		Bodyweight: req.Bodyweight,
		BandColor:  req.BandColor,
	}
	if req.WeightUnit != nil {
		unit := domain.WeightUnit(*req.WeightUnit)
		input.WeightUnit = &unit
	}
	if req.DistanceUnit != nil {
		unit := domain.DistanceUnit(*req.DistanceUnit)
		input.DistanceUnit = &unit
	}
	return input
}

// --- Handler Methods ---

// StartWorkout starts a new in-progress workout from a template.
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req StartWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		respondError(c, domain.NewNotFound("workout template", req.TemplateID))
		return
	}

	workout, err := h.workoutService.Start(c.Request.Context(), ownerID, templateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// CompleteWorkout finishes an in-progress workout.
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.Complete(c.Request.Context(), ownerID, workoutID, service.CompleteWorkoutInput{
		Notes:     req.Notes,
		Rating:    req.Rating,
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DiscardWorkout hard-deletes an in-progress workout.
func (h *WorkoutHandler) DiscardWorkout(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}

	if err := h.workoutService.Discard(c.Request.Context(), ownerID, workoutID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateWorkout applies a partial patch to a workout in any status.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.UpdateWorkoutInput{
		Notes:     req.Notes,
		Rating:    req.Rating,
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
	}
	if req.LocationID != nil {
		locationID, err := primitive.ObjectIDFromHex(*req.LocationID)
		if err != nil {
			respondError(c, domain.NewValidation("locationId", "must be a valid id"))
			return
		}
		input.LocationID = &locationID
	}

	workout, err := h.workoutService.Update(c.Request.Context(), ownerID, workoutID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// ReplaceExercises swaps the workout's exercise list.
func (h *WorkoutHandler) ReplaceExercises(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}
	var req ReplaceExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	templateIDs := make([]primitive.ObjectID, 0, len(req.ExerciseTemplateIDs))
	for _, raw := range req.ExerciseTemplateIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, domain.NewNotFound("exercise template", raw))
			return
		}
		templateIDs = append(templateIDs, id)
	}

	workout, err := h.workoutService.ReplaceExercises(c.Request.Context(), ownerID, workoutID, templateIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CreateSet appends a set to an exercise.
func (h *WorkoutHandler) CreateSet(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId", "workout exercise")
	if !ok {
		return
	}
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	set, err := h.workoutService.AddSet(c.Request.Context(), ownerID, workoutID, exerciseID, setInputFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutSetToResponse(set))
}

// UpdateSet replaces a set's measurement fields wholesale.
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId", "workout exercise")
	if !ok {
		return
	}
	setID, ok := pathObjectID(c, "setId", "workout set")
	if !ok {
		return
	}
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	set, err := h.workoutService.UpdateSet(c.Request.Context(), ownerID, workoutID, exerciseID, setID, setInputFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutSetToResponse(set))
}

// DeleteSet removes a set and resequences later siblings.
func (h *WorkoutHandler) DeleteSet(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId", "workout exercise")
	if !ok {
		return
	}
	setID, ok := pathObjectID(c, "setId", "workout set")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteSet(c.Request.Context(), ownerID, workoutID, exerciseID, setID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWorkout returns one workout aggregate.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId", "workout")
	if !ok {
		return
	}

	workout, err := h.workoutService.GetByID(c.Request.Context(), ownerID, workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GetInProgressWorkout returns the caller's active workout.
func (h *WorkoutHandler) GetInProgressWorkout(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	workout, err := h.workoutService.GetInProgress(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GetRecentWorkouts returns the last completed workouts, newest first.
func (h *WorkoutHandler) GetRecentWorkouts(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	workouts, err := h.workoutService.GetRecent(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}
