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

// TemplateHandler holds the template service dependency.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- DTOs ---

type CreateExerciseTemplateRequest struct {
	Name          string `json:"name" binding:"required"`
	ImplementType string `json:"implementType"`
	ExerciseType  string `json:"exerciseType"`
}

type ExerciseTemplateResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ImplementType string    `json:"implementType,omitempty"`
	ExerciseType  string    `json:"exerciseType,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateWorkoutTemplateRequest struct {
	Name                string   `json:"name" binding:"required"`
	LocationID          *string  `json:"locationId"`
	ExerciseTemplateIDs []string `json:"exerciseTemplateIds" binding:"required"`
}

type WorkoutTemplateResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	LocationID          *string   `json:"locationId,omitempty"`
	LocationName        *string   `json:"locationName,omitempty"`
	ExerciseTemplateIDs []string  `json:"exerciseTemplateIds"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// MapExerciseTemplateToResponse converts a domain.ExerciseTemplate to its DTO.
func MapExerciseTemplateToResponse(tpl *domain.ExerciseTemplate) ExerciseTemplateResponse {
	if tpl == nil {
		return ExerciseTemplateResponse{}
	}
	return ExerciseTemplateResponse{
		ID:            tpl.ID.Hex(),
		Name:          tpl.Name,
		ImplementType: tpl.ImplementType,
		ExerciseType:  tpl.ExerciseType,
		CreatedAt:     tpl.CreatedAt,
		UpdatedAt:     tpl.UpdatedAt,
	}
}

// MapWorkoutTemplateToResponse converts a domain.WorkoutTemplate to its DTO.
func MapWorkoutTemplateToResponse(tpl *domain.WorkoutTemplate) WorkoutTemplateResponse {
	if tpl == nil {
		return WorkoutTemplateResponse{}
	}
	resp := WorkoutTemplateResponse{
		ID:                  tpl.ID.Hex(),
		Name:                tpl.Name,
		LocationName:        tpl.LocationName,
		ExerciseTemplateIDs: make([]string, 0, len(tpl.ExerciseTemplateIDs)),
		CreatedAt:           tpl.CreatedAt,
		UpdatedAt:           tpl.UpdatedAt,
	}
	if tpl.LocationID != nil {
		id := tpl.LocationID.Hex()
		resp.LocationID = &id
	}
	for _, id := range tpl.ExerciseTemplateIDs {
		resp.ExerciseTemplateIDs = append(resp.ExerciseTemplateIDs, id.Hex())
	}
	return resp
}

// --- Handler Methods ---

// CreateExerciseTemplate adds an exercise to the caller's library.
func (h *TemplateHandler) CreateExerciseTemplate(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req CreateExerciseTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	tpl, err := h.templateService.CreateExerciseTemplate(c.Request.Context(), ownerID, service.CreateExerciseTemplateInput{
		Name:          req.Name,
		ImplementType: req.ImplementType,
		ExerciseType:  req.ExerciseType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseTemplateToResponse(tpl))
}

// GetExerciseTemplate returns one exercise template.
func (h *TemplateHandler) GetExerciseTemplate(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	id, ok := pathObjectID(c, "templateId", "exercise template")
	if !ok {
		return
	}

	tpl, err := h.templateService.GetExerciseTemplate(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseTemplateToResponse(tpl))
}

// ListExerciseTemplates lists the caller's exercise library.
func (h *TemplateHandler) ListExerciseTemplates(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	templates, err := h.templateService.ListExerciseTemplates(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]ExerciseTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapExerciseTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateWorkoutTemplate creates a workout blueprint.
func (h *TemplateHandler) CreateWorkoutTemplate(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req CreateWorkoutTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.CreateWorkoutTemplateInput{
		Name:                req.Name,
		ExerciseTemplateIDs: make([]primitive.ObjectID, 0, len(req.ExerciseTemplateIDs)),
	}
	for _, raw := range req.ExerciseTemplateIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, domain.NewNotFound("exercise template", raw))
			return
		}
		input.ExerciseTemplateIDs = append(input.ExerciseTemplateIDs, id)
	}
	if req.LocationID != nil {
		locationID, err := primitive.ObjectIDFromHex(*req.LocationID)
		if err != nil {
			respondError(c, domain.NewValidation("locationId", "must be a valid id"))
			return
		}
		input.LocationID = &locationID
	}

	tpl, err := h.templateService.CreateWorkoutTemplate(c.Request.Context(), ownerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutTemplateToResponse(tpl))
}

// GetWorkoutTemplate returns one workout template.
func (h *TemplateHandler) GetWorkoutTemplate(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	id, ok := pathObjectID(c, "templateId", "workout template")
	if !ok {
		return
	}

	tpl, err := h.templateService.GetWorkoutTemplate(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutTemplateToResponse(tpl))
}

// ListWorkoutTemplates lists the caller's workout blueprints.
func (h *TemplateHandler) ListWorkoutTemplates(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	templates, err := h.templateService.ListWorkoutTemplates(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]WorkoutTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapWorkoutTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}
