package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	workoutService service.WorkoutService,
	historyService service.HistoryService,
	templateService service.TemplateService,
) {
	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)
	historyHandler := NewHistoryHandler(historyService)
	templateHandler := NewTemplateHandler(templateService)

	router.Use(RequestIDMiddleware())
	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := currentUserID(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Workout Session Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			// POST /api/v1/workouts - start a session from a template
			workoutGroup.POST("", workoutHandler.StartWorkout)
			// GET /api/v1/workouts/in-progress - the caller's active session
			workoutGroup.GET("/in-progress", workoutHandler.GetInProgressWorkout)
			// GET /api/v1/workouts/recent - last completed sessions
			workoutGroup.GET("/recent", workoutHandler.GetRecentWorkouts)
			// GET /api/v1/workouts/history - paginated completed sessions
			workoutGroup.GET("/history", historyHandler.GetHistory)

			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:workoutId", workoutHandler.UpdateWorkout)
			// DELETE discards an in-progress session (hard delete)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DiscardWorkout)
			workoutGroup.POST("/:workoutId/complete", workoutHandler.CompleteWorkout)

			// PUT replaces the whole exercise list; order defines positions
			workoutGroup.PUT("/:workoutId/exercises", workoutHandler.ReplaceExercises)

			// --- Set Routes ---
			workoutGroup.POST("/:workoutId/exercises/:exerciseId/sets", workoutHandler.CreateSet)
			workoutGroup.PUT("/:workoutId/exercises/:exerciseId/sets/:setId", workoutHandler.UpdateSet)
			workoutGroup.DELETE("/:workoutId/exercises/:exerciseId/sets/:setId", workoutHandler.DeleteSet)
		}

		// --- Template Library Routes ---
		exerciseTemplateGroup := protected.Group("/exercise-templates")
		{
			exerciseTemplateGroup.POST("", templateHandler.CreateExerciseTemplate)
			exerciseTemplateGroup.GET("", templateHandler.ListExerciseTemplates)
			exerciseTemplateGroup.GET("/:templateId", templateHandler.GetExerciseTemplate)
		}

		workoutTemplateGroup := protected.Group("/workout-templates")
		{
			workoutTemplateGroup.POST("", templateHandler.CreateWorkoutTemplate)
			workoutTemplateGroup.GET("", templateHandler.ListWorkoutTemplates)
			workoutTemplateGroup.GET("/:templateId", templateHandler.GetWorkoutTemplate)
		}
	}
}
