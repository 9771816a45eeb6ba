package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/api"
	"ironlog/workout-app/internal/config"
	"ironlog/workout-app/internal/repository/mongo"
	"ironlog/workout-app/internal/service"
)

func main() {
	log.Println("Starting Workout App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	// The partial unique index on workouts backstops the one-in-progress
	// invariant, so index creation failures are fatal.
	log.Println("Ensuring database indexes...")
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancelIndex()
	if err := mongo.EnsureUserIndexes(indexCtx, appDB.Collection("users")); err != nil {
		log.Fatalf("FATAL: Failed to create user indexes: %v", err)
	}
	if err := mongo.EnsureWorkoutIndexes(indexCtx, appDB.Collection("workouts")); err != nil {
		log.Fatalf("FATAL: Failed to create workout indexes: %v", err)
	}
	if err := mongo.EnsureWorkoutTemplateIndexes(indexCtx, appDB.Collection("workout_templates")); err != nil {
		log.Fatalf("FATAL: Failed to create workout template indexes: %v", err)
	}
	if err := mongo.EnsureExerciseTemplateIndexes(indexCtx, appDB.Collection("exercise_templates")); err != nil {
		log.Fatalf("FATAL: Failed to create exercise template indexes: %v", err)
	}
	if err := mongo.EnsureLocationIndexes(indexCtx, appDB.Collection("locations")); err != nil {
		log.Fatalf("FATAL: Failed to create location indexes: %v", err)
	}
	log.Println("Index creation completed.")

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	workoutTplRepo := mongo.NewMongoWorkoutTemplateRepository(appDB)
	exerciseTplRepo := mongo.NewMongoExerciseTemplateRepository(appDB)
	locationRepo := mongo.NewMongoLocationRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	workoutService := service.NewWorkoutService(workoutRepo, workoutTplRepo, exerciseTplRepo, locationRepo)
	historyService := service.NewHistoryService(workoutRepo)
	templateService := service.NewTemplateService(workoutTplRepo, exerciseTplRepo, locationRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, workoutService, historyService, templateService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
