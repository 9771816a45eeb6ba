package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseTemplate is a reusable exercise definition in the user's library.
// Workouts snapshot its fields when an exercise is attached; editing a
// template never changes historical workouts.
type ExerciseTemplate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID       primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name          string             `bson:"name" json:"name"`
	ImplementType string             `bson:"implementType,omitempty" json:"implementType,omitempty"` // e.g. "barbell", "dumbbell", "band"
	ExerciseType  string             `bson:"exerciseType,omitempty" json:"exerciseType,omitempty"`   // e.g. "strength", "cardio"
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutTemplate is a user-authored blueprint that seeds new workouts. It
// references exercise templates by id in display order.
type WorkoutTemplate struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OwnerID             primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Name                string               `bson:"name" json:"name"`
	LocationID          *primitive.ObjectID  `bson:"locationId,omitempty" json:"locationId,omitempty"`
	LocationName        *string              `bson:"locationName,omitempty" json:"locationName,omitempty"`
	ExerciseTemplateIDs []primitive.ObjectID `bson:"exerciseTemplateIds" json:"exerciseTemplateIds"` // ordered
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt" json:"updatedAt"`
}
