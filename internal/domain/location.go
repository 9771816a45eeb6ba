package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a gym or training place owned by a user. Locations are
// soft-deleted; a deleted location can no longer be assigned to a workout,
// but snapshotted location names on past workouts stay intact.
type Location struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name      string             `bson:"name" json:"name"`
	DeletedAt *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
