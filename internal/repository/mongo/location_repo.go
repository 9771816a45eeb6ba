package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

const locationCollectionName = "locations"

// mongoLocationRepository implements repository.LocationRepository. This
// subsystem only ever reads locations, to validate reassignment and snapshot
// the name.
type mongoLocationRepository struct {
	collection *mongo.Collection
}

// NewMongoLocationRepository creates a new location repository.
func NewMongoLocationRepository(db *mongo.Database) repository.LocationRepository {
	return &mongoLocationRepository{
		collection: db.Collection(locationCollectionName),
	}
}

// GetActiveByIDForOwner retrieves a location scoped to its owner, excluding
// soft-deleted ones.
func (r *mongoLocationRepository) GetActiveByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Location, error) {
	var location domain.Location
	filter := bson.M{"_id": id, "ownerId": ownerID, "deletedAt": nil}
	err := r.collection.FindOne(ctx, filter).Decode(&location)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// EnsureLocationIndexes creates necessary indexes. Call during startup.
func EnsureLocationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
