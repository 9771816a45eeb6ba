package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

const exerciseTemplateCollectionName = "exercise_templates"

// mongoExerciseTemplateRepository implements repository.ExerciseTemplateRepository.
type mongoExerciseTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseTemplateRepository creates a new exercise template repository.
func NewMongoExerciseTemplateRepository(db *mongo.Database) repository.ExerciseTemplateRepository {
	return &mongoExerciseTemplateRepository{
		collection: db.Collection(exerciseTemplateCollectionName),
	}
}

// Create inserts a new exercise template.
func (r *mongoExerciseTemplateRepository) Create(ctx context.Context, tpl *domain.ExerciseTemplate) (primitive.ObjectID, error) {
	if tpl.OwnerID == primitive.NilObjectID || tpl.Name == "" {
		return primitive.NilObjectID, errors.New("exercise template requires ownerId and name")
	}
	tpl.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, tpl)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByIDForOwner retrieves an exercise template scoped to its owner.
func (r *mongoExerciseTemplateRepository) GetByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.ExerciseTemplate, error) {
	var tpl domain.ExerciseTemplate
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// GetManyForOwner fetches the templates for the given ids in one query.
// Missing or foreign ids are absent from the returned map; the caller decides
// whether that is an error.
func (r *mongoExerciseTemplateRepository) GetManyForOwner(ctx context.Context, ids []primitive.ObjectID, ownerID primitive.ObjectID) (map[primitive.ObjectID]domain.ExerciseTemplate, error) {
	result := make(map[primitive.ObjectID]domain.ExerciseTemplate, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}, "ownerId": ownerID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.ExerciseTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		result[tpl.ID] = tpl
	}
	return result, nil
}

// GetByOwner lists all exercise templates owned by the user, by name.
func (r *mongoExerciseTemplateRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseTemplate, error) {
	filter := bson.M{"ownerId": ownerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := make([]domain.ExerciseTemplate, 0)
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// EnsureExerciseTemplateIndexes creates necessary indexes. Call during startup.
func EnsureExerciseTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
