package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository. A workout
// and its exercises/sets live in one document, so every mutation is a single
// atomic write.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout aggregate. A unique partial index on
// (ownerId, status=in_progress) rejects a second in-progress workout for the
// same owner; that surfaces as ErrDuplicate.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.OwnerID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires ownerId and name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByIDForOwner retrieves a workout scoped to its owner. A workout owned by
// someone else is reported as not found.
func (r *mongoWorkoutRepository) GetByIDForOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetInProgressByOwner retrieves the owner's single in-progress workout.
func (r *mongoWorkoutRepository) GetInProgressByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"ownerId": ownerID, "status": domain.StatusInProgress}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// Update replaces the whole aggregate document.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	workout.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": workout.ID, "ownerId": workout.OwnerID}
	result, err := r.collection.ReplaceOne(ctx, filter, workout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout and, with it, its embedded exercises and sets.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "ownerId": ownerID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List runs the history query: AND-combined filters, two-key sort (primary
// field then _id ascending) and an optional keyset resume predicate.
func (r *mongoWorkoutRepository) List(ctx context.Context, filter repository.WorkoutListFilter) ([]domain.Workout, error) {
	query := bson.M{
		"ownerId": filter.OwnerID,
		"status":  filter.Status,
	}
	if filter.LocationID != nil {
		query["locationId"] = *filter.LocationID
	}
	if filter.MinRating != nil {
		query["rating"] = bson.M{"$gte": *filter.MinRating}
	}
	if filter.NotesContains != "" {
		query["notes"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(filter.NotesContains)}}
	}
	if filter.After != nil {
		if resume := resumePredicate(filter); resume != nil {
			query = bson.M{"$and": bson.A{query, resume}}
		}
	}

	primaryDir := 1
	if filter.Descending {
		primaryDir = -1
	}
	sort := bson.D{
		{Key: primarySortField(filter.SortBy), Value: primaryDir},
		{Key: "_id", Value: 1}, // tie-break ascending in both directions
	}
	findOptions := options.Find().SetSort(sort)
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := make([]domain.Workout, 0)
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func primarySortField(sortBy domain.HistorySort) string {
	if sortBy == domain.SortByRating {
		return "rating"
	}
	return "endedAt"
}

// resumePredicate builds the keyset condition for rows after the cursor:
// primary strictly past the cursor value, or primary equal and _id greater.
func resumePredicate(filter repository.WorkoutListFilter) bson.M {
	after := filter.After
	if filter.SortBy == domain.SortByRating {
		// Aggregation comparison operators use full BSON ordering, so a null
		// rating compares below every number instead of matching nothing.
		op := "$gt"
		if filter.Descending {
			op = "$lt"
		}
		var rating interface{}
		if after.Rating != nil {
			rating = *after.Rating
		}
		return bson.M{"$expr": bson.M{"$or": bson.A{
			bson.M{op: bson.A{"$rating", rating}},
			bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{"$rating", rating}},
				bson.M{"$gt": bson.A{"$_id", after.ID}},
			}},
		}}}
	}

	if after.EndedAt == nil {
		return nil
	}
	op := "$gt"
	if filter.Descending {
		op = "$lt"
	}
	return bson.M{"$or": bson.A{
		bson.M{"endedAt": bson.M{op: *after.EndedAt}},
		bson.M{"endedAt": *after.EndedAt, "_id": bson.M{"$gt": after.ID}},
	}}
}

// GetRecentCompleted returns the most recently finished workouts, newest
// first.
func (r *mongoWorkoutRepository) GetRecentCompleted(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]domain.Workout, error) {
	filter := bson.M{"ownerId": ownerID, "status": domain.StatusCompleted}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "endedAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := make([]domain.Workout, 0)
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Storage-level backstop for the one-in-progress-per-owner rule.
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.StatusInProgress}),
		},
		{
			// History pages sorted by end date.
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}, {Key: "endedAt", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index(),
		},
		{
			// History pages sorted by rating.
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}, {Key: "rating", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
