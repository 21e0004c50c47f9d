package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dukerupert/fitcoach/internal/model"
)

var ErrInvalidUserID = errors.New("user id is not a valid ObjectID")

type workoutDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	User         primitive.ObjectID `bson:"user"`
	ExerciseName string             `bson:"exerciseName"`
	Sets         int                `bson:"sets"`
	Reps         int                `bson:"reps"`
	Weight       float64            `bson:"weight"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d workoutDoc) toModel() model.Workout {
	return model.Workout{
		ID:           d.ID.Hex(),
		UserID:       d.User.Hex(),
		ExerciseName: d.ExerciseName,
		Sets:         d.Sets,
		Reps:         d.Reps,
		Weight:       d.Weight,
		CreatedAt:    d.CreatedAt,
	}
}

type WorkoutStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func parseUserID(userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return oid, nil
}

func (s *WorkoutStore) Create(ctx context.Context, userID, exerciseName string, sets, reps int, weight float64) (*model.Workout, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	doc := workoutDoc{
		ID:           primitive.NewObjectID(),
		User:         oid,
		ExerciseName: exerciseName,
		Sets:         sets,
		Reps:         reps,
		Weight:       weight,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	w := doc.toModel()
	return &w, nil
}

func (s *WorkoutStore) List(ctx context.Context, userID string) ([]model.Workout, error) {
	return s.find(ctx, userID, 0)
}

func (s *WorkoutStore) Recent(ctx context.Context, userID string, limit int) ([]model.Workout, error) {
	return s.find(ctx, userID, limit)
}

// find returns the user's workouts newest first; limit 0 means all.
func (s *WorkoutStore) find(ctx context.Context, userID string, limit int) ([]model.Workout, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	var docs []workoutDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode workouts: %w", err)
	}

	workouts := make([]model.Workout, 0, len(docs))
	for _, d := range docs {
		workouts = append(workouts, d.toModel())
	}
	return workouts, nil
}
