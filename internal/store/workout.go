package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/fitcoach/internal/model"
)

type WorkoutStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewWorkoutStore(db *sql.DB) *WorkoutStore {
	return &WorkoutStore{db: db, now: time.Now}
}

func scanWorkout(scanner interface{ Scan(...any) error }) (*model.Workout, error) {
	var w model.Workout
	err := scanner.Scan(&w.ID, &w.UserID, &w.ExerciseName, &w.Sets, &w.Reps, &w.Weight, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const workoutCols = `id, user_id, exercise_name, sets, reps, weight, created_at`

// Create records a workout owned by userID. The id and timestamp are
// assigned here, never by the caller.
func (s *WorkoutStore) Create(ctx context.Context, userID, exerciseName string, sets, reps int, weight float64) (*model.Workout, error) {
	w := &model.Workout{
		ID:           uuid.NewString(),
		UserID:       userID,
		ExerciseName: exerciseName,
		Sets:         sets,
		Reps:         reps,
		Weight:       weight,
		CreatedAt:    s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workouts (`+workoutCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.ExerciseName, w.Sets, w.Reps, w.Weight, w.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	return w, nil
}

// List returns every workout owned by userID, newest first.
func (s *WorkoutStore) List(ctx context.Context, userID string) ([]model.Workout, error) {
	return s.query(ctx,
		`SELECT `+workoutCols+` FROM workouts WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
}

// Recent returns at most limit of the user's newest workouts.
func (s *WorkoutStore) Recent(ctx context.Context, userID string, limit int) ([]model.Workout, error) {
	return s.query(ctx,
		`SELECT `+workoutCols+` FROM workouts WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
}

func (s *WorkoutStore) query(ctx context.Context, q string, args ...any) ([]model.Workout, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []model.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}
