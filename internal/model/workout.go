package model

import "time"

// Workout is a single logged exercise entry. The JSON field names match the
// web client, which expects "_id" and "user".
type Workout struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"user"`
	ExerciseName string    `json:"exerciseName"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	Weight       float64   `json:"weight"`
	CreatedAt    time.Time `json:"createdAt"`
}
