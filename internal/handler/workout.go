package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/fitcoach/internal/auth"
	"github.com/dukerupert/fitcoach/internal/model"
	"github.com/dukerupert/fitcoach/internal/websocket"
)

type WorkoutStore interface {
	List(ctx context.Context, userID string) ([]model.Workout, error)
	Create(ctx context.Context, userID, exerciseName string, sets, reps int, weight float64) (*model.Workout, error)
}

type WorkoutHandler struct {
	store  WorkoutStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewWorkoutHandler(store WorkoutStore, hub *websocket.Hub, logger *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{store: store, hub: hub, logger: logger}
}

// Pointer fields distinguish an absent value from an explicit zero.
type workoutRequest struct {
	ExerciseName *string  `json:"exerciseName"`
	Sets         *int     `json:"sets"`
	Reps         *int     `json:"reps"`
	Weight       *float64 `json:"weight"`
}

func (req workoutRequest) validate() string {
	switch {
	case req.ExerciseName == nil || strings.TrimSpace(*req.ExerciseName) == "":
		return "exerciseName is required"
	case req.Sets == nil:
		return "sets is required"
	case req.Reps == nil:
		return "reps is required"
	case req.Weight == nil:
		return "weight is required"
	case *req.Sets < 0 || *req.Reps < 0 || *req.Weight < 0:
		return "sets, reps and weight must not be negative"
	}
	return ""
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	workouts, err := h.store.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list workouts", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error fetching workouts")
		return
	}
	if workouts == nil {
		workouts = []model.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req workoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	workout, err := h.store.Create(r.Context(), userID,
		strings.TrimSpace(*req.ExerciseName), *req.Sets, *req.Reps, *req.Weight)
	if err != nil {
		h.logger.Error("create workout", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error adding workout")
		return
	}

	if h.hub != nil {
		h.hub.SendToUser(userID, websocket.NewMessage("workout", "created", workout.ID, workout))
	}

	writeJSON(w, http.StatusCreated, workout)
}
