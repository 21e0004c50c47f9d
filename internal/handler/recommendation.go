package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/fitcoach/internal/auth"
	"github.com/dukerupert/fitcoach/internal/coach"
)

type PlanRecommender interface {
	Recommend(ctx context.Context, userID string) (json.RawMessage, error)
}

type RecommendationHandler struct {
	coach  PlanRecommender
	logger *slog.Logger
}

func NewRecommendationHandler(c PlanRecommender, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{coach: c, logger: logger}
}

func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	plan, err := h.coach.Recommend(r.Context(), userID)
	if err != nil {
		if errors.Is(err, coach.ErrAIConfigMissing) {
			h.logger.Error("ai recommendation requested without GEMINI_API_KEY")
			writeError(w, http.StatusInternalServerError, "AI Coach is not configured. The API key is missing.")
			return
		}
		h.logger.Error("generate plan", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "The AI coach could not generate a plan. Please try again later.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(plan)
}
