package coach

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dukerupert/fitcoach/internal/model"
)

// HistoryLimit is how many of the newest workouts feed the prompt.
const HistoryLimit = 10

const emptyHistory = "The user has no logged workouts yet. Please create a balanced, beginner-friendly 3-day full-body workout plan."

const promptTemplate = `You are an expert fitness coach. Based on the user's recent workout history, create a new personalized 3-day workout plan designed to promote muscle growth and strength.

User's recent workouts:
%s

Instructions:
1. Create a plan for 3 distinct days.
2. Each day should have a clear focus (e.g., "Push Day", "Pull Day", "Leg Day", or "Full Body A").
3. Include 3-5 exercises per day.
4. Provide a reasonable number of sets and a rep range (e.g., "8-12 reps").
5. Ensure the plan is balanced and targets major muscle groups over the 3 days.

Return ONLY the JSON object for the plan, shaped exactly like:
{"plan": [{"day": 1, "focus": "Push Day", "exercises": [{"name": "Bench Press", "sets": 4, "reps": "8-10"}]}]}
`

// FormatHistory renders one line per workout, or the beginner instruction
// when there is no history.
func FormatHistory(workouts []model.Workout) string {
	if len(workouts) == 0 {
		return emptyHistory
	}
	lines := make([]string, 0, len(workouts))
	for _, w := range workouts {
		lines = append(lines, fmt.Sprintf("- %s: %d sets of %d reps at %skg on %s",
			w.ExerciseName, w.Sets, w.Reps,
			strconv.FormatFloat(w.Weight, 'f', -1, 64),
			w.CreatedAt.Format("1/2/2006"),
		))
	}
	return strings.Join(lines, "\n")
}

func BuildPrompt(workouts []model.Workout) string {
	return fmt.Sprintf(promptTemplate, FormatHistory(workouts))
}
