package coach

import "github.com/dukerupert/fitcoach/internal/model"

// FallbackPlan is the fixed Push/Pull/Leg split served when a model reply
// cannot be parsed under the lenient policy.
func FallbackPlan() model.WorkoutPlan {
	return model.WorkoutPlan{Plan: []model.PlanDay{
		{
			Day:   1,
			Focus: "Push Day",
			Exercises: []model.PlanExercise{
				{Name: "Bench Press", Sets: 4, Reps: "8-10"},
				{Name: "Overhead Press", Sets: 3, Reps: "8-12"},
				{Name: "Push-ups", Sets: 3, Reps: "10-15"},
				{Name: "Tricep Dips", Sets: 3, Reps: "8-12"},
			},
		},
		{
			Day:   2,
			Focus: "Pull Day",
			Exercises: []model.PlanExercise{
				{Name: "Pull-ups", Sets: 4, Reps: "6-10"},
				{Name: "Bent-over Row", Sets: 4, Reps: "8-10"},
				{Name: "Lat Pulldown", Sets: 3, Reps: "10-12"},
				{Name: "Bicep Curls", Sets: 3, Reps: "10-15"},
			},
		},
		{
			Day:   3,
			Focus: "Leg Day",
			Exercises: []model.PlanExercise{
				{Name: "Squats", Sets: 4, Reps: "8-12"},
				{Name: "Deadlifts", Sets: 3, Reps: "6-8"},
				{Name: "Lunges", Sets: 3, Reps: "10-12"},
				{Name: "Calf Raises", Sets: 4, Reps: "15-20"},
			},
		},
	}}
}
