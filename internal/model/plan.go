package model

import (
	"encoding/json"
	"strconv"
)

type WorkoutPlan struct {
	Plan []PlanDay `json:"plan"`
}

type PlanDay struct {
	Day       int            `json:"day"`
	Focus     string         `json:"focus"`
	Exercises []PlanExercise `json:"exercises"`
}

type PlanExercise struct {
	Name string   `json:"name"`
	Sets int      `json:"sets"`
	Reps RepRange `json:"reps"`
}

// RepRange is a rep target such as "8-12". Models sometimes answer with a
// bare number, so a JSON number decodes too.
type RepRange string

func (r *RepRange) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RepRange(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*r = RepRange(n.String())
	return nil
}
