package entities

import (
	"time"
)

// MealType represents the meal slot of a diet chart
type MealType string

const (
	MealTypeMorning MealType = "morning"
	MealTypeEvening MealType = "evening"
	MealTypeNight   MealType = "night"
)

// Valid reports whether the meal type is a known slot.
func (m MealType) Valid() bool {
	switch m {
	case MealTypeMorning, MealTypeEvening, MealTypeNight:
		return true
	}
	return false
}

// DietChart is a prescribed meal plan for a patient on a given date and
// meal slot. Immutable after creation.
type DietChart struct {
	ID               string    `json:"id" db:"id"`
	PatientID        string    `json:"patient_id" db:"patient_id"`
	Date             time.Time `json:"date" db:"date"`
	MealType         MealType  `json:"meal_type" db:"meal_type"`
	Ingredients      []string  `json:"ingredients" db:"ingredients"`
	Instructions     string    `json:"instructions" db:"instructions"`
	AssignedToPantry string    `json:"assigned_to_pantry" db:"assigned_to_pantry"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// DietChartRef is the denormalized diet-chart shape embedded in delivery
// responses: enough for a client to render a delivery row without extra
// lookups.
type DietChartRef struct {
	ID       string     `json:"id" db:"id"`
	Date     time.Time  `json:"date" db:"date"`
	MealType MealType   `json:"meal_type" db:"meal_type"`
	Patient  PatientRef `json:"patient"`
}
