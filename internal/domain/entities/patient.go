package entities

import (
	"time"
)

// Patient represents an admitted patient and their ward placement
type Patient struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Diseases         []string  `json:"diseases" db:"diseases"`
	Allergies        []string  `json:"allergies" db:"allergies"`
	RoomNumber       string    `json:"room_number" db:"room_number"`
	BedNumber        string    `json:"bed_number" db:"bed_number"`
	FloorNumber      string    `json:"floor_number" db:"floor_number"`
	Age              int       `json:"age" db:"age"`
	Gender           string    `json:"gender" db:"gender"`
	ContactNumber    string    `json:"contact_number" db:"contact_number"`
	EmergencyContact string    `json:"emergency_contact" db:"emergency_contact"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// PatientRef is the minimal patient shape embedded in denormalized responses.
type PatientRef struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	RoomNumber string `json:"room_number" db:"room_number"`
	BedNumber  string `json:"bed_number" db:"bed_number"`
}
