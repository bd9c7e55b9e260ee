package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

var patientColumns = []interface{}{
	"id", "name", "diseases", "allergies", "room_number", "bed_number",
	"floor_number", "age", "gender", "contact_number", "emergency_contact",
	"created_at", "updated_at",
}

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new patient
func (a *PatientAdapter) Create(ctx context.Context, patient *entities.Patient) error {
	query, args, err := a.db.Insert("patients").Rows(a.record(patient)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build patient insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create patient", err)
	}

	return nil
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).From("patients").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient query", err)
	}

	patient, err := scanPatient(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}

	return patient, nil
}

// Update updates a patient
func (a *PatientAdapter) Update(ctx context.Context, patient *entities.Patient) error {
	patient.UpdatedAt = time.Now()

	record := a.record(patient)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("patients").
		Set(record).
		Where(goqu.Ex{"id": patient.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build patient update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update patient", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("patient with id %s not found", patient.ID))
	}

	return nil
}

// List retrieves all patients
func (a *PatientAdapter) List(ctx context.Context) ([]*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).From("patients").
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}
	defer rows.Close()

	var patients []*entities.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient", err)
		}
		patients = append(patients, patient)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate patients", err)
	}

	return patients, nil
}

func (a *PatientAdapter) record(patient *entities.Patient) goqu.Record {
	return goqu.Record{
		"id":                patient.ID,
		"name":              patient.Name,
		"diseases":          pq.Array(patient.Diseases),
		"allergies":         pq.Array(patient.Allergies),
		"room_number":       patient.RoomNumber,
		"bed_number":        patient.BedNumber,
		"floor_number":      patient.FloorNumber,
		"age":               patient.Age,
		"gender":            sql.NullString{String: patient.Gender, Valid: patient.Gender != ""},
		"contact_number":    sql.NullString{String: patient.ContactNumber, Valid: patient.ContactNumber != ""},
		"emergency_contact": sql.NullString{String: patient.EmergencyContact, Valid: patient.EmergencyContact != ""},
		"created_at":        patient.CreatedAt,
		"updated_at":        patient.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*entities.Patient, error) {
	patient := &entities.Patient{}
	var diseases, allergies pq.StringArray
	var gender, contactNumber, emergencyContact sql.NullString

	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&diseases,
		&allergies,
		&patient.RoomNumber,
		&patient.BedNumber,
		&patient.FloorNumber,
		&patient.Age,
		&gender,
		&contactNumber,
		&emergencyContact,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	patient.Diseases = diseases
	patient.Allergies = allergies
	patient.Gender = gender.String
	patient.ContactNumber = contactNumber.String
	patient.EmergencyContact = emergencyContact.String
	return patient, nil
}
