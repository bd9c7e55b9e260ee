package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

var deliveryColumns = []interface{}{
	"id", "diet_chart_id", "preparation_status", "delivery_status",
	"assigned_to_pantry", "assigned_to_delivery", "delivered_at", "version",
	"created_at", "updated_at",
}

// DeliveryAdapter implements the DeliveryRepository interface
type DeliveryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDeliveryAdapter creates a new delivery adapter
func NewDeliveryAdapter(client *postgres.Client) repositories.DeliveryRepository {
	return &DeliveryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new delivery
func (a *DeliveryAdapter) Create(ctx context.Context, delivery *entities.Delivery) error {
	record := goqu.Record{
		"id":                   delivery.ID,
		"diet_chart_id":        delivery.DietChartID,
		"preparation_status":   delivery.PreparationStatus,
		"delivery_status":      delivery.DeliveryStatus,
		"assigned_to_pantry":   delivery.AssignedToPantry,
		"assigned_to_delivery": delivery.AssignedToDelivery,
		"delivered_at":         delivery.DeliveredAt,
		"version":              delivery.Version,
		"created_at":           delivery.CreatedAt,
		"updated_at":           delivery.UpdatedAt,
	}

	query, args, err := a.db.Insert("deliveries").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delivery insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create delivery", err)
	}

	return nil
}

// GetByID retrieves a delivery by ID
func (a *DeliveryAdapter) GetByID(ctx context.Context, id string) (*entities.Delivery, error) {
	query, args, err := a.db.Select(deliveryColumns...).From("deliveries").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build delivery query", err)
	}

	delivery := &entities.Delivery{}
	var assignedToDelivery sql.NullString
	var deliveredAt sql.NullTime

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&delivery.ID,
		&delivery.DietChartID,
		&delivery.PreparationStatus,
		&delivery.DeliveryStatus,
		&delivery.AssignedToPantry,
		&assignedToDelivery,
		&deliveredAt,
		&delivery.Version,
		&delivery.CreatedAt,
		&delivery.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("delivery with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get delivery", err)
	}

	if assignedToDelivery.Valid {
		delivery.AssignedToDelivery = &assignedToDelivery.String
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		delivery.DeliveredAt = &t
	}

	return delivery, nil
}

// Update persists the delivery's mutable fields guarded by its version. It
// bumps delivery.Version on success and fails with a conflict error when a
// concurrent writer already advanced the row.
func (a *DeliveryAdapter) Update(ctx context.Context, delivery *entities.Delivery) error {
	delivery.UpdatedAt = time.Now()

	record := goqu.Record{
		"preparation_status":   delivery.PreparationStatus,
		"delivery_status":      delivery.DeliveryStatus,
		"assigned_to_delivery": delivery.AssignedToDelivery,
		"delivered_at":         delivery.DeliveredAt,
		"version":              delivery.Version + 1,
		"updated_at":           delivery.UpdatedAt,
	}

	query, args, err := a.db.Update("deliveries").
		Set(record).
		Where(goqu.Ex{"id": delivery.ID, "version": delivery.Version}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delivery update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update delivery", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		// Either the row is gone or another writer bumped the version.
		if _, getErr := a.GetByID(ctx, delivery.ID); getErr != nil {
			return getErr
		}
		return apperrors.NewConflictError(fmt.Sprintf("delivery %s was modified concurrently", delivery.ID))
	}

	delivery.Version++
	return nil
}

// GetViewByID returns one delivery in the denormalized list shape.
func (a *DeliveryAdapter) GetViewByID(ctx context.Context, id string) (*entities.DeliveryView, error) {
	query, args, err := a.viewDataset().
		Where(goqu.I("d.id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build delivery view query", err)
	}

	view, err := scanDeliveryView(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("delivery with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get delivery view", err)
	}

	return view, nil
}

// ListForUser returns the denormalized deliveries visible to a user.
func (a *DeliveryAdapter) ListForUser(ctx context.Context, role entities.Role, userID string) ([]*entities.DeliveryView, error) {
	ds := a.viewDataset()

	switch role {
	case entities.RolePantryStaff:
		ds = ds.Where(goqu.I("d.assigned_to_pantry").Eq(userID))
	case entities.RoleDeliveryStaff:
		ds = ds.Where(goqu.I("d.assigned_to_delivery").Eq(userID))
	case entities.RoleManager:
		// Managers see all deliveries.
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	query, args, err := ds.Order(goqu.I("d.created_at").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build delivery list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list deliveries", err)
	}
	defer rows.Close()

	var views []*entities.DeliveryView
	for rows.Next() {
		view, err := scanDeliveryView(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan delivery", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate deliveries", err)
	}

	return views, nil
}

func (a *DeliveryAdapter) viewDataset() *goqu.SelectDataset {
	return a.db.Select(
		goqu.I("d.id"),
		goqu.I("d.preparation_status"),
		goqu.I("d.delivery_status"),
		goqu.I("d.delivered_at"),
		goqu.I("d.created_at"),
		goqu.I("dc.id"),
		goqu.I("dc.date"),
		goqu.I("dc.meal_type"),
		goqu.I("p.id"),
		goqu.I("p.name"),
		goqu.I("p.room_number"),
		goqu.I("p.bed_number"),
		goqu.I("up.id"),
		goqu.I("up.full_name"),
		goqu.I("ud.id"),
		goqu.I("ud.full_name"),
	).From(goqu.T("deliveries").As("d")).
		Join(goqu.T("diet_charts").As("dc"), goqu.On(goqu.I("dc.id").Eq(goqu.I("d.diet_chart_id")))).
		Join(goqu.T("patients").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("dc.patient_id")))).
		Join(goqu.T("users").As("up"), goqu.On(goqu.I("up.id").Eq(goqu.I("d.assigned_to_pantry")))).
		LeftJoin(goqu.T("users").As("ud"), goqu.On(goqu.I("ud.id").Eq(goqu.I("d.assigned_to_delivery"))))
}

func scanDeliveryView(row rowScanner) (*entities.DeliveryView, error) {
	view := &entities.DeliveryView{}
	var deliveredAt sql.NullTime
	var deliveryStaffID, deliveryStaffName sql.NullString

	err := row.Scan(
		&view.ID,
		&view.PreparationStatus,
		&view.DeliveryStatus,
		&deliveredAt,
		&view.CreatedAt,
		&view.DietChart.ID,
		&view.DietChart.Date,
		&view.DietChart.MealType,
		&view.DietChart.Patient.ID,
		&view.DietChart.Patient.Name,
		&view.DietChart.Patient.RoomNumber,
		&view.DietChart.Patient.BedNumber,
		&view.AssignedToPantry.ID,
		&view.AssignedToPantry.FullName,
		&deliveryStaffID,
		&deliveryStaffName,
	)
	if err != nil {
		return nil, err
	}

	if deliveredAt.Valid {
		t := deliveredAt.Time
		view.DeliveredAt = &t
	}
	if deliveryStaffID.Valid {
		view.AssignedToDelivery = &entities.UserRef{
			ID:       deliveryStaffID.String,
			FullName: deliveryStaffName.String,
		}
	}

	return view, nil
}
