package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

var dietChartColumns = []interface{}{
	"id", "patient_id", "date", "meal_type", "ingredients", "instructions",
	"assigned_to_pantry", "created_at",
}

// DietChartAdapter implements the DietChartRepository interface
type DietChartAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDietChartAdapter creates a new diet-chart adapter
func NewDietChartAdapter(client *postgres.Client) repositories.DietChartRepository {
	return &DietChartAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new diet chart
func (a *DietChartAdapter) Create(ctx context.Context, chart *entities.DietChart) error {
	record := goqu.Record{
		"id":                 chart.ID,
		"patient_id":         chart.PatientID,
		"date":               chart.Date,
		"meal_type":          chart.MealType,
		"ingredients":        pq.Array(chart.Ingredients),
		"instructions":       sql.NullString{String: chart.Instructions, Valid: chart.Instructions != ""},
		"assigned_to_pantry": chart.AssignedToPantry,
		"created_at":         chart.CreatedAt,
	}

	query, args, err := a.db.Insert("diet_charts").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build diet chart insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create diet chart", err)
	}

	return nil
}

// GetByID retrieves a diet chart by ID
func (a *DietChartAdapter) GetByID(ctx context.Context, id string) (*entities.DietChart, error) {
	query, args, err := a.db.Select(dietChartColumns...).From("diet_charts").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build diet chart query", err)
	}

	chart, err := scanDietChart(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("diet chart with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get diet chart", err)
	}

	return chart, nil
}

// List retrieves all diet charts, newest first
func (a *DietChartAdapter) List(ctx context.Context) ([]*entities.DietChart, error) {
	query, args, err := a.db.Select(dietChartColumns...).From("diet_charts").
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build diet chart list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list diet charts", err)
	}
	defer rows.Close()

	var charts []*entities.DietChart
	for rows.Next() {
		chart, err := scanDietChart(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan diet chart", err)
		}
		charts = append(charts, chart)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate diet charts", err)
	}

	return charts, nil
}

func scanDietChart(row rowScanner) (*entities.DietChart, error) {
	chart := &entities.DietChart{}
	var ingredients pq.StringArray
	var instructions sql.NullString

	err := row.Scan(
		&chart.ID,
		&chart.PatientID,
		&chart.Date,
		&chart.MealType,
		&ingredients,
		&instructions,
		&chart.AssignedToPantry,
		&chart.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	chart.Ingredients = ingredients
	chart.Instructions = instructions.String
	return chart, nil
}
