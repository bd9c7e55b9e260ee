package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mealroute/hospital-meal-service/internal/adapters/database"
	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/clients/postgres"
	"github.com/mealroute/hospital-meal-service/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	userRepo := database.NewUserAdapter(pgClient)
	patientRepo := database.NewPatientAdapter(pgClient)
	chartRepo := database.NewDietChartAdapter(pgClient)
	deliveryRepo := database.NewDeliveryAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				deliveries,
				diet_charts,
				patients,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Seed Users
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "Password@2025"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := []entities.User{
		{ID: uuid.New().String(), Email: "manager@hospital.com", FullName: "Hospital Manager", Role: entities.RoleManager, ContactNumber: "+91-9000000001"},
		{ID: uuid.New().String(), Email: "pantry1@hospital.com", FullName: "Priya Pantry", Role: entities.RolePantryStaff, ContactNumber: "+91-9000000002"},
		{ID: uuid.New().String(), Email: "pantry2@hospital.com", FullName: "Arun Pantry", Role: entities.RolePantryStaff, ContactNumber: "+91-9000000003"},
		{ID: uuid.New().String(), Email: "delivery1@hospital.com", FullName: "Dinesh Delivery", Role: entities.RoleDeliveryStaff, ContactNumber: "+91-9000000004"},
		{ID: uuid.New().String(), Email: "delivery2@hospital.com", FullName: "Deepa Delivery", Role: entities.RoleDeliveryStaff, ContactNumber: "+91-9000000005"},
	}

	for i := range users {
		users[i].PasswordHash = hash
		users[i].CreatedAt = now
		users[i].UpdatedAt = now
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Printf("Failed to create user %s: %v", users[i].Email, err)
		}
	}
	pantryUser := users[1]

	// 2. Seed Patients
	patients := []entities.Patient{
		{
			ID: uuid.New().String(), Name: "Ravi Kumar",
			Diseases: []string{"diabetes"}, Allergies: []string{"peanuts"},
			RoomNumber: "101", BedNumber: "A", FloorNumber: "1",
			Age: 54, Gender: "male",
			ContactNumber: "+91-9111111111", EmergencyContact: "+91-9222222222",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), Name: "Meena Iyer",
			Diseases: []string{"hypertension"}, Allergies: []string{},
			RoomNumber: "203", BedNumber: "B", FloorNumber: "2",
			Age: 67, Gender: "female",
			ContactNumber: "+91-9333333333", EmergencyContact: "+91-9444444444",
			CreatedAt: now, UpdatedAt: now,
		},
	}

	for i := range patients {
		if err := patientRepo.Create(ctx, &patients[i]); err != nil {
			log.Printf("Failed to create patient %s: %v", patients[i].Name, err)
		}
	}

	// 3. Seed a diet chart with its pending delivery
	chart := entities.DietChart{
		ID:               uuid.New().String(),
		PatientID:        patients[0].ID,
		Date:             now,
		MealType:         entities.MealTypeMorning,
		Ingredients:      []string{"oats", "skim milk", "banana"},
		Instructions:     "No added sugar",
		AssignedToPantry: pantryUser.ID,
		CreatedAt:        now,
	}
	if err := chartRepo.Create(ctx, &chart); err != nil {
		log.Printf("Failed to create diet chart: %v", err)
	}

	delivery := entities.Delivery{
		ID:                uuid.New().String(),
		DietChartID:       chart.ID,
		PreparationStatus: entities.PreparationStatusPending,
		DeliveryStatus:    entities.DeliveryStatusPending,
		AssignedToPantry:  pantryUser.ID,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := deliveryRepo.Create(ctx, &delivery); err != nil {
		log.Printf("Failed to create delivery: %v", err)
	}

	log.Printf("Seeding complete: %d users, %d patients, 1 diet chart", len(users), len(patients))
}
