package routes

import (
	"net/http"

	"github.com/mealroute/hospital-meal-service/internal/api/handlers"
	"github.com/mealroute/hospital-meal-service/internal/api/middleware"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	authHandler *handlers.AuthHandler

	patientHandler *handlers.PatientHandler

	dietChartHandler *handlers.DietChartHandler

	deliveryHandler *handlers.DeliveryHandler

	userHandler *handlers.UserHandler

	sseHandler *handlers.SSEHandler

	jwtSecret string
}

// NewRouter creates a new router

func NewRouter(
	authHandler *handlers.AuthHandler,
	patientHandler *handlers.PatientHandler,
	dietChartHandler *handlers.DietChartHandler,
	deliveryHandler *handlers.DeliveryHandler,
	userHandler *handlers.UserHandler,
	sseHandler *handlers.SSEHandler,
	jwtSecret string,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler: authHandler,

		patientHandler: patientHandler,

		dietChartHandler: dietChartHandler,

		deliveryHandler: deliveryHandler,

		userHandler: userHandler,

		sseHandler: sseHandler,

		jwtSecret: jwtSecret,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints (no token required)

	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)

	// Everything below requires a valid token
	protect := middleware.AuthMiddleware(r.jwtSecret)

	// Patient endpoints

	r.handle("GET /api/patients", protect, r.patientHandler.ListPatients)

	r.handle("POST /api/patients", protect, r.patientHandler.CreatePatient)

	r.handle("GET /api/patients/{id}", protect, r.patientHandler.GetPatient)

	r.handle("PUT /api/patients/{id}", protect, r.patientHandler.UpdatePatient)

	// Diet chart endpoints

	r.handle("GET /api/diet-charts", protect, r.dietChartHandler.ListDietCharts)

	r.handle("POST /api/diet-charts", protect, r.dietChartHandler.CreateDietChart)

	// Delivery endpoints

	r.handle("GET /api/deliveries/{role}/{id}", protect, r.deliveryHandler.ListDeliveries)

	r.handle("PATCH /api/deliveries/{id}/preparation_status", protect, r.deliveryHandler.UpdatePreparationStatus)

	r.handle("PATCH /api/deliveries/{id}/delivery_status", protect, r.deliveryHandler.UpdateDeliveryStatus)

	r.handle("PATCH /api/deliveries/{id}/assign_delivery", protect, r.deliveryHandler.AssignDelivery)

	// Staff directory

	r.handle("GET /api/users", protect, r.userHandler.ListUsers)

	// SSE streaming endpoints (also served by the standalone SSE server)

	if r.sseHandler != nil {
		r.handle("GET /api/stream/users/{id}", protect, r.sseHandler.StreamUserUpdates)
		r.handle("GET /api/stream/deliveries", protect, r.sseHandler.StreamAllUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so preflight responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}

func (r *Router) handle(pattern string, protect func(http.Handler) http.Handler, h http.HandlerFunc) {
	r.mux.Handle(pattern, protect(h))
}
