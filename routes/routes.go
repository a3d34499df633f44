package routes

import (
	"github.com/gorilla/mux"

	"camops/handlers"
	"camops/middleware"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// PUBLIC
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/logout", handlers.Logout).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/validate", handlers.ValidateToken).Methods(MethodsGetOnly...)

	// Live updates for the dashboard (auth middleware passes websocket
	// upgrades through)
	r.HandleFunc("/ws", handlers.ServeWS)

	// ====================
	// PROTECTED API ROUTES
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// ====================
	// WORKERS
	// ====================
	apiRouter.HandleFunc("/workers", handlers.ListWorkers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/workers", handlers.CreateWorker).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/workers/{id}", handlers.GetWorker).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/workers/{id}", handlers.UpdateWorker).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/workers/{id}", handlers.DeleteWorker).Methods(MethodsDeleteOnly...)

	// ====================
	// CAMERAS
	// ====================
	apiRouter.HandleFunc("/cameras", handlers.ListCameras).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/cameras", handlers.CreateCamera).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/cameras/{id}", handlers.GetCamera).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/cameras/{id}", handlers.UpdateCamera).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/cameras/{id}", handlers.DeleteCamera).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/cameras/{id}/reassign", handlers.ReassignCamera).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/cameras/{id}/history", handlers.GetCameraHistory).Methods(MethodsGetOnly...)

	// ====================
	// TOURNAMENTS
	// ====================
	apiRouter.HandleFunc("/tournaments", handlers.ListTournaments).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tournaments", handlers.CreateTournament).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/tournaments/calendar", handlers.GetTournamentCalendar).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tournaments/evaluate", handlers.EvaluateTournament).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/tournaments/{id}", handlers.GetTournament).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tournaments/{id}", handlers.UpdateTournament).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/tournaments/{id}", handlers.DeleteTournament).Methods(MethodsDeleteOnly...)

	// ====================
	// SHIPMENTS
	// ====================
	apiRouter.HandleFunc("/shipments", handlers.ListShipments).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/shipments", handlers.CreateShipment).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/shipments/{id}", handlers.GetShipment).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/shipments/{id}", handlers.UpdateShipment).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/shipments/{id}", handlers.DeleteShipment).Methods(MethodsDeleteOnly...)

	// ====================
	// CAMERA HISTORY
	// ====================
	apiRouter.HandleFunc("/camera-history", handlers.ListHistory).Methods(MethodsGetOnly...)

	// ====================
	// DASHBOARD / MAP / CALENDAR
	// ====================
	apiRouter.HandleFunc("/dashboard/stats", handlers.GetDashboardStats).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/map", handlers.GetMapData).Methods(MethodsGetOnly...)

	// ====================
	// USERS & AUTH
	// ====================
	apiRouter.HandleFunc("/users", handlers.ListUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users", handlers.CreateUser).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.UpdateUser).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.DeleteUser).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/user/change-password", handlers.ChangePassword).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/login-history", handlers.ListLoginHistory).Methods(MethodsGetOnly...)
}
