package api

import (
	"database/sql"
	"net/http"

	"github.com/medcarehq/medcare/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
// Reads are open to any authenticated user; writes are gated by role,
// with admins allowed everywhere.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	patientsHandler := &PatientsHandler{DB: db}
	doctorsHandler := &DoctorsHandler{DB: db}
	appointmentsHandler := &AppointmentsHandler{DB: db}
	bedsHandler := &BedsHandler{DB: db}
	inventoryHandler := &InventoryHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireDoctor := RequireRole(model.RoleDoctor)
	requirePharmacy := RequireRole(model.RolePharmacy)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Patients: read (all roles), write (doctors).
	mux.Handle("GET /api/patients", authMW(http.HandlerFunc(patientsHandler.List)))
	mux.Handle("POST /api/patients", authMW(requireDoctor(http.HandlerFunc(patientsHandler.Create))))
	mux.Handle("GET /api/patients/{id}", authMW(http.HandlerFunc(patientsHandler.Get)))
	mux.Handle("PUT /api/patients/{id}", authMW(requireDoctor(http.HandlerFunc(patientsHandler.Update))))
	mux.Handle("DELETE /api/patients/{id}", authMW(requireDoctor(http.HandlerFunc(patientsHandler.Delete))))
	mux.Handle("PUT /api/patients/{id}/photo", authMW(requireDoctor(http.HandlerFunc(patientsHandler.UploadPhoto))))
	mux.Handle("GET /api/patients/{id}/photo", authMW(http.HandlerFunc(patientsHandler.GetPhoto)))

	// Doctors: read (all roles), write (admin).
	mux.Handle("GET /api/doctors", authMW(http.HandlerFunc(doctorsHandler.List)))
	mux.Handle("POST /api/doctors", authMW(requireAdmin(http.HandlerFunc(doctorsHandler.Create))))
	mux.Handle("GET /api/doctors/{id}", authMW(http.HandlerFunc(doctorsHandler.Get)))
	mux.Handle("PUT /api/doctors/{id}", authMW(requireAdmin(http.HandlerFunc(doctorsHandler.Update))))
	mux.Handle("DELETE /api/doctors/{id}", authMW(requireAdmin(http.HandlerFunc(doctorsHandler.Delete))))

	// Appointments: read (all roles), write (doctors).
	mux.Handle("GET /api/appointments", authMW(http.HandlerFunc(appointmentsHandler.List)))
	mux.Handle("POST /api/appointments", authMW(requireDoctor(http.HandlerFunc(appointmentsHandler.Create))))
	mux.Handle("GET /api/appointments/{id}", authMW(http.HandlerFunc(appointmentsHandler.Get)))
	mux.Handle("PUT /api/appointments/{id}/status", authMW(requireDoctor(http.HandlerFunc(appointmentsHandler.UpdateStatus))))
	mux.Handle("DELETE /api/appointments/{id}", authMW(requireDoctor(http.HandlerFunc(appointmentsHandler.Delete))))

	// Beds: read (all roles), lifecycle writes (doctors).
	mux.Handle("GET /api/beds", authMW(http.HandlerFunc(bedsHandler.List)))
	mux.Handle("POST /api/beds", authMW(requireAdmin(http.HandlerFunc(bedsHandler.Create))))
	mux.Handle("GET /api/beds/stats", authMW(http.HandlerFunc(bedsHandler.Stats)))
	mux.Handle("GET /api/beds/floors", authMW(http.HandlerFunc(bedsHandler.Floors)))
	mux.Handle("GET /api/beds/{id}", authMW(http.HandlerFunc(bedsHandler.Get)))
	mux.Handle("POST /api/beds/{id}/assign", authMW(requireDoctor(http.HandlerFunc(bedsHandler.Assign))))
	mux.Handle("PUT /api/beds/{id}/status", authMW(requireDoctor(http.HandlerFunc(bedsHandler.UpdateStatus))))
	mux.Handle("POST /api/beds/{id}/discharge", authMW(requireDoctor(http.HandlerFunc(bedsHandler.Discharge))))
	mux.Handle("POST /api/beds/{id}/cleaned", authMW(requireDoctor(http.HandlerFunc(bedsHandler.CleaningComplete))))

	// Inventory: read (all roles), write (pharmacy).
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /api/inventory", authMW(requirePharmacy(http.HandlerFunc(inventoryHandler.Create))))
	mux.Handle("GET /api/inventory/summary", authMW(http.HandlerFunc(inventoryHandler.Summary)))
	mux.Handle("GET /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Get)))
	mux.Handle("PUT /api/inventory/{id}/status", authMW(requirePharmacy(http.HandlerFunc(inventoryHandler.UpdateStatus))))
	mux.Handle("DELETE /api/inventory/{id}", authMW(requirePharmacy(http.HandlerFunc(inventoryHandler.Delete))))

	return mux
}
