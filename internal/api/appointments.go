package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/medcarehq/medcare/internal/model"
	"github.com/medcarehq/medcare/internal/store"
)

// AppointmentsHandler handles appointment scheduling endpoints.
type AppointmentsHandler struct {
	DB *sql.DB
}

type createAppointmentRequest struct {
	Code       string `json:"code"`
	PatientID  int64  `json:"patient_id"`
	DoctorID   int64  `json:"doctor_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Type       string `json:"type"`
	Notes      string `json:"notes"`
	Department string `json:"department"`
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/appointments. Accepts doctor_id, date, and
// status query parameters.
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var doctorID int64
	if v := params.Get("doctor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid doctor_id")
			return
		}
		doctorID = id
	}

	appointments, err := store.ListAppointments(r.Context(), h.DB, doctorID,
		params.Get("date"), params.Get("status"))
	if err != nil {
		slog.Error("failed to list appointments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	jsonResponse(w, http.StatusOK, appointments)
}

// Get handles GET /api/appointments/{id}.
func (h *AppointmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	appointment, err := store.GetAppointment(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get appointment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get appointment")
		return
	}
	if appointment == nil {
		jsonError(w, http.StatusNotFound, "appointment not found")
		return
	}

	jsonResponse(w, http.StatusOK, appointment)
}

// Create handles POST /api/appointments.
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" || req.PatientID <= 0 || req.DoctorID <= 0 || req.Date == "" || req.Time == "" {
		jsonError(w, http.StatusBadRequest, "code, patient_id, doctor_id, date, and time required")
		return
	}

	appointment, err := store.CreateAppointment(r.Context(), h.DB, &model.Appointment{
		Code:       req.Code,
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		Date:       req.Date,
		Time:       req.Time,
		Type:       req.Type,
		Notes:      req.Notes,
		Department: req.Department,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, err.Error())
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("appointment scheduled", "user", claims.Username,
		"appointment", req.Code, "patient", appointment.PatientName, "doctor", appointment.DoctorName)
	jsonResponse(w, http.StatusCreated, appointment)
}

// UpdateStatus handles PUT /api/appointments/{id}/status.
func (h *AppointmentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req updateAppointmentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateAppointmentStatus(r.Context(), h.DB, id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "appointment not found")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	appointment, _ := store.GetAppointment(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, appointment)
}

// Delete handles DELETE /api/appointments/{id}.
func (h *AppointmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	if err := store.DeleteAppointment(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete appointment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("appointment cancelled", "user", claims.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "appointment deleted"})
}
