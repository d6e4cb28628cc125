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

// DoctorsHandler handles doctor roster endpoints.
type DoctorsHandler struct {
	DB *sql.DB
}

type doctorRequest struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Department     string             `json:"department"`
	Specialization string             `json:"specialization"`
	Phone          string             `json:"phone"`
	Email          string             `json:"email"`
	Experience     int                `json:"experience"`
	Status         string             `json:"status"`
	Availability   model.Availability `json:"availability"`
}

func (req *doctorRequest) toModel() *model.Doctor {
	return &model.Doctor{
		Code:           req.Code,
		Name:           req.Name,
		Department:     req.Department,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Email:          req.Email,
		Experience:     req.Experience,
		Status:         req.Status,
		Availability:   req.Availability,
	}
}

// List handles GET /api/doctors.
func (h *DoctorsHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := store.ListDoctors(r.Context(), h.DB,
		r.URL.Query().Get("department"), r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("failed to list doctors", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}
	if doctors == nil {
		doctors = []model.Doctor{}
	}
	jsonResponse(w, http.StatusOK, doctors)
}

// Get handles GET /api/doctors/{id}.
func (h *DoctorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid doctor id")
		return
	}

	doctor, err := store.GetDoctor(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get doctor", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get doctor")
		return
	}
	if doctor == nil {
		jsonError(w, http.StatusNotFound, "doctor not found")
		return
	}

	jsonResponse(w, http.StatusOK, doctor)
}

// Create handles POST /api/doctors.
func (h *DoctorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req doctorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" || req.Name == "" || req.Department == "" {
		jsonError(w, http.StatusBadRequest, "code, name, and department required")
		return
	}

	doctor, err := store.CreateDoctor(r.Context(), h.DB, req.toModel())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("doctor added", "user", claims.Username, "doctor", req.Code, "department", req.Department)
	jsonResponse(w, http.StatusCreated, doctor)
}

// Update handles PUT /api/doctors/{id}.
func (h *DoctorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid doctor id")
		return
	}

	var req doctorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateDoctor(r.Context(), h.DB, id, req.toModel()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "doctor not found")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, _ := store.GetDoctor(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, doctor)
}

// Delete handles DELETE /api/doctors/{id}.
func (h *DoctorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid doctor id")
		return
	}

	if err := store.DeleteDoctor(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete doctor", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete doctor")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("doctor removed", "user", claims.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "doctor deleted"})
}
