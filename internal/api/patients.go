package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/medcarehq/medcare/internal/imaging"
	"github.com/medcarehq/medcare/internal/model"
	"github.com/medcarehq/medcare/internal/store"
)

// PatientsHandler handles patient record endpoints.
type PatientsHandler struct {
	DB *sql.DB
}

type patientRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	BloodGroup string `json:"blood_group"`
	Condition  string `json:"condition"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
}

func (req *patientRequest) toModel() *model.Patient {
	return &model.Patient{
		Code:       req.Code,
		Name:       req.Name,
		Age:        req.Age,
		Gender:     req.Gender,
		Phone:      req.Phone,
		Email:      req.Email,
		BloodGroup: req.BloodGroup,
		Condition:  req.Condition,
		Priority:   req.Priority,
		Status:     req.Status,
	}
}

// List handles GET /api/patients.
func (h *PatientsHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := store.ListPatients(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("failed to list patients", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	if patients == nil {
		patients = []model.Patient{}
	}
	jsonResponse(w, http.StatusOK, patients)
}

// Get handles GET /api/patients/{id}.
func (h *PatientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	patient, err := store.GetPatient(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get patient", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get patient")
		return
	}
	if patient == nil {
		jsonError(w, http.StatusNotFound, "patient not found")
		return
	}

	jsonResponse(w, http.StatusOK, patient)
}

// Create handles POST /api/patients.
func (h *PatientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "code and name required")
		return
	}

	patient, err := store.CreatePatient(r.Context(), h.DB, req.toModel())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("patient registered", "user", claims.Username, "patient", req.Code)
	jsonResponse(w, http.StatusCreated, patient)
}

// Update handles PUT /api/patients/{id}.
func (h *PatientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	var req patientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdatePatient(r.Context(), h.DB, id, req.toModel()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "patient not found")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	patient, _ := store.GetPatient(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, patient)
}

// Delete handles DELETE /api/patients/{id}.
func (h *PatientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	if err := store.DeletePatient(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete patient", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete patient")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("patient deleted", "user", claims.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "patient deleted"})
}

// UploadPhoto handles PUT /api/patients/{id}/photo.
func (h *PatientsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetPatientPhoto(r.Context(), h.DB, id, photo.Data, photo.Thumb, photo.MIME); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "patient not found")
			return
		}
		slog.Error("failed to save patient photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/patients/{id}/photo. Pass ?size=thumb for
// the roster thumbnail.
func (h *PatientsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	thumb := r.URL.Query().Get("size") == "thumb"
	data, mime, err := store.GetPatientPhoto(r.Context(), h.DB, id, thumb)
	if err != nil {
		slog.Error("failed to get patient photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
