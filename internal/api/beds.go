package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/medcarehq/medcare/internal/model"
	"github.com/medcarehq/medcare/internal/report"
	"github.com/medcarehq/medcare/internal/store"
)

// BedsHandler handles bed management endpoints.
type BedsHandler struct {
	DB *sql.DB
}

type createBedRequest struct {
	BedNumber string `json:"bed_number"`
	Ward      string `json:"ward"`
	Floor     int    `json:"floor"`
	Type      string `json:"type"`
}

type assignPatientRequest struct {
	PatientID int64 `json:"patient_id"`
}

type updateBedStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// List handles GET /api/beds.
func (h *BedsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := store.BedQuery{
		Search: r.URL.Query().Get("search"),
		Ward:   r.URL.Query().Get("ward"),
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
	}

	beds, err := store.ListBeds(r.Context(), h.DB, q)
	if err != nil {
		slog.Error("failed to list beds", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list beds")
		return
	}
	if beds == nil {
		beds = []model.Bed{}
	}
	jsonResponse(w, http.StatusOK, beds)
}

// Get handles GET /api/beds/{id}.
func (h *BedsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bed id")
		return
	}

	bed, err := store.GetBed(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get bed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get bed")
		return
	}
	if bed == nil {
		jsonError(w, http.StatusNotFound, "bed not found")
		return
	}

	jsonResponse(w, http.StatusOK, bed)
}

// Create handles POST /api/beds.
func (h *BedsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBedRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BedNumber == "" || req.Ward == "" {
		jsonError(w, http.StatusBadRequest, "bed_number and ward required")
		return
	}

	bed, err := store.CreateBed(r.Context(), h.DB, req.BedNumber, req.Ward, req.Floor, req.Type)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("bed created", "user", claims.Username, "bed", req.BedNumber, "ward", req.Ward)
	jsonResponse(w, http.StatusCreated, bed)
}

// Stats handles GET /api/beds/stats. Returns the overall occupancy
// numbers plus a per-ward breakdown.
func (h *BedsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	beds, err := store.ListBeds(r.Context(), h.DB, store.BedQuery{})
	if err != nil {
		slog.Error("failed to list beds", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute bed stats")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"stats": report.ComputeBedStats(beds),
		"wards": report.WardOccupancy(beds),
	})
}

// Floors handles GET /api/beds/floors. Returns beds grouped by floor,
// floors ascending.
func (h *BedsHandler) Floors(w http.ResponseWriter, r *http.Request) {
	beds, err := store.ListBeds(r.Context(), h.DB, store.BedQuery{})
	if err != nil {
		slog.Error("failed to list beds", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to group beds")
		return
	}

	groups := report.GroupBedsByFloor(beds)
	if groups == nil {
		groups = []report.FloorGroup{}
	}
	jsonResponse(w, http.StatusOK, groups)
}

// Assign handles POST /api/beds/{id}/assign.
func (h *BedsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bed id")
		return
	}

	var req assignPatientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PatientID <= 0 {
		jsonError(w, http.StatusBadRequest, "patient_id required")
		return
	}

	bed, err := store.AssignPatient(r.Context(), h.DB, id, req.PatientID)
	if err != nil {
		writeBedError(w, err, "failed to assign patient")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("patient assigned to bed", "user", claims.Username,
		"bed", bed.BedNumber, "patient", bed.AssignedPatient.Code)
	jsonResponse(w, http.StatusOK, bed)
}

// UpdateStatus handles PUT /api/beds/{id}/status.
func (h *BedsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bed id")
		return
	}

	var req updateBedStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := model.BedStatus(req.Status)
	if !status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid bed status")
		return
	}

	bed, err := store.UpdateBedStatus(r.Context(), h.DB, id, status, req.Notes)
	if err != nil {
		writeBedError(w, err, "failed to update bed status")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("bed status updated", "user", claims.Username, "bed", bed.BedNumber, "status", status)
	jsonResponse(w, http.StatusOK, bed)
}

// Discharge handles POST /api/beds/{id}/discharge.
func (h *BedsHandler) Discharge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bed id")
		return
	}

	bed, err := store.DischargePatient(r.Context(), h.DB, id)
	if err != nil {
		writeBedError(w, err, "failed to discharge patient")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("patient discharged", "user", claims.Username, "bed", bed.BedNumber)
	jsonResponse(w, http.StatusOK, bed)
}

// CleaningComplete handles POST /api/beds/{id}/cleaned.
func (h *BedsHandler) CleaningComplete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bed id")
		return
	}

	bed, err := store.MarkCleaningComplete(r.Context(), h.DB, id)
	if err != nil {
		writeBedError(w, err, "failed to complete cleaning")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("bed cleaning complete", "user", claims.Username, "bed", bed.BedNumber)
	jsonResponse(w, http.StatusOK, bed)
}

// writeBedError maps store errors to HTTP statuses: unknown ids are 404,
// invalid lifecycle transitions are 409.
func writeBedError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidState):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(fallback, "error", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
