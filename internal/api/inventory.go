package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/medcarehq/medcare/internal/model"
	"github.com/medcarehq/medcare/internal/report"
	"github.com/medcarehq/medcare/internal/store"
)

// InventoryHandler handles medicine inventory endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

type addMedicineRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Supplier    string   `json:"supplier"`
	Quantity    int      `json:"quantity"`
	MinStock    int      `json:"min_stock"`
	UnitPrice   float64  `json:"unit_price"`
	ExpiryDate  string   `json:"expiry_date"`
	BatchNumber string   `json:"batch_number"`
	UseCases    []string `json:"use_cases"`
}

type updateMedicineStatusRequest struct {
	Status string `json:"status"`
}

// inventoryView is the full dashboard payload: the filtered and sorted
// items, their alphabetical buckets and letter index (populated only in
// alphabetical sort mode), and the summary numbers. The summary always
// covers the whole inventory so the dashboard cards stay constant while
// filtering.
type inventoryView struct {
	Items    []model.Medicine         `json:"items"`
	Groups   []report.AlphaGroup      `json:"groups"`
	Index    []report.AlphaIndexEntry `json:"index"`
	Selected string                   `json:"selected"`
	Summary  report.InventorySummary  `json:"summary"`
}

// List handles GET /api/inventory. Accepts search, category, status, and
// sort query parameters.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	medicines, err := store.ListMedicines(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list medicines", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list medicines")
		return
	}

	params := r.URL.Query()
	filtered := report.FilterMedicines(medicines, report.InventoryQuery{
		Search:   params.Get("search"),
		Category: params.Get("category"),
		Status:   params.Get("status"),
	})

	sort := params.Get("sort")
	if sort == "" {
		sort = report.SortAlphabetical
	}
	sorted := report.SortMedicines(filtered, sort)
	if sorted == nil {
		sorted = []model.Medicine{}
	}

	groups := []report.AlphaGroup{}
	index := []report.AlphaIndexEntry{}
	selected := ""
	if sort == report.SortAlphabetical {
		groups = report.AlphaGroups(sorted)
		index, selected = report.AlphaIndex(groups)
	}

	jsonResponse(w, http.StatusOK, inventoryView{
		Items:    sorted,
		Groups:   groups,
		Index:    index,
		Selected: selected,
		Summary:  report.Summarize(medicines, time.Now()),
	})
}

// Summary handles GET /api/inventory/summary. The summary covers the
// whole inventory, unfiltered.
func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	medicines, err := store.ListMedicines(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list medicines", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to summarize inventory")
		return
	}

	jsonResponse(w, http.StatusOK, report.Summarize(medicines, time.Now()))
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req addMedicineRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Category == "" || req.ExpiryDate == "" {
		jsonError(w, http.StatusBadRequest, "name, category, and expiry_date required")
		return
	}

	medicine, err := store.CreateMedicine(r.Context(), h.DB, &model.Medicine{
		Name:        req.Name,
		Category:    req.Category,
		Supplier:    req.Supplier,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		UnitPrice:   req.UnitPrice,
		ExpiryDate:  req.ExpiryDate,
		BatchNumber: req.BatchNumber,
		UseCases:    req.UseCases,
	})
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("medicine added", "user", claims.Username, "medicine", req.Name, "quantity", req.Quantity)
	jsonResponse(w, http.StatusCreated, medicine)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}

	medicine, err := store.GetMedicine(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get medicine", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get medicine")
		return
	}
	if medicine == nil {
		jsonError(w, http.StatusNotFound, "medicine not found")
		return
	}

	jsonResponse(w, http.StatusOK, medicine)
}

// UpdateStatus handles PUT /api/inventory/{id}/status.
func (h *InventoryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}

	var req updateMedicineStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := model.MedicineStatus(req.Status)
	if !status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid medicine status")
		return
	}

	if err := store.UpdateMedicineStatus(r.Context(), h.DB, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "medicine not found")
			return
		}
		slog.Error("failed to update medicine status", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update medicine status")
		return
	}

	medicine, err := store.GetMedicine(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get medicine", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get medicine")
		return
	}
	if medicine == nil {
		jsonError(w, http.StatusNotFound, "medicine not found")
		return
	}
	jsonResponse(w, http.StatusOK, medicine)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}

	if err := store.DeleteMedicine(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete medicine", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete medicine")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("medicine deleted", "user", claims.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "medicine deleted"})
}
