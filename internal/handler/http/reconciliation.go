package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/handler/http/response"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/validator"
)

type ReconciliationHandler struct {
	service reconciliation.ReconciliationService
}

func NewReconciliationHandler(service reconciliation.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// Run triggers an on-demand reconciliation pass. The route sits behind the
// internal-secret middleware; the body is the shared trigger contract.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req reconciliation.RunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.service.Run(r.Context(), req, "manual")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAbsences handles GET /api/v1/absences.
func (h *ReconciliationHandler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	filter := reconciliation.AbsenceFilter{
		Date:          parseDateParam(r, "date"),
		TeamID:        parseIDParam(r, "team_id"),
		ElectricianID: parseIDParam(r, "electrician_id"),
	}
	filter.Page, filter.Limit = parsePagination(r)

	absences, total, err := h.service.ListAbsences(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, absences, paginationMeta(filter.Page, filter.Limit, total))
}

// ListDivergences handles GET /api/v1/divergences.
func (h *ReconciliationHandler) ListDivergences(w http.ResponseWriter, r *http.Request) {
	filter := reconciliation.DivergenceFilter{
		Date:           parseDateParam(r, "date"),
		ExpectedTeamID: parseIDParam(r, "team_id"),
		ElectricianID:  parseIDParam(r, "electrician_id"),
	}
	filter.Page, filter.Limit = parsePagination(r)

	divergences, total, err := h.service.ListDivergences(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, divergences, paginationMeta(filter.Page, filter.Limit, total))
}

// ListOvertime handles GET /api/v1/overtime.
func (h *ReconciliationHandler) ListOvertime(w http.ResponseWriter, r *http.Request) {
	filter := reconciliation.OvertimeFilter{
		Date:          parseDateParam(r, "date"),
		ElectricianID: parseIDParam(r, "electrician_id"),
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter.Kind = &kind
	}
	filter.Page, filter.Limit = parsePagination(r)

	entries, total, err := h.service.ListOvertime(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries, paginationMeta(filter.Page, filter.Limit, total))
}

func parseDateParam(r *http.Request, name string) *string {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(value); !ok {
		return nil
	}
	return &value
}

func parseIDParam(r *http.Request, name string) *int64 {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	id, ok := validator.ParsePositiveInt(value)
	if !ok {
		return nil
	}
	return &id
}

func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) response.Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
