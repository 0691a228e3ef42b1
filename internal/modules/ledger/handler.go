package ledger

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/gymcore-backend/internal/httpx"
)

// Handler exposes the financial ledger endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, adminGate func(http.Handler) http.Handler) {
	router.Route("/api/v1/ledger", func(r chi.Router) {
		r.Use(adminGate)
		r.Post("/", h.recordManual)
		r.Get("/", h.list)
	})
}

func (h *Handler) recordManual(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.service.RecordManual(r.Context(), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.M{"entry": entry})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	from, to := parseRange(r)
	entries, summary, err := h.service.List(r.Context(), from, to)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"entries": entries, "summary": summary})
}

// parseRange reads ?from and ?to (RFC 3339 date), defaulting to the current
// calendar month.
func parseRange(r *http.Request) (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t
		}
	}
	return from, to
}
