package sale

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/gymcore-backend/internal/httpx"
)

// Handler exposes the sale endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, staffGate func(http.Handler) http.Handler) {
	router.Route("/api/v1/sale", func(r chi.Router) {
		r.Use(staffGate)
		r.Post("/", h.processSale)
		r.Get("/{id}", h.getSale)
		r.Get("/session/{session_id}", h.listSessionSales)
	})
}

func (h *Handler) processSale(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	sold, err := h.service.ProcessSale(r.Context(), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.M{"sale": sold})
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sold, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"sale": sold})
}

func (h *Handler) listSessionSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSessionSales(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"sales": sales})
}
