package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/gymcore-backend/internal/httpx"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts catalog routes. adminGate protects writes, staffGate
// protects reads.
func (h *Handler) RegisterRoutes(router *chi.Mux, adminGate, staffGate func(http.Handler) http.Handler) {
	router.Route("/api/v1/catalog", func(r chi.Router) {
		r.With(adminGate).Post("/products", h.createProduct)
		r.With(staffGate).Get("/products", h.listProducts)
		r.With(staffGate).Get("/products/{id}", h.getProduct)
		r.With(adminGate).Post("/products/{id}/restock", h.restock)
		r.With(adminGate).Put("/products/{id}/price", h.updatePrice)

		r.With(adminGate).Post("/plans", h.createPlan)
		r.With(staffGate).Get("/plans", h.listPlans)
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.M{"product": p})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"products": products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"product": p})
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Restock(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"product": p})
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.UpdatePrice(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"product": p})
}

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.CreatePlan(r.Context(), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.M{"plan": p})
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"plans": plans})
}
