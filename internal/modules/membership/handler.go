package membership

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/gymcore-backend/internal/httpx"
)

// Handler exposes membership read endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, staffGate func(http.Handler) http.Handler) {
	router.With(staffGate).Get("/api/v1/memberships/user/{user_id}", h.listByUser)
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.service.ListUserMemberships(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"memberships": memberships})
}
