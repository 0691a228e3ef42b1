package cashsession

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/gymcore-backend/internal/httpx"
)

// Handler exposes register lifecycle endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, staffGate func(http.Handler) http.Handler) {
	router.Route("/api/v1/cash-session", func(r chi.Router) {
		r.Use(staffGate)
		r.Post("/open", h.open)
		r.Post("/close", h.close)
		r.Get("/current", h.current)
	})
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := h.service.Open(r.Context(), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.M{"session_id": session.ID, "session": session})
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	var req CloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.FailStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := h.service.Close(r.Context(), req)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{
		"expected_amount": session.ExpectedAmount,
		"variance":        session.Variance,
		"session":         session,
	})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Current(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	if session == nil {
		httpx.OK(w, http.StatusOK, httpx.M{"found": false})
		return
	}
	httpx.OK(w, http.StatusOK, httpx.M{"found": true, "session": session})
}
