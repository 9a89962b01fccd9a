package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mealhub/delivery-backend/internal/order"
)

// OrderHandler serves the customer-facing order endpoints.
type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req order.CreateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.Create(r.Context(), id.UserID, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, view)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	views, err := h.orders.ListForCustomer(r.Context(), id.UserID, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, views)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.GetForCustomer(r.Context(), id.UserID, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.CancelByCustomer(r.Context(), id.UserID, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

type ratingRequest struct {
	Score   int64  `json:"score" validate:"required"`
	Comment string `json:"comment"`
}

func (h *OrderHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req ratingRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.AttachRating(r.Context(), id.UserID, chi.URLParam(r, "orderID"), req.Score, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}
