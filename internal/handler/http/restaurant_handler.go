package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mealhub/delivery-backend/internal/menu"
	"github.com/mealhub/delivery-backend/internal/order"
)

// RestaurantHandler serves the restaurant console: incoming orders, menu
// management, and sales reports. Every operation is scoped to the
// caller's restaurant.
type RestaurantHandler struct {
	orders order.Service
	menu   menu.Service
}

func NewRestaurantHandler(orders order.Service, menuSvc menu.Service) *RestaurantHandler {
	return &RestaurantHandler{orders: orders, menu: menuSvc}
}

func (h *RestaurantHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	views, err := h.orders.RestaurantOrders(r.Context(), id.RestaurantScope(), r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, views)
}

func (h *RestaurantHandler) Order(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.GetForRestaurant(r.Context(), id.RestaurantScope(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (h *RestaurantHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.UpdateStatusByRestaurant(r.Context(), id.RestaurantScope(),
		chi.URLParam(r, "orderID"), order.Status(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (h *RestaurantHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	report, err := h.orders.Report(r.Context(), id.RestaurantScope(), r.URL.Query().Get("range"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

func (h *RestaurantHandler) Menu(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	items, err := h.menu.List(r.Context(), id.RestaurantScope())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, items)
}

func (h *RestaurantHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var item menu.Item
	if err := decode(r, &item); err != nil {
		respondError(w, err)
		return
	}
	created, err := h.menu.Create(r.Context(), id.RestaurantScope(), &item)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *RestaurantHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var patch menu.Patch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	updated, err := h.menu.Update(r.Context(), id.RestaurantScope(), chi.URLParam(r, "itemID"), &patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *RestaurantHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.menu.Delete(r.Context(), id.RestaurantScope(), chi.URLParam(r, "itemID")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"deleted": true})
}
