package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mealhub/delivery-backend/internal/order"
)

// DeliveryHandler serves the deliverer-facing job endpoints.
type DeliveryHandler struct {
	orders order.Service
}

func NewDeliveryHandler(orders order.Service) *DeliveryHandler {
	return &DeliveryHandler{orders: orders}
}

func (h *DeliveryHandler) Available(w http.ResponseWriter, r *http.Request) {
	views, err := h.orders.ListAvailable(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, views)
}

func (h *DeliveryHandler) Active(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	views, err := h.orders.ListActiveForDeliverer(r.Context(), id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, views)
}

func (h *DeliveryHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	q := r.URL.Query()
	views, err := h.orders.ListHistoryForDeliverer(r.Context(), id.UserID, q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, views)
}

func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	view, err := h.orders.GetDelivery(r.Context(), id.UserID, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

type acceptRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	// The contact payload is optional; profile data fills the gaps.
	var req acceptRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}
	view, err := h.orders.Accept(r.Context(), id.UserID, chi.URLParam(r, "orderID"), req.Name, req.Phone)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	view, err := h.orders.UpdateStatusByDeliverer(r.Context(), id.UserID,
		chi.URLParam(r, "orderID"), order.Status(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

type incidentRequest struct {
	Note string `json:"note" validate:"required"`
}

func (h *DeliveryHandler) ReportIncident(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req incidentRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.orders.ReportIncident(r.Context(), id.UserID, chi.URLParam(r, "orderID"), req.Note); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"reported": true})
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DeliveryHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req locationRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.orders.UpdateCourierLocation(r.Context(), id.UserID,
		chi.URLParam(r, "orderID"), req.Lat, req.Lng); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *DeliveryHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	q := r.URL.Query()
	report, err := h.orders.Earnings(r.Context(), id.UserID, q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

func (h *DeliveryHandler) DropoffLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.orders.DropoffLocations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, locations)
}
