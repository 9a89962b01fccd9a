package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mealhub/delivery-backend/internal/apperr"
	"github.com/mealhub/delivery-backend/internal/menu"
	"github.com/mealhub/delivery-backend/internal/shop"
)

// ShopHandler serves the public restaurant directory.
type ShopHandler struct {
	shops shop.Repository
	menu  menu.Service
}

func NewShopHandler(shops shop.Repository, menuSvc menu.Service) *ShopHandler {
	return &ShopHandler{shops: shops, menu: menuSvc}
}

func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shops.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, shops)
}

func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.shops.GetByID(r.Context(), chi.URLParam(r, "shopID"))
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			respondError(w, apperr.NotFound(apperr.CodeShopNotFound, "Restaurant not found"))
			return
		}
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, s)
}

func (h *ShopHandler) Menu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context(), chi.URLParam(r, "shopID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, items)
}
