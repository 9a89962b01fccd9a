package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mealhub/delivery-backend/internal/auth"
	handler "github.com/mealhub/delivery-backend/internal/handler/http"
)

// Handlers bundles the dependencies of the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Orders     *handler.OrderHandler
	Delivery   *handler.DeliveryHandler
	Restaurant *handler.RestaurantHandler
	Shops      *handler.ShopHandler
	Push       *handler.PushHandler
	Verifier   auth.Verifier
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)

	// Public restaurant directory.
	r.Get("/restaurants", h.Shops.List)
	r.Get("/restaurants/{shopID}", h.Shops.Get)
	r.Get("/restaurants/{shopID}/menu", h.Shops.Menu)

	authenticated := auth.Authenticate(h.Verifier)

	r.Group(func(r chi.Router) {
		r.Use(authenticated, auth.RequireRole(auth.RoleCustomer))
		r.Post("/orders", h.Orders.Create)
		r.Get("/orders", h.Orders.List)
		r.Get("/orders/{orderID}", h.Orders.Get)
		r.Patch("/orders/{orderID}/cancel", h.Orders.Cancel)
		r.Post("/orders/{orderID}/rating", h.Orders.Rate)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated, auth.RequireRole(auth.RoleDeliverer))
		r.Get("/delivery/available", h.Delivery.Available)
		r.Get("/delivery/active", h.Delivery.Active)
		r.Get("/delivery/history", h.Delivery.History)
		r.Get("/delivery/earnings", h.Delivery.Earnings)
		r.Get("/delivery/locations", h.Delivery.DropoffLocations)
		r.Get("/delivery/{orderID}", h.Delivery.Get)
		r.Post("/delivery/{orderID}/accept", h.Delivery.Accept)
		r.Patch("/delivery/{orderID}/status", h.Delivery.UpdateStatus)
		r.Post("/delivery/{orderID}/incident", h.Delivery.ReportIncident)
		r.Post("/delivery/{orderID}/location", h.Delivery.UpdateLocation)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated, auth.RequireRole(auth.RoleRestaurant))
		r.Get("/restaurant/orders", h.Restaurant.Orders)
		r.Get("/restaurant/orders/{orderID}", h.Restaurant.Order)
		r.Patch("/restaurant/orders/{orderID}/status", h.Restaurant.UpdateOrderStatus)
		r.Get("/restaurant/menu", h.Restaurant.Menu)
		r.Post("/restaurant/menu", h.Restaurant.CreateMenuItem)
		r.Patch("/restaurant/menu/{itemID}", h.Restaurant.UpdateMenuItem)
		r.Delete("/restaurant/menu/{itemID}", h.Restaurant.DeleteMenuItem)
		r.Get("/restaurant/reports", h.Restaurant.Report)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/push/register", h.Push.Register)
	})

	return r
}
