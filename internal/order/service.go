package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mealhub/delivery-backend/internal/apperr"
	"github.com/mealhub/delivery-backend/internal/geo"
	"github.com/mealhub/delivery-backend/internal/menu"
	"github.com/mealhub/delivery-backend/internal/shop"
	"github.com/mealhub/delivery-backend/internal/user"
)

const (
	currency          = "TWD"
	defaultETAMinutes = 20
	baseDeliveryFee   = 30
	feePerKm          = 10
	topItemsLimit     = 5
)

// UserDirectory resolves account contact data for snapshots and views.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// MenuDirectory resolves menu items at order-creation time.
type MenuDirectory interface {
	Lookup(ctx context.Context, id string) (*menu.Item, error)
}

// ShopDirectory resolves restaurant names and coordinates.
type ShopDirectory interface {
	GetByID(ctx context.Context, id string) (*shop.Shop, error)
}

type CreateItem struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Size       string `json:"size"`
	Spiciness  string `json:"spiciness"`
	AddDrink   bool   `json:"addDrink"`
	Quantity   int64  `json:"quantity"`
}

type CreateRequest struct {
	RestaurantID  string       `json:"restaurantId"`
	Items         []CreateItem `json:"items" validate:"required,min=1"`
	Dropoff       Dropoff      `json:"dropoff"`
	Notes         string       `json:"notes"`
	RequestedTime string       `json:"requestedTime"`
}

type Service interface {
	// Customer operations.
	Create(ctx context.Context, customerID string, req *CreateRequest) (*CustomerView, error)
	ListForCustomer(ctx context.Context, customerID, scope string) ([]CustomerSummary, error)
	GetForCustomer(ctx context.Context, customerID, id string) (*CustomerView, error)
	CancelByCustomer(ctx context.Context, customerID, id string) (*CustomerView, error)
	AttachRating(ctx context.Context, customerID, id string, score int64, comment string) (*CustomerView, error)

	// Deliverer operations.
	ListAvailable(ctx context.Context) ([]DeliveryView, error)
	ListActiveForDeliverer(ctx context.Context, delivererID string) ([]DeliveryView, error)
	ListHistoryForDeliverer(ctx context.Context, delivererID, from, to string) ([]DeliveryView, error)
	GetDelivery(ctx context.Context, delivererID, id string) (*DeliveryView, error)
	Accept(ctx context.Context, delivererID, id, riderName, riderPhone string) (*DeliveryView, error)
	UpdateStatusByDeliverer(ctx context.Context, delivererID, id string, next Status) (*DeliveryView, error)
	ReportIncident(ctx context.Context, delivererID, id, note string) error
	UpdateCourierLocation(ctx context.Context, delivererID, id string, lat, lng float64) error
	Earnings(ctx context.Context, delivererID, from, to string) (*EarningsReport, error)
	DropoffLocations(ctx context.Context) ([]DropoffLocation, error)

	// Restaurant operations.
	RestaurantOrders(ctx context.Context, restaurantID, scope string) ([]RestaurantView, error)
	GetForRestaurant(ctx context.Context, restaurantID, id string) (*RestaurantView, error)
	UpdateStatusByRestaurant(ctx context.Context, restaurantID, id string, next Status) (*RestaurantView, error)
	Report(ctx context.Context, restaurantID, rng string) (*RestaurantReport, error)
}

type service struct {
	repo  Repository
	users UserDirectory
	menu  MenuDirectory
	shops ShopDirectory
	now   func() time.Time
}

func NewService(repo Repository, users UserDirectory, menuDir MenuDirectory, shops ShopDirectory) Service {
	return &service{
		repo:  repo,
		users: users,
		menu:  menuDir,
		shops: shops,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, customerID string, req *CreateRequest) (*CustomerView, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	if req.Dropoff.Name == "" {
		return nil, apperr.Validation("dropoff is required")
	}

	items := make([]LineItem, 0, len(req.Items))
	restaurantID := req.RestaurantID
	var itemsTotal int64
	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be positive")
		}
		mi, err := s.menu.Lookup(ctx, ci.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !mi.IsAvailable {
			return nil, apperr.New(apperr.KindValidation, apperr.CodeMenuUnavailable, "menu item unavailable")
		}
		if restaurantID == "" {
			restaurantID = mi.RestaurantID
		}
		if mi.RestaurantID != restaurantID {
			return nil, apperr.Validation("items must belong to a single restaurant")
		}
		items = append(items, LineItem{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			Size:       ci.Size,
			Spiciness:  ci.Spiciness,
			AddDrink:   ci.AddDrink,
			Quantity:   ci.Quantity,
			Price:      mi.Price,
		})
		itemsTotal += mi.Price * ci.Quantity
	}

	sh, err := s.shops.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			return nil, apperr.Validation("unknown restaurant")
		}
		log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("service: failed to resolve restaurant")
		return nil, apperr.Internal(err)
	}

	eta := int64(defaultETAMinutes)
	var distanceKm float64
	if sh.Lat != nil && sh.Lng != nil && req.Dropoff.Lat != nil && req.Dropoff.Lng != nil {
		distanceKm = geo.HaversineKm(*sh.Lat, *sh.Lng, *req.Dropoff.Lat, *req.Dropoff.Lng)
		eta = 10 + int64(distanceKm*4)
	}
	fee := int64(baseDeliveryFee) + int64(distanceKm)*feePerKm

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generating order id: %w", err))
	}
	now := s.now()
	o := &Order{
		ID:             fmt.Sprintf("ord-%x", uid.Bytes()[:3]),
		Code:           strings.ToUpper(fmt.Sprintf("%x", uid.Bytes()[3:6])),
		CustomerID:     customerID,
		RestaurantID:   restaurantID,
		RestaurantName: sh.Name,
		Items:          items,
		DeliveryFee:    fee,
		TotalAmount:    itemsTotal + fee,
		Status:         StatusAvailable,
		History:        []HistoryEntry{{Status: StatusAvailable, Timestamp: now}},
		Dropoff:        req.Dropoff,
		Notes:          req.Notes,
		RequestedTime:  req.RequestedTime,
		ETAMinutes:     eta,
		DistanceKm:     distanceKm,
		PlacedAt:       now,
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		log.Error().Err(err).Str("order_id", o.ID).Msg("service: failed to insert order")
		return nil, apperr.Internal(err)
	}

	log.Info().Str("order_id", o.ID).Str("customer_id", customerID).Msg("order placed")
	view := o.customerView()
	return &view, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID, scope string) ([]CustomerSummary, error) {
	f := Filter{CustomerID: customerID}
	switch scope {
	case "", "active":
		f.Statuses = ActiveStatuses
	case "history":
		f.Statuses = TerminalStatuses
	default:
		return nil, apperr.Validation("unknown scope")
	}
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("service: failed to list customer orders")
		return nil, apperr.Internal(err)
	}
	out := make([]CustomerSummary, len(orders))
	for i := range orders {
		out[i] = orders[i].customerSummary()
	}
	return out, nil
}

func (s *service) GetForCustomer(ctx context.Context, customerID, id string) (*CustomerView, error) {
	o, err := s.ownedByCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	view := o.customerView()
	return &view, nil
}

func (s *service) CancelByCustomer(ctx context.Context, customerID, id string) (*CustomerView, error) {
	o, err := s.ownedByCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if IsTerminal(o.Status) {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order already completed")
	}
	ok, err := s.repo.Transition(ctx, id, o.Status, StatusCancelled, s.now())
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to cancel order")
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order state changed, retry")
	}
	log.Info().Str("order_id", id).Msg("order cancelled by customer")
	return s.GetForCustomer(ctx, customerID, id)
}

func (s *service) AttachRating(ctx context.Context, customerID, id string, score int64, comment string) (*CustomerView, error) {
	if score < 1 || score > 5 {
		return nil, apperr.Validation("score must be between 1 and 5")
	}
	if _, err := s.ownedByCustomer(ctx, customerID, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.AttachRating(ctx, id, Rating{Score: score, Comment: comment})
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to attach rating")
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order is not delivered")
	}
	return s.GetForCustomer(ctx, customerID, id)
}

func (s *service) ListAvailable(ctx context.Context) ([]DeliveryView, error) {
	orders, err := s.repo.List(ctx, Filter{Statuses: []Status{StatusAvailable}})
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list available orders")
		return nil, apperr.Internal(err)
	}
	out := make([]DeliveryView, len(orders))
	for i := range orders {
		// Contact data is withheld until the job is accepted.
		out[i] = orders[i].deliveryView(nil)
	}
	return out, nil
}

func (s *service) ListActiveForDeliverer(ctx context.Context, delivererID string) ([]DeliveryView, error) {
	orders, err := s.repo.List(ctx, Filter{
		DelivererID: delivererID,
		Statuses:    []Status{StatusAssigned, StatusEnRouteToPickup, StatusPickedUp, StatusDelivering},
	})
	if err != nil {
		log.Error().Err(err).Str("deliverer_id", delivererID).Msg("service: failed to list active deliveries")
		return nil, apperr.Internal(err)
	}
	return s.deliveryViews(ctx, orders), nil
}

func (s *service) ListHistoryForDeliverer(ctx context.Context, delivererID, from, to string) ([]DeliveryView, error) {
	f := Filter{DelivererID: delivererID, Statuses: TerminalStatuses}
	if from != "" || to != "" {
		start, end, err := geo.DayRange(from, to)
		if err != nil {
			return nil, err
		}
		f.PlacedFrom = &start
		f.PlacedTo = &end
	}
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error().Err(err).Str("deliverer_id", delivererID).Msg("service: failed to list delivery history")
		return nil, apperr.Internal(err)
	}
	return s.deliveryViews(ctx, orders), nil
}

// GetDelivery returns a job detail. Unclaimed orders are visible to every
// deliverer; claimed ones only to the assignee.
func (s *service) GetDelivery(ctx context.Context, delivererID, id string) (*DeliveryView, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusAvailable {
		view := o.deliveryView(nil)
		return &view, nil
	}
	if o.DelivererID != delivererID {
		return nil, apperr.Forbidden("forbidden")
	}
	view := o.deliveryView(s.customerContact(ctx, o))
	return &view, nil
}

// Accept claims an available order for the deliverer. The conditional
// assignment in the repository serializes racing accepts; exactly one
// caller wins, the rest get a conflict. Contact fields left empty by the
// caller are filled from the deliverer's profile.
func (s *service) Accept(ctx context.Context, delivererID, id, riderName, riderPhone string) (*DeliveryView, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusAvailable {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order already taken")
	}

	if riderName == "" || riderPhone == "" {
		u, err := s.users.GetByID(ctx, delivererID)
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			log.Error().Err(err).Str("deliverer_id", delivererID).Msg("service: failed to resolve deliverer")
			return nil, apperr.Internal(err)
		}
		if u != nil {
			if riderName == "" {
				riderName = u.Name
			}
			if riderPhone == "" {
				riderPhone = u.Phone
			}
		}
	}

	ok, err := s.repo.Accept(ctx, id, delivererID, riderName, riderPhone, s.now())
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to accept order")
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order already taken")
	}

	log.Info().Str("order_id", id).Str("deliverer_id", delivererID).Msg("order accepted")
	return s.GetDelivery(ctx, delivererID, id)
}

func (s *service) UpdateStatusByDeliverer(ctx context.Context, delivererID, id string, next Status) (*DeliveryView, error) {
	if !ValidStatus(next) {
		return nil, apperr.Validation("unknown status")
	}
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.DelivererID != delivererID {
		return nil, apperr.Forbidden("forbidden")
	}
	if !CanTransition(o.Status, next) {
		return nil, apperr.Conflict(apperr.CodeOrderConflict,
			fmt.Sprintf("cannot move from %s to %s", o.Status, next))
	}
	ok, err := s.repo.Transition(ctx, id, o.Status, next, s.now())
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to update order status")
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order state changed, retry")
	}
	log.Info().Str("order_id", id).Str("status", next.String()).Msg("order status updated")
	return s.GetDelivery(ctx, delivererID, id)
}

func (s *service) ReportIncident(ctx context.Context, delivererID, id, note string) error {
	if note == "" {
		return apperr.Validation("note is required")
	}
	o, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if o.DelivererID != delivererID {
		return apperr.Forbidden("forbidden")
	}
	inc := &Incident{OrderID: id, DelivererID: delivererID, Note: note, CreatedAt: s.now()}
	if err := s.repo.AddIncident(ctx, inc); err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to record incident")
		return apperr.Internal(err)
	}
	log.Warn().Str("order_id", id).Str("deliverer_id", delivererID).Msg("delivery incident reported")
	return nil
}

func (s *service) UpdateCourierLocation(ctx context.Context, delivererID, id string, lat, lng float64) error {
	ok, err := s.repo.UpdateCourierLocation(ctx, id, delivererID, lat, lng)
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to update courier location")
		return apperr.Internal(err)
	}
	if !ok {
		// Either the order does not exist or it is not assigned to this
		// deliverer; distinguish for the caller.
		if _, err := s.get(ctx, id); err != nil {
			return err
		}
		return apperr.Forbidden("forbidden")
	}
	return nil
}

func (s *service) Earnings(ctx context.Context, delivererID, from, to string) (*EarningsReport, error) {
	now := s.now()
	if from == "" && to == "" {
		from = geo.DayKey(now.AddDate(0, 0, -6))
		to = geo.DayKey(now)
	}
	start, end, err := geo.DayRange(from, to)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.List(ctx, Filter{
		DelivererID: delivererID,
		Statuses:    []Status{StatusDelivered},
		PlacedFrom:  &start,
		PlacedTo:    &end,
	})
	if err != nil {
		log.Error().Err(err).Str("deliverer_id", delivererID).Msg("service: failed to list delivered orders")
		return nil, apperr.Internal(err)
	}

	report := &EarningsReport{From: from, To: to, Currency: currency, ByDay: []DayEarnings{}}
	byDay := make(map[string]*DayEarnings)
	for i := range orders {
		o := &orders[i]
		report.TotalEarnings += o.DeliveryFee
		report.TotalTasks++
		key := geo.DayKey(o.PlacedAt)
		day, found := byDay[key]
		if !found {
			day = &DayEarnings{Date: key}
			byDay[key] = day
		}
		day.TotalEarnings += o.DeliveryFee
		day.TaskCount++
	}
	for _, day := range byDay {
		report.ByDay = append(report.ByDay, *day)
	}
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })
	return report, nil
}

func (s *service) DropoffLocations(ctx context.Context) ([]DropoffLocation, error) {
	locations, err := s.repo.ListDropoffLocations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list dropoff locations")
		return nil, apperr.Internal(err)
	}
	return locations, nil
}

func (s *service) RestaurantOrders(ctx context.Context, restaurantID, scope string) ([]RestaurantView, error) {
	f := Filter{RestaurantID: restaurantID}
	switch scope {
	case "", "active":
		f.Statuses = ActiveStatuses
	case "history":
		f.Statuses = TerminalStatuses
	default:
		return nil, apperr.Validation("unknown scope")
	}
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("service: failed to list restaurant orders")
		return nil, apperr.Internal(err)
	}
	out := make([]RestaurantView, len(orders))
	for i := range orders {
		out[i] = orders[i].restaurantView(s.customerContact(ctx, &orders[i]))
	}
	return out, nil
}

func (s *service) GetForRestaurant(ctx context.Context, restaurantID, id string) (*RestaurantView, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != restaurantID {
		return nil, apperr.Forbidden("forbidden")
	}
	view := o.restaurantView(s.customerContact(ctx, o))
	return &view, nil
}

// UpdateStatusByRestaurant lets a restaurant cancel its own orders. Delivery
// progression stays with the assigned deliverer.
func (s *service) UpdateStatusByRestaurant(ctx context.Context, restaurantID, id string, next Status) (*RestaurantView, error) {
	if !ValidStatus(next) {
		return nil, apperr.Validation("unknown status")
	}
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != restaurantID {
		return nil, apperr.Forbidden("forbidden")
	}
	if next != StatusCancelled || !CanTransition(o.Status, next) {
		return nil, apperr.Conflict(apperr.CodeOrderConflict,
			fmt.Sprintf("cannot move from %s to %s", o.Status, next))
	}
	ok, err := s.repo.Transition(ctx, id, o.Status, next, s.now())
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to cancel order")
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Conflict(apperr.CodeOrderConflict, "order state changed, retry")
	}
	log.Info().Str("order_id", id).Str("restaurant_id", restaurantID).Msg("order cancelled by restaurant")
	return s.GetForRestaurant(ctx, restaurantID, id)
}

func (s *service) Report(ctx context.Context, restaurantID, rng string) (*RestaurantReport, error) {
	now := s.now()
	var start time.Time
	switch rng {
	case "", "today":
		rng = "today"
		start = now.Truncate(24 * time.Hour)
	case "7d":
		start = now.AddDate(0, 0, -7)
	case "30d":
		start = now.AddDate(0, 0, -30)
	default:
		return nil, apperr.Validation("unknown report range")
	}
	orders, err := s.repo.List(ctx, Filter{
		RestaurantID: restaurantID,
		Statuses:     []Status{StatusDelivered},
		PlacedFrom:   &start,
	})
	if err != nil {
		log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("service: failed to list delivered orders")
		return nil, apperr.Internal(err)
	}

	report := &RestaurantReport{Range: rng, Currency: currency, TopItems: []ItemSales{}}
	sales := make(map[string]*ItemSales)
	for i := range orders {
		o := &orders[i]
		report.TotalRevenue += o.TotalAmount
		report.OrderCount++
		for _, li := range o.Items {
			entry, found := sales[li.Name]
			if !found {
				entry = &ItemSales{Name: li.Name}
				sales[li.Name] = entry
			}
			entry.Quantity += li.Quantity
			entry.Revenue += li.Price * li.Quantity
		}
	}
	for _, entry := range sales {
		report.TopItems = append(report.TopItems, *entry)
	}
	sort.Slice(report.TopItems, func(i, j int) bool {
		if report.TopItems[i].Revenue != report.TopItems[j].Revenue {
			return report.TopItems[i].Revenue > report.TopItems[j].Revenue
		}
		return report.TopItems[i].Name < report.TopItems[j].Name
	})
	if len(report.TopItems) > topItemsLimit {
		report.TopItems = report.TopItems[:topItemsLimit]
	}
	return report, nil
}

func (s *service) get(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeOrderNotFound, "Order not found")
		}
		log.Error().Err(err).Str("order_id", id).Msg("service: failed to fetch order")
		return nil, apperr.Internal(err)
	}
	return o, nil
}

func (s *service) ownedByCustomer(ctx context.Context, customerID, id string) (*Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, apperr.Forbidden("forbidden")
	}
	return o, nil
}

// customerContact resolves the customer's contact block, falling back to
// the dropoff name when the account is gone.
func (s *service) customerContact(ctx context.Context, o *Order) *Contact {
	u, err := s.users.GetByID(ctx, o.CustomerID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Error().Err(err).Str("order_id", o.ID).Msg("service: failed to resolve customer contact")
		}
		return &Contact{Name: o.Dropoff.Name}
	}
	return &Contact{Name: u.Name, Phone: u.Phone}
}

func (s *service) deliveryViews(ctx context.Context, orders []Order) []DeliveryView {
	out := make([]DeliveryView, len(orders))
	for i := range orders {
		out[i] = orders[i].deliveryView(s.customerContact(ctx, &orders[i]))
	}
	return out
}
