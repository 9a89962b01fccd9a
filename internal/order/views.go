package order

import "time"

// The view types below are the role-scoped projections of an Order.
// Each role sees only the fields it needs; in particular customers never
// see other parties' internal ids and deliverers see contact data only
// after acceptance.

type CustomerSummary struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	RestaurantName string    `json:"restaurantName"`
	Status         Status    `json:"status"`
	TotalAmount    int64     `json:"totalAmount"`
	ETAMinutes     int64     `json:"etaMinutes"`
	PlacedAt       time.Time `json:"placedAt"`
}

type CustomerView struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	RestaurantName string         `json:"restaurantName"`
	Items          []LineItem     `json:"items"`
	DeliveryFee    int64          `json:"deliveryFee"`
	TotalAmount    int64          `json:"totalAmount"`
	Status         Status         `json:"status"`
	History        []HistoryEntry `json:"history"`
	Dropoff        Dropoff        `json:"dropoff"`
	RiderName      string         `json:"riderName,omitempty"`
	RiderPhone     string         `json:"riderPhone,omitempty"`
	CourierLat     *float64       `json:"courierLat,omitempty"`
	CourierLng     *float64       `json:"courierLng,omitempty"`
	Rating         *Rating        `json:"rating,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	RequestedTime  string         `json:"requestedTime,omitempty"`
	ETAMinutes     int64          `json:"etaMinutes"`
	PlacedAt       time.Time      `json:"placedAt"`
}

// Contact is the customer contact block deliverers see on accepted jobs.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type DeliveryView struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	RestaurantName string         `json:"restaurantName"`
	Items          []LineItem     `json:"items"`
	DeliveryFee    int64          `json:"deliveryFee"`
	TotalAmount    int64          `json:"totalAmount"`
	Status         Status         `json:"status"`
	History        []HistoryEntry `json:"history"`
	Dropoff        Dropoff        `json:"dropoff"`
	Customer       *Contact       `json:"customer,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	RequestedTime  string         `json:"requestedTime,omitempty"`
	DistanceKm     float64        `json:"distanceKm"`
	ETAMinutes     int64          `json:"etaMinutes"`
	CanPickup      bool           `json:"canPickup"`
	PlacedAt       time.Time      `json:"placedAt"`
}

type RestaurantView struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Items         []LineItem     `json:"items"`
	DeliveryFee   int64          `json:"deliveryFee"`
	TotalAmount   int64          `json:"totalAmount"`
	Status        Status         `json:"status"`
	History       []HistoryEntry `json:"history"`
	Dropoff       Dropoff        `json:"dropoff"`
	Customer      *Contact       `json:"customer,omitempty"`
	RiderName     string         `json:"riderName,omitempty"`
	RiderPhone    string         `json:"riderPhone,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	RequestedTime string         `json:"requestedTime,omitempty"`
	PlacedAt      time.Time      `json:"placedAt"`
}

type DayEarnings struct {
	Date          string `json:"date"`
	TotalEarnings int64  `json:"totalEarnings"`
	TaskCount     int64  `json:"taskCount"`
}

type EarningsReport struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	Currency      string        `json:"currency"`
	TotalEarnings int64         `json:"totalEarnings"`
	TotalTasks    int64         `json:"totalTasks"`
	ByDay         []DayEarnings `json:"byDay"`
}

type ItemSales struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

type RestaurantReport struct {
	Range        string      `json:"range"`
	Currency     string      `json:"currency"`
	TotalRevenue int64       `json:"totalRevenue"`
	OrderCount   int64       `json:"orderCount"`
	TopItems     []ItemSales `json:"topItems"`
}

func (o *Order) customerSummary() CustomerSummary {
	return CustomerSummary{
		ID:             o.ID,
		Code:           o.Code,
		RestaurantName: o.RestaurantName,
		Status:         o.Status,
		TotalAmount:    o.TotalAmount,
		ETAMinutes:     o.ETAMinutes,
		PlacedAt:       o.PlacedAt,
	}
}

func (o *Order) customerView() CustomerView {
	return CustomerView{
		ID:             o.ID,
		Code:           o.Code,
		RestaurantName: o.RestaurantName,
		Items:          o.Items,
		DeliveryFee:    o.DeliveryFee,
		TotalAmount:    o.TotalAmount,
		Status:         o.Status,
		History:        o.History,
		Dropoff:        o.Dropoff,
		RiderName:      o.RiderName,
		RiderPhone:     o.RiderPhone,
		CourierLat:     o.CourierLat,
		CourierLng:     o.CourierLng,
		Rating:         o.Rating,
		Notes:          o.Notes,
		RequestedTime:  o.RequestedTime,
		ETAMinutes:     o.ETAMinutes,
		PlacedAt:       o.PlacedAt,
	}
}

// deliveryView projects an order for a deliverer. The customer contact is
// attached by the service only once the job belongs to that deliverer.
func (o *Order) deliveryView(customer *Contact) DeliveryView {
	return DeliveryView{
		ID:             o.ID,
		Code:           o.Code,
		RestaurantName: o.RestaurantName,
		Items:          o.Items,
		DeliveryFee:    o.DeliveryFee,
		TotalAmount:    o.TotalAmount,
		Status:         o.Status,
		History:        o.History,
		Dropoff:        o.Dropoff,
		Customer:       customer,
		Notes:          o.Notes,
		RequestedTime:  o.RequestedTime,
		DistanceKm:     o.DistanceKm,
		ETAMinutes:     o.ETAMinutes,
		CanPickup:      o.Status == StatusEnRouteToPickup,
		PlacedAt:       o.PlacedAt,
	}
}

func (o *Order) restaurantView(customer *Contact) RestaurantView {
	return RestaurantView{
		ID:            o.ID,
		Code:          o.Code,
		Items:         o.Items,
		DeliveryFee:   o.DeliveryFee,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		History:       o.History,
		Dropoff:       o.Dropoff,
		Customer:      customer,
		RiderName:     o.RiderName,
		RiderPhone:    o.RiderPhone,
		Notes:         o.Notes,
		RequestedTime: o.RequestedTime,
		PlacedAt:      o.PlacedAt,
	}
}
