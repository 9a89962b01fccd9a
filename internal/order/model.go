package order

import "time"

// LineItem is a snapshot of a menu item at order-creation time. Items and
// their price snapshots are immutable once the order exists; billing never
// recomputes them.
type LineItem struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Size       string `json:"size,omitempty"`
	Spiciness  string `json:"spiciness,omitempty"`
	AddDrink   bool   `json:"addDrink"`
	Quantity   int64  `json:"quantity"`
	Price      int64  `json:"price"`
}

// HistoryEntry is one element of the append-only status history.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Dropoff is the delivery destination; coordinates are optional.
type Dropoff struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

type Rating struct {
	Score   int64  `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// Order is the central entity. Status and History are mutated only through
// the repository's conditional updates; everything written at creation
// time stays as-is.
type Order struct {
	ID             string
	Code           string
	CustomerID     string
	DelivererID    string
	RestaurantID   string
	RestaurantName string
	Items          []LineItem
	DeliveryFee    int64
	TotalAmount    int64
	Status         Status
	History        []HistoryEntry
	Dropoff        Dropoff
	RiderName      string
	RiderPhone     string
	CourierLat     *float64
	CourierLng     *float64
	Rating         *Rating
	Notes          string
	RequestedTime  string
	ETAMinutes     int64
	DistanceKm     float64
	PlacedAt       time.Time
}

// Incident is one append-only entry of the per-order incident log.
type Incident struct {
	OrderID     string    `json:"orderId"`
	DelivererID string    `json:"delivererId"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DropoffLocation is a preset delivery destination shown to deliverers,
// grouped by category.
type DropoffLocation struct {
	Category string   `json:"category"`
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}
