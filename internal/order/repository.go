package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// Filter selects orders for list queries. Zero-valued fields are ignored.
type Filter struct {
	CustomerID   string
	DelivererID  string
	RestaurantID string
	Statuses     []Status
	PlacedFrom   *time.Time
	PlacedTo     *time.Time
}

// Repository is the keyed-document store adapter for the orders
// collection. The conditional updates are the only mutation path for
// status and history: each is a single-row UPDATE whose WHERE clause
// matches both the id and the expected current state, so a lost race
// surfaces as zero matched rows, never as a corrupt document.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]Order, error)

	// Transition applies current -> next if and only if the stored
	// status still equals from, appending one history entry atomically.
	Transition(ctx context.Context, id string, from, next Status, at time.Time) (bool, error)

	// Accept is the accept-race serialization point: it assigns the
	// deliverer only while the order is still available.
	Accept(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error)

	// CancelStale force-cancels every non-terminal order placed before
	// olderThan, appending a history entry per affected row. Returns the
	// number of orders cancelled.
	CancelStale(ctx context.Context, olderThan, at time.Time) (int64, error)

	UpdateCourierLocation(ctx context.Context, id, delivererID string, lat, lng float64) (bool, error)
	AttachRating(ctx context.Context, id string, r Rating) (bool, error)

	AddIncident(ctx context.Context, inc *Incident) error
	ListDropoffLocations(ctx context.Context) ([]DropoffLocation, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const orderColumns = `id, code, customer_id, deliverer_id, restaurant_id, restaurant_name,
	items, delivery_fee, total_amount, status, status_history, dropoff,
	rider_name, rider_phone, courier_lat, courier_lng, rating,
	notes, requested_time, eta_minutes, distance_km, placed_at`

func (r *postgresRepository) Insert(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal items: %w", err)
	}
	history, err := json.Marshal(o.History)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal history: %w", err)
	}
	dropoff, err := json.Marshal(o.Dropoff)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal dropoff: %w", err)
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11::jsonb, $12::jsonb,
			$13, $14, $15, $16, NULL, $17, $18, $19, $20, $21)
	`
	_, err = r.db.Exec(ctx, query,
		o.ID, o.Code, o.CustomerID, o.DelivererID, o.RestaurantID, o.RestaurantName,
		string(items), o.DeliveryFee, o.TotalAmount, string(o.Status), string(history), string(dropoff),
		o.RiderName, o.RiderPhone, o.CourierLat, o.CourierLng,
		o.Notes, o.RequestedTime, o.ETAMinutes, o.DistanceKm, o.PlacedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}
	return o, nil
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]Order, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.DelivererID != "" {
		add("deliverer_id = $%d", f.DelivererID)
	}
	if f.RestaurantID != "" {
		add("restaurant_id = $%d", f.RestaurantID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		add("status = ANY($%d)", statuses)
	}
	if f.PlacedFrom != nil {
		add("placed_at >= $%d", *f.PlacedFrom)
	}
	if f.PlacedTo != nil {
		add("placed_at <= $%d", *f.PlacedTo)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY placed_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}
	return orders, nil
}

func (r *postgresRepository) Transition(ctx context.Context, id string, from, next Status, at time.Time) (bool, error) {
	entry, err := historyEntry(next, at)
	if err != nil {
		return false, err
	}
	query := `
		UPDATE orders
		SET status = $3, status_history = status_history || $4::jsonb
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, string(from), string(next), entry)
	if err != nil {
		return false, fmt.Errorf("repository: failed to transition order %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Accept(ctx context.Context, id, delivererID, riderName, riderPhone string, at time.Time) (bool, error) {
	entry, err := historyEntry(StatusAssigned, at)
	if err != nil {
		return false, err
	}
	query := `
		UPDATE orders
		SET status = $2, deliverer_id = $3, rider_name = $4, rider_phone = $5,
			status_history = status_history || $6::jsonb
		WHERE id = $1 AND status = $7
	`
	tag, err := r.db.Exec(ctx, query,
		id, string(StatusAssigned), delivererID, riderName, riderPhone, entry, string(StatusAvailable))
	if err != nil {
		return false, fmt.Errorf("repository: failed to accept order %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) CancelStale(ctx context.Context, olderThan, at time.Time) (int64, error) {
	entry, err := historyEntry(StatusCancelled, at)
	if err != nil {
		return 0, err
	}
	query := `
		UPDATE orders
		SET status = $1, status_history = status_history || $2::jsonb
		WHERE status NOT IN ($3, $4) AND placed_at < $5
	`
	tag, err := r.db.Exec(ctx, query,
		string(StatusCancelled), entry, string(StatusDelivered), string(StatusCancelled), olderThan)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to cancel stale orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) UpdateCourierLocation(ctx context.Context, id, delivererID string, lat, lng float64) (bool, error) {
	query := `UPDATE orders SET courier_lat = $3, courier_lng = $4 WHERE id = $1 AND deliverer_id = $2`
	tag, err := r.db.Exec(ctx, query, id, delivererID, lat, lng)
	if err != nil {
		return false, fmt.Errorf("repository: failed to update courier location for order %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) AttachRating(ctx context.Context, id string, rating Rating) (bool, error) {
	payload, err := json.Marshal(rating)
	if err != nil {
		return false, fmt.Errorf("repository: failed to marshal rating: %w", err)
	}
	// Conditional on the terminal delivered state so a rating can never
	// land on an in-flight or cancelled order.
	query := `UPDATE orders SET rating = $2::jsonb WHERE id = $1 AND status = $3`
	tag, err := r.db.Exec(ctx, query, id, string(payload), string(StatusDelivered))
	if err != nil {
		return false, fmt.Errorf("repository: failed to attach rating to order %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) AddIncident(ctx context.Context, inc *Incident) error {
	query := `
		INSERT INTO delivery_incidents (order_id, deliverer_id, note, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, inc.OrderID, inc.DelivererID, inc.Note, inc.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert incident: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListDropoffLocations(ctx context.Context) ([]DropoffLocation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, name, lat, lng FROM delivery_locations ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query dropoff locations: %w", err)
	}
	defer rows.Close()

	locations := make([]DropoffLocation, 0)
	for rows.Next() {
		var l DropoffLocation
		if err := rows.Scan(&l.Category, &l.Name, &l.Lat, &l.Lng); err != nil {
			return nil, fmt.Errorf("repository: failed to scan dropoff location: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating dropoff locations: %w", err)
	}
	return locations, nil
}

func historyEntry(s Status, at time.Time) (string, error) {
	b, err := json.Marshal([]HistoryEntry{{Status: s, Timestamp: at.UTC()}})
	if err != nil {
		return "", fmt.Errorf("repository: failed to marshal history entry: %w", err)
	}
	return string(b), nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o       Order
		status  string
		items   []byte
		history []byte
		dropoff []byte
		rating  []byte
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerID, &o.DelivererID, &o.RestaurantID, &o.RestaurantName,
		&items, &o.DeliveryFee, &o.TotalAmount, &status, &history, &dropoff,
		&o.RiderName, &o.RiderPhone, &o.CourierLat, &o.CourierLng, &rating,
		&o.Notes, &o.RequestedTime, &o.ETAMinutes, &o.DistanceKm, &o.PlacedAt)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(history, &o.History); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	if err := json.Unmarshal(dropoff, &o.Dropoff); err != nil {
		return nil, fmt.Errorf("unmarshal dropoff: %w", err)
	}
	if len(rating) > 0 {
		o.Rating = &Rating{}
		if err := json.Unmarshal(rating, o.Rating); err != nil {
			return nil, fmt.Errorf("unmarshal rating: %w", err)
		}
	}
	return &o, nil
}
