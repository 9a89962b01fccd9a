// Package shop is the public restaurant directory: keyed reads with no
// ordering or consistency hazards.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("shop not found")

type Shop struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Address  string   `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

type Repository interface {
	List(ctx context.Context) ([]Shop, error)
	GetByID(ctx context.Context, id string) (*Shop, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context) ([]Shop, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, image_url, address, phone, lat, lng FROM shops ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := make([]Shop, 0)
	for rows.Next() {
		var s Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageURL, &s.Address, &s.Phone, &s.Lat, &s.Lng); err != nil {
			return nil, fmt.Errorf("repository: failed to scan shop: %w", err)
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating shops: %w", err)
	}
	return shops, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Shop, error) {
	var s Shop
	err := r.db.QueryRow(ctx,
		`SELECT id, name, image_url, address, phone, lat, lng FROM shops WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.ImageURL, &s.Address, &s.Phone, &s.Lat, &s.Lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select shop by id: %w", err)
	}
	return &s, nil
}
