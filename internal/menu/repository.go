package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("menu item not found")

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Item, error)
	Update(ctx context.Context, id string, patch *Patch) error
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const itemColumns = `id, restaurant_id, name, description, price, sizes, spiciness_options,
	image_url, is_available, sort_order, allergens, tags`

func (r *postgresRepository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO menu_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.RestaurantID, item.Name, item.Description, item.Price,
		item.Sizes, item.SpicinessOptions, item.ImageURL, item.IsAvailable,
		item.SortOrder, item.Allergens, item.Tags)
	if err != nil {
		return fmt.Errorf("repository: failed to insert menu item: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	var item Item
	err := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
		&item.Sizes, &item.SpicinessOptions, &item.ImageURL, &item.IsAvailable,
		&item.SortOrder, &item.Allergens, &item.Tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select menu item: %w", err)
	}
	return &item, nil
}

func (r *postgresRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM menu_items WHERE restaurant_id = $1 ORDER BY sort_order, name`,
		restaurantID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
			&item.Sizes, &item.SpicinessOptions, &item.ImageURL, &item.IsAvailable,
			&item.SortOrder, &item.Allergens, &item.Tags); err != nil {
			return nil, fmt.Errorf("repository: failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating menu items: %w", err)
	}
	return items, nil
}

func (r *postgresRepository) Update(ctx context.Context, id string, patch *Patch) error {
	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 11)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Sizes != nil {
		add("sizes", patch.Sizes)
	}
	if patch.SpicinessOptions != nil {
		add("spiciness_options", patch.SpicinessOptions)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.IsAvailable != nil {
		add("is_available", *patch.IsAvailable)
	}
	if patch.SortOrder != nil {
		add("sort_order", *patch.SortOrder)
	}
	if patch.Allergens != nil {
		add("allergens", patch.Allergens)
	}
	if patch.Tags != nil {
		add("tags", patch.Tags)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE menu_items SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("repository: failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
