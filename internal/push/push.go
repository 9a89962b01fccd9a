// Package push stores device push tokens for later notification delivery.
package push

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Token struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	// Upsert registers a device token, reassigning it if another account
	// registered the same device earlier.
	Upsert(ctx context.Context, t *Token) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, t *Token) error {
	query := `
		INSERT INTO push_tokens (token, user_id, platform, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query, t.Token, t.UserID, t.Platform, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert push token: %w", err)
	}
	return nil
}
