package menu

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mealhub/delivery-backend/internal/apperr"
)

type Service interface {
	List(ctx context.Context, restaurantID string) ([]Item, error)
	Lookup(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, restaurantID string, item *Item) (*Item, error)
	Update(ctx context.Context, restaurantID, id string, patch *Patch) (*Item, error)
	Delete(ctx context.Context, restaurantID, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, restaurantID string) ([]Item, error) {
	items, err := s.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("service: failed to list menu")
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// Lookup resolves a menu item by id for order creation; ownership is not
// checked because any customer may reference any available item.
func (s *service) Lookup(ctx context.Context, id string) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindValidation, apperr.CodeMenuUnavailable, "menu item unavailable")
		}
		return nil, apperr.Internal(err)
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, restaurantID string, item *Item) (*Item, error) {
	if item.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if item.Price < 0 {
		return nil, apperr.Validation("price must be non-negative")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	item.ID = id.String()
	item.RestaurantID = restaurantID
	if item.Allergens == nil {
		item.Allergens = []string{}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if err := s.repo.Create(ctx, item); err != nil {
		log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("service: failed to create menu item")
		return nil, apperr.Internal(err)
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, restaurantID, id string, patch *Patch) (*Item, error) {
	if patch.IsEmpty() {
		return nil, apperr.Validation("No fields to update")
	}
	if _, err := s.owned(ctx, restaurantID, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeMenuUnavailable, "Menu item not found")
		}
		log.Error().Err(err).Str("menu_item_id", id).Msg("service: failed to update menu item")
		return nil, apperr.Internal(err)
	}
	return s.owned(ctx, restaurantID, id)
}

func (s *service) Delete(ctx context.Context, restaurantID, id string) error {
	if _, err := s.owned(ctx, restaurantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(apperr.CodeMenuUnavailable, "Menu item not found")
		}
		log.Error().Err(err).Str("menu_item_id", id).Msg("service: failed to delete menu item")
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) owned(ctx context.Context, restaurantID, id string) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeMenuUnavailable, "Menu item not found")
		}
		return nil, apperr.Internal(err)
	}
	if item.RestaurantID != restaurantID {
		return nil, apperr.Forbidden("forbidden")
	}
	return item, nil
}
