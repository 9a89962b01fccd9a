package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mealhub/delivery-backend/internal/apperr"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates a customer account. Restaurant and deliverer accounts
// are provisioned out of band.
func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	if password == "" {
		return nil, apperr.Validation("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, apperr.Internal(fmt.Errorf("hashing password: %w", err))
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generating user id: %w", err))
	}

	u := &User{
		ID:           id.String(),
		Name:         name,
		Email:        email,
		Role:         "customer",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, apperr.New(apperr.KindValidation, apperr.CodeEmailTaken, "email exists")
		}
		log.Error().Err(err).Msg("service: failed to create user")
		return nil, apperr.Internal(err)
	}

	log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Authenticate verifies credentials. A missing account and a wrong
// password are indistinguishable to the caller.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Unauthenticated(apperr.CodeInvalidToken, "invalid credentials")
		}
		log.Error().Err(err).Msg("service: failed to fetch user by email")
		return nil, apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthenticated(apperr.CodeInvalidToken, "invalid credentials")
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch user by id: %w", err)
	}
	return u, nil
}
