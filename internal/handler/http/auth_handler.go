package http

import (
	"net/http"

	"github.com/mealhub/delivery-backend/internal/token"
	"github.com/mealhub/delivery-backend/internal/user"
)

type AuthHandler struct {
	users  user.Service
	tokens *token.Service
}

func NewAuthHandler(users user.Service, tokens *token.Service) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	u, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	session, err := h.session(u)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	session, err := h.session(u)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, session)
}

func (h *AuthHandler) session(u *user.User) (*sessionResponse, error) {
	signed, err := h.tokens.Issue(u.ID, u.Email, u.Role, u.RestaurantID)
	if err != nil {
		return nil, err
	}
	return &sessionResponse{
		Token: signed,
		User:  userPayload{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	}, nil
}
