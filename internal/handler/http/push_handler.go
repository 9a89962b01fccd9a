package http

import (
	"net/http"
	"time"

	"github.com/mealhub/delivery-backend/internal/push"
)

type PushHandler struct {
	tokens push.Repository
}

func NewPushHandler(tokens push.Repository) *PushHandler {
	return &PushHandler{tokens: tokens}
}

type pushTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform"`
}

func (h *PushHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req pushTokenRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	t := &push.Token{
		UserID:    id.UserID,
		Token:     req.Token,
		Platform:  req.Platform,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.tokens.Upsert(r.Context(), t); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"registered": true})
}
