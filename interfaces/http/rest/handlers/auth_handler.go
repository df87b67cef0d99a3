package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/pkg/common"
	pkgerrors "parkwise/pkg/errors"
)

// AuthService is the account API used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
}

// AuthHandler serves /auth.
type AuthHandler struct {
	service AuthService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

func NewAuthHandler(service AuthService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, errors: errs, logger: logger}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.service.Register(r.Context(), req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
