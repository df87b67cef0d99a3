package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/pkg/common"
	pkgerrors "parkwise/pkg/errors"
)

// VehicleService is the vehicle API used by VehicleHandler.
type VehicleService interface {
	GetVehicles(ctx context.Context, userID string) ([]dto.VehicleResponse, error)
	AddVehicle(ctx context.Context, userID string, req dto.AddVehicleRequest) (*dto.VehicleResponse, error)
	DeleteVehicle(ctx context.Context, userID, numberplate string) error
}

// VehicleHandler serves /vehicles for the calling user.
type VehicleHandler struct {
	service VehicleService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

func NewVehicleHandler(service VehicleService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{service: service, errors: errs, logger: logger}
}

// GetVehicles handles GET /vehicles
func (h *VehicleHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.GetVehicles(r.Context(), p.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

// AddVehicle handles POST /vehicles
func (h *VehicleHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var req dto.AddVehicleRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.AddVehicle(r.Context(), p.UserID, req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, resp)
}

// DeleteVehicle handles DELETE /vehicles/{numberplate}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.service.DeleteVehicle(r.Context(), p.UserID, chi.URLParam(r, "numberplate")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Vehicle deleted successfully"})
}
