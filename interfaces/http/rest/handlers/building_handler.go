package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/pkg/common"
	pkgerrors "parkwise/pkg/errors"
)

// BuildingService is the provisioning API used by BuildingHandler.
type BuildingService interface {
	AddBuilding(ctx context.Context, req dto.AddBuildingRequest) (*dto.BuildingResponse, error)
	GetBuildings(ctx context.Context) ([]dto.BuildingResponse, error)
	AddFloor(ctx context.Context, buildingID string, req dto.AddFloorRequest) (*dto.FloorResponse, error)
	GetFloors(ctx context.Context, buildingID string) ([]dto.FloorResponse, error)
	GetSlots(ctx context.Context, buildingID string, floorNumber int) ([]dto.SlotResponse, error)
}

// BuildingHandler serves /buildings.
type BuildingHandler struct {
	service BuildingService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

func NewBuildingHandler(service BuildingService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *BuildingHandler {
	return &BuildingHandler{service: service, errors: errs, logger: logger}
}

// AddBuilding handles POST /buildings
func (h *BuildingHandler) AddBuilding(w http.ResponseWriter, r *http.Request) {
	var req dto.AddBuildingRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.AddBuilding(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, resp)
}

// GetBuildings handles GET /buildings
func (h *BuildingHandler) GetBuildings(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetBuildings(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

// AddFloor handles POST /buildings/{buildingId}/floors
func (h *BuildingHandler) AddFloor(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFloorRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.AddFloor(r.Context(), chi.URLParam(r, "buildingId"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, resp)
}

// GetFloors handles GET /buildings/{buildingId}/floors
func (h *BuildingHandler) GetFloors(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetFloors(r.Context(), chi.URLParam(r, "buildingId"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

// GetSlots handles GET /buildings/{buildingId}/floors/{floorNumber}/slots
func (h *BuildingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	floorNumber, err := strconv.Atoi(chi.URLParam(r, "floorNumber"))
	if err != nil || floorNumber < 0 {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("floor number must be a non-negative integer"))
		return
	}
	resp, err := h.service.GetSlots(r.Context(), chi.URLParam(r, "buildingId"), floorNumber)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
