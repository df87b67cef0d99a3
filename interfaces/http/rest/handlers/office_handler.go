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

// OfficeService is the office API used by OfficeHandler.
type OfficeService interface {
	AddOffice(ctx context.Context, buildingID string, req dto.AddOfficeRequest) (*dto.OfficeResponse, error)
	GetOffices(ctx context.Context) ([]dto.OfficeResponse, error)
	DeleteOffice(ctx context.Context, officeID string) error
}

// OfficeHandler serves office routes.
type OfficeHandler struct {
	service OfficeService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

func NewOfficeHandler(service OfficeService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *OfficeHandler {
	return &OfficeHandler{service: service, errors: errs, logger: logger}
}

// AddOffice handles POST /buildings/{buildingId}/offices
func (h *OfficeHandler) AddOffice(w http.ResponseWriter, r *http.Request) {
	var req dto.AddOfficeRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.AddOffice(r.Context(), chi.URLParam(r, "buildingId"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, resp)
}

// GetOffices handles GET /offices. The route is public so new users can pick
// an office when registering.
func (h *OfficeHandler) GetOffices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetOffices(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

// DeleteOffice handles DELETE /offices/{officeId}
func (h *OfficeHandler) DeleteOffice(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOffice(r.Context(), chi.URLParam(r, "officeId")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Office deleted successfully"})
}
