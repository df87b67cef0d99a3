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

// ParkingService is the parking API used by ParkingHandler.
type ParkingService interface {
	Park(ctx context.Context, userID string, req dto.ParkRequest) (*dto.TicketResponse, error)
	Unpark(ctx context.Context, userID, numberplate string) (*dto.ParkingResponse, error)
	GetParkings(ctx context.Context, userID string, q dto.HistoryQuery) ([]dto.ParkingResponse, error)
}

// ParkingHandler serves /parkings for the calling user.
type ParkingHandler struct {
	service ParkingService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

func NewParkingHandler(service ParkingService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ParkingHandler {
	return &ParkingHandler{service: service, errors: errs, logger: logger}
}

// Park handles POST /parkings
func (h *ParkingHandler) Park(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var req dto.ParkRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.Park(r.Context(), p.UserID, req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, resp)
}

// Unpark handles PATCH /parkings/{numberplate}/unpark
func (h *ParkingHandler) Unpark(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.Unpark(r.Context(), p.UserID, chi.URLParam(r, "numberplate"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

// GetParkings handles GET /parkings?startTime=&endTime=
func (h *ParkingHandler) GetParkings(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var q dto.HistoryQuery
	if q.StartTime, err = common.QueryInt64(r, "startTime"); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if q.EndTime, err = common.QueryInt64(r, "endTime"); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.GetParkings(r.Context(), p.UserID, q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
