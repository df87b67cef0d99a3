package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/pkg/common"
	pkgerrors "parkwise/pkg/errors"
)

// BillingService is the billing API used by BillingHandler.
type BillingService interface {
	GetBill(ctx context.Context, userID, email string, month, year int) (*dto.BillResponse, error)
}

// BillingHandler serves /billing.
type BillingHandler struct {
	service BillingService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

func NewBillingHandler(service BillingService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{service: service, errors: errs, logger: logger}
}

// GetBill handles GET /billing?month=&year=
func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	month, err := common.QueryInt(r, "month")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	year, err := common.QueryInt(r, "year")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	resp, err := h.service.GetBill(r.Context(), p.UserID, p.Email, month, year)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
