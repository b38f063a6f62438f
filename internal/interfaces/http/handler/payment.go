package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/application/ledger"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// PaymentHandler exposes payment, installment and forecast endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService  *ledger.PaymentService
	forecastService *ledger.ForecastService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *ledger.PaymentService, forecastService *ledger.ForecastService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		forecastService: forecastService,
	}
}

// Create handles POST /businesses/:businessID/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input ledger.CreatePaymentInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.paymentService.CreatePayment(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// List handles GET /businesses/:businessID/payments
func (h *PaymentHandler) List(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// ListBySupplier handles GET /businesses/:businessID/suppliers/:id/payments
func (h *PaymentHandler) ListBySupplier(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	payments, err := h.paymentService.ListBySupplier(c.Request.Context(), businessID, supplierID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Get handles GET /businesses/:businessID/payments/:id, including splits
func (h *PaymentHandler) Get(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	info, err := h.paymentService.GetPayment(c.Request.Context(), businessID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Reschedule handles PUT /businesses/:businessID/payments/:id/schedule
func (h *PaymentHandler) Reschedule(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var input ledger.ReschedulePaymentInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.paymentService.Reschedule(c.Request.Context(), businessID, paymentID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// MarkSplitPaid handles POST /businesses/:businessID/payment-splits/:id/paid
func (h *PaymentHandler) MarkSplitPaid(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	splitID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	info, err := h.paymentService.MarkSplitPaid(c.Request.Context(), businessID, splitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// MarkSplitUnpaid handles POST /businesses/:businessID/payment-splits/:id/unpaid
func (h *PaymentHandler) MarkSplitUnpaid(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	splitID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	info, err := h.paymentService.MarkSplitUnpaid(c.Request.Context(), businessID, splitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Delete handles DELETE /businesses/:businessID/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), businessID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Forecast handles GET /businesses/:businessID/payments/forecast. The months
// query parameter caps the horizon; the service applies its default.
func (h *PaymentHandler) Forecast(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 24 {
			h.BadRequest(c, "months must be between 1 and 24")
			return
		}
		months = parsed
	}

	forecast, err := h.forecastService.GetForecast(c.Request.Context(), businessID, months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, forecast)
}
