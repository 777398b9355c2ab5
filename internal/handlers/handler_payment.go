package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	ledger portssvc.PaymentGatewaySvc
}

func registerPaymentRoutes(rg *gin.RouterGroup, ledger portssvc.PaymentGatewaySvc) {
	h := &paymentHandler{ledger: ledger}

	rg.POST("/customers/:customerID/payments", h.createPayment)
	payments := rg.Group("/payments/:paymentID")
	{
		payments.PUT("", h.updatePayment)
		payments.DELETE("", h.deletePayment)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   payment body dto.PaymentRequest true "Payment value and optional date"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID}/payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreatePayment")
		return
	}

	payment, err := h.ledger.CreatePayment(c.Request.Context(), ownerID, c.Param("customerID"), req)
	if err != nil {
		respondError(c, err, "CreatePayment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// updatePayment godoc
// @Summary Edit a payment
// @Description An omitted date keeps the current payment date
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Param   payment body dto.PaymentRequest true "New value and optional date"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /payments/{paymentID} [put]
func (h *paymentHandler) updatePayment(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdatePayment")
		return
	}

	payment, err := h.ledger.UpdatePayment(c.Request.Context(), ownerID, c.Param("paymentID"), req)
	if err != nil {
		respondError(c, err, "UpdatePayment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// deletePayment godoc
// @Summary Delete a payment
// @Tags payments
// @Param   paymentID path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /payments/{paymentID} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	if err := h.ledger.DeletePayment(c.Request.Context(), ownerID, c.Param("paymentID")); err != nil {
		respondError(c, err, "DeletePayment")
		return
	}
	c.Status(http.StatusNoContent)
}
