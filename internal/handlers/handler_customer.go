package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/SscSPs/fiado_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler serves the per-customer views of the ledger and customer removal.
type customerHandler struct {
	ledger portssvc.AccountGatewaySvc
}

func newCustomerHandler(ledger portssvc.AccountGatewaySvc) *customerHandler {
	return &customerHandler{ledger: ledger}
}

// registerCustomerRoutes registers routes related to customers.
func registerCustomerRoutes(rg *gin.RouterGroup, ledger portssvc.AccountGatewaySvc) {
	h := newCustomerHandler(ledger)

	customers := rg.Group("/customers")
	{
		customers.POST("/bulk-delete", h.bulkDeleteCustomers)
		customers.GET("/:customerID/balance", h.getBalance)
		customers.GET("/:customerID/movements", h.listMovements)
		customers.GET("/:customerID/movements/export", h.exportMovements)
		customers.DELETE("/:customerID", h.deleteCustomer)
	}
}

// getBalance godoc
// @Summary Get a customer's balance
// @Description Σ purchases − Σ payments. Positive means the customer owes money
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID}/balance [get]
func (h *customerHandler) getBalance(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	customerID := c.Param("customerID")
	balance, err := h.ledger.GetBalance(c.Request.Context(), ownerID, customerID)
	if err != nil {
		respondError(c, err, "GetBalance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{CustomerID: customerID, Balance: balance})
}

// listMovements godoc
// @Summary List a customer's movements
// @Description Purchases and payments newest first, paginated with an opaque token
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   limit query int false "Page size (1-500). Omit for the whole log"
// @Param   nextToken query string false "Token from the previous page"
// @Param   includeItems query bool false "Expand purchases with their items"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters or token"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID}/movements [get]
func (h *customerHandler) listMovements(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListMovements")
		return
	}

	page, err := h.ledger.ListMovements(c.Request.Context(), ownerID, c.Param("customerID"), params.ToQuery())
	if err != nil {
		respondError(c, err, "ListMovements")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMovementsResponse(page))
}

// exportMovements godoc
// @Summary Download a customer's movements
// @Description The whole movement log as a spreadsheet, including purchase items
// @Tags customers
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   customerID path string true "Customer ID"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID}/movements/export [get]
func (h *customerHandler) exportMovements(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	customerID := c.Param("customerID")

	var buf bytes.Buffer
	contentType, extension, err := h.ledger.ExportMovements(c.Request.Context(), ownerID, customerID, &buf)
	if err != nil {
		respondError(c, err, "ExportMovements")
		return
	}

	filename := fmt.Sprintf("movements-%s-%s.%s", customerID, time.Now().UTC().Format("20060102"), extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// deleteCustomer godoc
// @Summary Delete a customer
// @Description Deletes every purchase (returning its stock) and payment of the customer, then the customer
// @Tags customers
// @Param   customerID path string true "Customer ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID} [delete]
func (h *customerHandler) deleteCustomer(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	customerID := c.Param("customerID")
	if err := h.ledger.DeleteCustomer(c.Request.Context(), ownerID, customerID); err != nil {
		respondError(c, err, "DeleteCustomer")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Customer deleted", slog.String("customer_id", customerID))
	c.Status(http.StatusNoContent)
}

// bulkDeleteCustomers godoc
// @Summary Delete several customers
// @Description All customers are deleted in one transaction or none is
// @Tags customers
// @Accept  json
// @Param   request body dto.BulkDeleteCustomersRequest true "Customer IDs"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "A customer was not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/bulk-delete [post]
func (h *customerHandler) bulkDeleteCustomers(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.BulkDeleteCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "DeleteCustomers")
		return
	}
	if err := h.ledger.DeleteCustomers(c.Request.Context(), ownerID, req.CustomerIDs); err != nil {
		respondError(c, err, "DeleteCustomers")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Customers deleted", slog.Int("count", len(req.CustomerIDs)))
	c.Status(http.StatusNoContent)
}
