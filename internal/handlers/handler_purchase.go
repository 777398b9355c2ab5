package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/SscSPs/fiado_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// purchaseHandler handles HTTP requests related to purchases.
type purchaseHandler struct {
	ledger portssvc.PurchaseGatewaySvc
}

func newPurchaseHandler(ledger portssvc.PurchaseGatewaySvc) *purchaseHandler {
	return &purchaseHandler{ledger: ledger}
}

// registerPurchaseRoutes registers routes related to purchases.
func registerPurchaseRoutes(rg *gin.RouterGroup, ledger portssvc.PurchaseGatewaySvc) {
	h := newPurchaseHandler(ledger)

	customerPurchases := rg.Group("/customers/:customerID/purchases")
	{
		customerPurchases.POST("/itemized", h.createItemizedPurchase)
		customerPurchases.POST("/simple", h.createSimplePurchase)
	}

	purchases := rg.Group("/purchases/:purchaseID")
	{
		purchases.GET("", h.getPurchase)
		purchases.PUT("/itemized", h.updateItemizedPurchase)
		purchases.PUT("/simple", h.updateSimplePurchase)
		purchases.DELETE("", h.deletePurchase)
	}
}

// createItemizedPurchase godoc
// @Summary Record a cart purchase
// @Description Reserves stock for every item and adds the purchase to the customer's balance in one transaction
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   purchase body dto.ItemizedPurchaseRequest true "Purchase items"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer or product not found"
// @Failure 409 {object} dto.InsufficientStockResponse "Insufficient stock"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID}/purchases/itemized [post]
func (h *purchaseHandler) createItemizedPurchase(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.ItemizedPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateItemizedPurchase")
		return
	}

	customerID := c.Param("customerID")
	purchase, err := h.ledger.CreateItemizedPurchase(c.Request.Context(), ownerID, customerID, req)
	if err != nil {
		respondError(c, err, "CreateItemizedPurchase")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Itemized purchase created",
		slog.String("purchase_id", purchase.PurchaseID), slog.Int("items", len(purchase.Items)))
	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(purchase))
}

// createSimplePurchase godoc
// @Summary Record a purchase by total
// @Description Adds a purchase with a directly entered total. No stock is touched
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   purchase body dto.SimplePurchaseRequest true "Purchase total"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /customers/{customerID}/purchases/simple [post]
func (h *purchaseHandler) createSimplePurchase(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.SimplePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateSimplePurchase")
		return
	}

	purchase, err := h.ledger.CreateSimplePurchase(c.Request.Context(), ownerID, c.Param("customerID"), req)
	if err != nil {
		respondError(c, err, "CreateSimplePurchase")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(purchase))
}

// getPurchase godoc
// @Summary Get a purchase
// @Description Retrieves a purchase with its items and product names
// @Tags purchases
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Purchase not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /purchases/{purchaseID} [get]
func (h *purchaseHandler) getPurchase(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	purchase, err := h.ledger.GetPurchase(c.Request.Context(), ownerID, c.Param("purchaseID"))
	if err != nil {
		respondError(c, err, "GetPurchase")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// updateItemizedPurchase godoc
// @Summary Replace the items of a purchase
// @Description Releases the stock of the current items, reserves the new ones and recomputes the total
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Param   purchase body dto.ItemizedPurchaseRequest true "New purchase items"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Purchase or product not found"
// @Failure 409 {object} dto.InsufficientStockResponse "Insufficient stock"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /purchases/{purchaseID}/itemized [put]
func (h *purchaseHandler) updateItemizedPurchase(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.ItemizedPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateItemizedPurchase")
		return
	}

	purchase, err := h.ledger.UpdateItemizedPurchase(c.Request.Context(), ownerID, c.Param("purchaseID"), req)
	if err != nil {
		respondError(c, err, "UpdateItemizedPurchase")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// updateSimplePurchase godoc
// @Summary Edit the total of a purchase
// @Description Only purchases without items can be edited this way
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Param   purchase body dto.SimplePurchaseRequest true "New total and optional date"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or purchase has items"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Purchase not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /purchases/{purchaseID}/simple [put]
func (h *purchaseHandler) updateSimplePurchase(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req dto.SimplePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateSimplePurchase")
		return
	}

	purchase, err := h.ledger.UpdateSimplePurchase(c.Request.Context(), ownerID, c.Param("purchaseID"), req)
	if err != nil {
		respondError(c, err, "UpdateSimplePurchase")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// deletePurchase godoc
// @Summary Delete a purchase
// @Description Returns the stock of its items and removes it from the balance
// @Tags purchases
// @Param   purchaseID path string true "Purchase ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Purchase not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /purchases/{purchaseID} [delete]
func (h *purchaseHandler) deletePurchase(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	purchaseID := c.Param("purchaseID")
	if err := h.ledger.DeletePurchase(c.Request.Context(), ownerID, purchaseID); err != nil {
		respondError(c, err, "DeletePurchase")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Purchase deleted", slog.String("purchase_id", purchaseID))
	c.Status(http.StatusNoContent)
}
