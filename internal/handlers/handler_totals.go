package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

func registerTotalsRoutes(rg *gin.RouterGroup, ledger portssvc.AccountGatewaySvc) {
	rg.GET("/totals/receivable", func(c *gin.Context) {
		getTotalReceivable(c, ledger)
	})
}

// getTotalReceivable godoc
// @Summary Get the total receivable
// @Description Sum of all customer balances of the authenticated owner
// @Tags totals
// @Produce  json
// @Success 200 {object} dto.TotalReceivableResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /totals/receivable [get]
func getTotalReceivable(c *gin.Context, ledger portssvc.AccountGatewaySvc) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	total, err := ledger.GetTotalReceivable(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err, "GetTotalReceivable")
		return
	}
	c.JSON(http.StatusOK, dto.TotalReceivableResponse{TotalReceivable: total})
}
