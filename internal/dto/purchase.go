package dto

import (
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseItemRequest is one cart line. UnitPrice is the price agreed at the counter.
type PurchaseItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0,max=2147483647"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"dgt0"`
}

// ItemizedPurchaseRequest creates or replaces a cart purchase.
type ItemizedPurchaseRequest struct {
	PurchaseDate *time.Time            `json:"purchaseDate" binding:"required"`
	Items        []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SimplePurchaseRequest creates or edits a purchase with a directly entered total.
type SimplePurchaseRequest struct {
	Total        decimal.Decimal `json:"total" binding:"dgt0"`
	PurchaseDate *time.Time      `json:"purchaseDate"` // Optional, defaults to now on create
}

// ToDomainItems converts the request lines to domain items.
func (r ItemizedPurchaseRequest) ToDomainItems() []domain.PurchaseItem {
	items := make([]domain.PurchaseItem, len(r.Items))
	for i, line := range r.Items {
		items[i] = domain.PurchaseItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return items
}

// PurchaseItemResponse mirrors domain.PurchaseItem.
type PurchaseItemResponse struct {
	PurchaseItemID string          `json:"purchaseItemID"`
	ProductID      string          `json:"productID"`
	ProductName    string          `json:"productName,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// PurchaseResponse defines the data returned for a purchase.
type PurchaseResponse struct {
	PurchaseID    string                 `json:"purchaseID"`
	AccountID     string                 `json:"accountID"`
	Total         decimal.Decimal        `json:"total"`
	PurchaseDate  time.Time              `json:"purchaseDate"`
	Itemized      bool                   `json:"itemized"`
	Items         []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy string                 `json:"lastUpdatedBy"`
}

func ToPurchaseItemResponses(items []domain.PurchaseItem) []PurchaseItemResponse {
	if len(items) == 0 {
		return nil
	}
	res := make([]PurchaseItemResponse, len(items))
	for i, item := range items {
		res[i] = PurchaseItemResponse{
			PurchaseItemID: item.PurchaseItemID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.LineTotal(),
		}
	}
	return res
}

// ToPurchaseResponse converts a domain.Purchase to PurchaseResponse DTO
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:    p.PurchaseID,
		AccountID:     p.AccountID,
		Total:         p.Total,
		PurchaseDate:  p.PurchaseDate,
		Itemized:      p.IsItemized(),
		Items:         ToPurchaseItemResponses(p.Items),
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}
