package dto

import (
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentRequest creates or edits a payment. An omitted date means now on create
// and "keep the current date" on update.
type PaymentRequest struct {
	Value       decimal.Decimal `json:"value" binding:"dgt0"`
	PaymentDate *time.Time      `json:"paymentDate"`
}

// PaymentResponse mirrors domain.Payment.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	AccountID     string          `json:"accountID"`
	Value         decimal.Decimal `json:"value"`
	PaymentDate   time.Time       `json:"paymentDate"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		AccountID:     p.AccountID,
		Value:         p.Value,
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}
