package dto

import (
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListMovementsParams defines the query parameters for listing movements.
type ListMovementsParams struct {
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken    string `form:"nextToken"`
	IncludeItems bool   `form:"includeItems"`
}

// ToQuery converts the query parameters to a domain.MovementQuery.
func (p ListMovementsParams) ToQuery() domain.MovementQuery {
	return domain.MovementQuery{
		Limit:        p.Limit,
		NextToken:    p.NextToken,
		IncludeItems: p.IncludeItems,
	}
}

type MovementResponse struct {
	Type         domain.MovementType    `json:"type"`
	SourceID     string                 `json:"sourceID"`
	Amount       decimal.Decimal        `json:"amount"`
	SignedAmount decimal.Decimal        `json:"signedAmount"`
	OccurredAt   time.Time              `json:"occurredAt"`
	CreatedAt    time.Time              `json:"createdAt"`
	Items        []PurchaseItemResponse `json:"items,omitempty"`
}

// ListMovementsResponse is one page of the movement log.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToListMovementsResponse converts a domain.MovementPage to its DTO.
func ToListMovementsResponse(page *domain.MovementPage) ListMovementsResponse {
	res := ListMovementsResponse{
		Movements: make([]MovementResponse, len(page.Movements)),
		NextToken: page.NextToken,
	}
	for i, m := range page.Movements {
		res.Movements[i] = MovementResponse{
			Type:         m.MovementType,
			SourceID:     m.SourceID,
			Amount:       m.Amount,
			SignedAmount: m.SignedAmount(),
			OccurredAt:   m.OccurredAt,
			CreatedAt:    m.CreatedAt,
			Items:        ToPurchaseItemResponses(m.Items),
		}
	}
	return res
}
