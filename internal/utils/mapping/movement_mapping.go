package mapping

import (
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/SscSPs/fiado_backend/internal/models"
)

// ToDomainMovement converts a row of the movements view to a domain Movement
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementType: domain.MovementType(m.MovementType),
		SourceID:     m.SourceID,
		AccountID:    m.AccountID,
		Amount:       m.Amount,
		OccurredAt:   m.OccurredAt,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainMovementSlice converts a slice of model Movements to a slice of domain Movements
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
