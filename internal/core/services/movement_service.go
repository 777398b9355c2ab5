package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/utils/pagination"
)

type movementService struct {
	BaseService
}

// NewMovementService creates the movement log reader.
func NewMovementService() portssvc.MovementLogSvc {
	return &movementService{}
}

var _ portssvc.MovementLogSvc = (*movementService)(nil)

func (s *movementService) List(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, query domain.MovementQuery) (*domain.MovementPage, error) {
	var after *pagination.Cursor
	if query.NextToken != "" {
		cursor, err := pagination.DecodeToken(query.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: nextToken: %v", apperrors.ErrValidation, err)
		}
		after = &cursor
	}

	// One extra row tells whether another page exists.
	fetch := 0
	if query.Limit > 0 {
		fetch = query.Limit + 1
	}
	movements, err := uow.Movements().ListMovementsByAccount(ctx, accountID, fetch, after)
	if err != nil {
		return nil, err
	}

	page := &domain.MovementPage{Movements: movements}
	if query.Limit > 0 && len(movements) > query.Limit {
		page.Movements = movements[:query.Limit]
		last := page.Movements[len(page.Movements)-1]
		token := pagination.EncodeToken(pagination.Cursor{
			OccurredAt: last.OccurredAt,
			CreatedAt:  last.CreatedAt,
			SourceID:   last.SourceID,
		})
		page.NextToken = &token
	}

	if query.IncludeItems {
		if err := s.attachItems(ctx, uow, page.Movements); err != nil {
			return nil, err
		}
	}
	if page.Movements == nil {
		page.Movements = []domain.Movement{}
	}
	return page, nil
}

func (s *movementService) attachItems(ctx context.Context, uow portsrepo.UnitOfWork, movements []domain.Movement) error {
	purchaseIDs := make([]string, 0, len(movements))
	for _, m := range movements {
		if m.MovementType == domain.MovementPurchase {
			purchaseIDs = append(purchaseIDs, m.SourceID)
		}
	}
	if len(purchaseIDs) == 0 {
		return nil
	}

	itemsByPurchase, err := uow.Movements().FindItemsByPurchaseIDs(ctx, purchaseIDs)
	if err != nil {
		return err
	}
	for i := range movements {
		if movements[i].MovementType == domain.MovementPurchase {
			movements[i].Items = itemsByPurchase[movements[i].SourceID]
		}
	}
	return nil
}
