package services

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
)

// EventPublisher fans ledger events out to subscribers. Implementations must be
// safe for concurrent use. Errors are reported but never undo a committed write.
type EventPublisher interface {
	PublishBalanceChanged(ctx context.Context, event domain.BalanceChangedEvent) error
	PublishTotalsChanged(ctx context.Context, event domain.TotalsChangedEvent) error
}
