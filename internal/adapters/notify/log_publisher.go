package notify

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
)

// LogEventPublisher writes events to a structured logger. Used when no broker is configured.
type LogEventPublisher struct {
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*LogEventPublisher)(nil)

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventPublisher{logger: logger}
}

func (p *LogEventPublisher) PublishBalanceChanged(ctx context.Context, event domain.BalanceChangedEvent) error {
	p.logger.InfoContext(ctx, "Balance changed",
		slog.String("owner_id", event.OwnerID),
		slog.String("customer_id", event.CustomerID),
		slog.String("account_id", event.AccountID),
		slog.String("new_balance", event.NewBalance.String()),
	)
	return nil
}

func (p *LogEventPublisher) PublishTotalsChanged(ctx context.Context, event domain.TotalsChangedEvent) error {
	p.logger.InfoContext(ctx, "Total receivable changed",
		slog.String("owner_id", event.OwnerID),
		slog.String("new_total", event.NewTotal.String()),
	)
	return nil
}
