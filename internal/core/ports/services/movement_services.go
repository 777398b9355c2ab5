package services

import (
	"context"
	"io"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
)

// MovementLogSvc lists the movement log of an account newest first.
type MovementLogSvc interface {
	List(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, query domain.MovementQuery) (*domain.MovementPage, error)
}

// MovementExporter renders a movement log as a downloadable document.
type MovementExporter interface {
	ContentType() string
	FileExtension() string
	Export(ctx context.Context, w io.Writer, account domain.Account, movements []domain.Movement) error
}
