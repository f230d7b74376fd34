package repository

import (
	"context"

	"rainpath-cases/internal/domain"
)

// CasesRepository persistence for the Case → Specimen → Block → Slide aggregate.
// The whole tree is created, read and deleted as one unit; there is no update.
//
// Errors are already translated into the domain taxonomy:
//   - *domain.ConflictError   duplicate identifier
//   - *domain.NotFoundError   unknown case id (GetCase, DeleteCase)
//   - *domain.UnexpectedError anything else
type CasesRepository interface {
	// CreateCase inserts the full tree atomically and returns it with generated ids
	// and timestamps, children in insertion order.
	CreateCase(ctx context.Context, c *domain.NewCase) (*domain.Case, error)

	// ListCases newest case first; children ordered by creation ascending.
	ListCases(ctx context.Context) ([]*domain.Case, error)

	// GetCase full tree of one case.
	GetCase(ctx context.Context, id int64) (*domain.Case, error)

	// DeleteCase removes the case and, by cascade, its whole subtree.
	DeleteCase(ctx context.Context, id int64) error
}
