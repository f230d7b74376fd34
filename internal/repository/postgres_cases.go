package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rainpath-cases/internal/domain"
)

// PostgresCasesRepository CasesRepository on PostgreSQL (lib/pq).
type PostgresCasesRepository struct {
	db *sql.DB
}

// NewPostgresCasesRepository db must already carry the schema (EnsureSchema).
func NewPostgresCasesRepository(db *sql.DB) *PostgresCasesRepository {
	return &PostgresCasesRepository{db: db}
}

var _ CasesRepository = (*PostgresCasesRepository)(nil)

// CreateCase inserts level by level inside one transaction, in request order.
func (r *PostgresCasesRepository) CreateCase(ctx context.Context, nc *domain.NewCase) (_ *domain.Case, err error) {
	if nc == nil {
		return nil, domain.NewValidationError("case is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateStoreError("begin create case", err, errorContext{})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created := &domain.Case{Identifier: nc.Identifier, Specimens: make([]domain.Specimen, 0, len(nc.Specimens))}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO cases (identifier) VALUES ($1) RETURNING id, created_at, updated_at`,
		nc.Identifier,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, translateStoreError("insert case", err, errorContext{uniqueMessage: duplicateIdentifierMessage})
	}

	for _, ns := range nc.Specimens {
		specimen := domain.Specimen{CaseID: created.ID, Blocks: make([]domain.Block, 0, len(ns.Blocks))}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO specimens (case_id) VALUES ($1) RETURNING id, created_at, updated_at`,
			created.ID,
		).Scan(&specimen.ID, &specimen.CreatedAt, &specimen.UpdatedAt)
		if err != nil {
			return nil, translateStoreError("insert specimen", err, errorContext{})
		}

		for _, nb := range ns.Blocks {
			block := domain.Block{SpecimenID: specimen.ID, Slides: make([]domain.Slide, 0, len(nb.Slides))}
			err = tx.QueryRowContext(ctx,
				`INSERT INTO blocks (specimen_id) VALUES ($1) RETURNING id, created_at, updated_at`,
				specimen.ID,
			).Scan(&block.ID, &block.CreatedAt, &block.UpdatedAt)
			if err != nil {
				return nil, translateStoreError("insert block", err, errorContext{})
			}

			for _, nsl := range nb.Slides {
				slide := domain.Slide{BlockID: block.ID, Staining: nsl.Staining}
				err = tx.QueryRowContext(ctx,
					`INSERT INTO slides (block_id, staining) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
					block.ID, nsl.Staining,
				).Scan(&slide.ID, &slide.CreatedAt, &slide.UpdatedAt)
				if err != nil {
					return nil, translateStoreError("insert slide", err, errorContext{})
				}
				block.Slides = append(block.Slides, slide)
			}
			specimen.Blocks = append(specimen.Blocks, block)
		}
		created.Specimens = append(created.Specimens, specimen)
	}

	if err = tx.Commit(); err != nil {
		return nil, translateStoreError("commit create case", err, errorContext{uniqueMessage: duplicateIdentifierMessage})
	}
	return created, nil
}

// ListCases newest first.
func (r *PostgresCasesRepository) ListCases(ctx context.Context) ([]*domain.Case, error) {
	return r.queryCases(ctx, fmt.Sprintf(hierarchySelect, ""))
}

// GetCase full tree of one case.
func (r *PostgresCasesRepository) GetCase(ctx context.Context, id int64) (*domain.Case, error) {
	cases, err := r.queryCases(ctx, fmt.Sprintf(hierarchySelect, "WHERE c.id = $1"), id)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, domain.CaseNotFound(id)
	}
	return cases[0], nil
}

// DeleteCase children go with it through ON DELETE CASCADE.
func (r *PostgresCasesRepository) DeleteCase(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return translateStoreError("delete case", err, errorContext{notFoundMessage: domain.CaseNotFound(id).Message})
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return translateStoreError("delete case rows affected", err, errorContext{})
	}
	if affected == 0 {
		return domain.CaseNotFound(id)
	}
	return nil
}

func (r *PostgresCasesRepository) queryCases(ctx context.Context, query string, args ...any) ([]*domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateStoreError("query cases", err, errorContext{})
	}
	defer rows.Close()

	flat := []hierarchyRow{}
	for rows.Next() {
		var row hierarchyRow
		if err := rows.Scan(
			&row.CaseID, &row.Identifier, &row.CaseCreatedAt, &row.CaseUpdatedAt,
			&row.SpecimenID, &row.SpecimenCreatedAt, &row.SpecimenUpdatedAt,
			&row.BlockID, &row.BlockCreatedAt, &row.BlockUpdatedAt,
			&row.SlideID, &row.Staining, &row.SlideCreatedAt, &row.SlideUpdatedAt,
		); err != nil {
			return nil, translateStoreError("scan case row", err, errorContext{})
		}
		flat = append(flat, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStoreError("iterate case rows", err, errorContext{})
	}

	return assembleCases(flat), nil
}
