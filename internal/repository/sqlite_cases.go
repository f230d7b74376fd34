package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rainpath-cases/internal/domain"
)

// sqliteTimeLayout fixed width so TEXT ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteCasesRepository CasesRepository on SQLite (modernc.org/sqlite).
// The connection must have foreign keys enabled (database.NewSQLiteDB does this).
type SQLiteCasesRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteCasesRepository(db *sql.DB) *SQLiteCasesRepository {
	return &SQLiteCasesRepository{db: db, now: time.Now}
}

var _ CasesRepository = (*SQLiteCasesRepository)(nil)

// CreateCase one timestamp for the whole tree, like NOW() in a Postgres transaction.
func (r *SQLiteCasesRepository) CreateCase(ctx context.Context, nc *domain.NewCase) (_ *domain.Case, err error) {
	if nc == nil {
		return nil, domain.NewValidationError("case is required")
	}

	now := r.now().UTC()
	stamp := now.Format(sqliteTimeLayout)
	// round-trip through the stored text so the returned tree equals a later read
	now, _ = time.Parse(sqliteTimeLayout, stamp)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateStoreError("begin create case", err, errorContext{})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created := &domain.Case{
		Identifier: nc.Identifier,
		CreatedAt:  now,
		UpdatedAt:  now,
		Specimens:  make([]domain.Specimen, 0, len(nc.Specimens)),
	}
	created.ID, err = insertID(ctx, tx,
		`INSERT INTO cases (identifier, created_at, updated_at) VALUES (?, ?, ?)`,
		nc.Identifier, stamp, stamp)
	if err != nil {
		return nil, translateStoreError("insert case", err, errorContext{uniqueMessage: duplicateIdentifierMessage})
	}

	for _, ns := range nc.Specimens {
		specimen := domain.Specimen{CaseID: created.ID, CreatedAt: now, UpdatedAt: now, Blocks: make([]domain.Block, 0, len(ns.Blocks))}
		specimen.ID, err = insertID(ctx, tx,
			`INSERT INTO specimens (case_id, created_at, updated_at) VALUES (?, ?, ?)`,
			created.ID, stamp, stamp)
		if err != nil {
			return nil, translateStoreError("insert specimen", err, errorContext{})
		}

		for _, nb := range ns.Blocks {
			block := domain.Block{SpecimenID: specimen.ID, CreatedAt: now, UpdatedAt: now, Slides: make([]domain.Slide, 0, len(nb.Slides))}
			block.ID, err = insertID(ctx, tx,
				`INSERT INTO blocks (specimen_id, created_at, updated_at) VALUES (?, ?, ?)`,
				specimen.ID, stamp, stamp)
			if err != nil {
				return nil, translateStoreError("insert block", err, errorContext{})
			}

			for _, nsl := range nb.Slides {
				slide := domain.Slide{BlockID: block.ID, Staining: nsl.Staining, CreatedAt: now, UpdatedAt: now}
				slide.ID, err = insertID(ctx, tx,
					`INSERT INTO slides (block_id, staining, created_at, updated_at) VALUES (?, ?, ?, ?)`,
					block.ID, nsl.Staining, stamp, stamp)
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

func (r *SQLiteCasesRepository) ListCases(ctx context.Context) ([]*domain.Case, error) {
	return r.queryCases(ctx, fmt.Sprintf(hierarchySelect, ""))
}

func (r *SQLiteCasesRepository) GetCase(ctx context.Context, id int64) (*domain.Case, error) {
	cases, err := r.queryCases(ctx, fmt.Sprintf(hierarchySelect, "WHERE c.id = ?"), id)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, domain.CaseNotFound(id)
	}
	return cases[0], nil
}

func (r *SQLiteCasesRepository) DeleteCase(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return translateStoreError("delete case", err, errorContext{})
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

func (r *SQLiteCasesRepository) queryCases(ctx context.Context, query string, args ...any) ([]*domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateStoreError("query cases", err, errorContext{})
	}
	defer rows.Close()

	flat := []hierarchyRow{}
	for rows.Next() {
		var (
			row                              hierarchyRow
			caseCreated, caseUpdated         string
			specimenCreated, specimenUpdated sql.NullString
			blockCreated, blockUpdated       sql.NullString
			slideCreated, slideUpdated       sql.NullString
		)
		if err := rows.Scan(
			&row.CaseID, &row.Identifier, &caseCreated, &caseUpdated,
			&row.SpecimenID, &specimenCreated, &specimenUpdated,
			&row.BlockID, &blockCreated, &blockUpdated,
			&row.SlideID, &row.Staining, &slideCreated, &slideUpdated,
		); err != nil {
			return nil, translateStoreError("scan case row", err, errorContext{})
		}

		if row.CaseCreatedAt, err = time.Parse(sqliteTimeLayout, caseCreated); err != nil {
			return nil, translateStoreError("parse created_at", err, errorContext{})
		}
		if row.CaseUpdatedAt, err = time.Parse(sqliteTimeLayout, caseUpdated); err != nil {
			return nil, translateStoreError("parse updated_at", err, errorContext{})
		}
		for _, ts := range []struct {
			src sql.NullString
			dst *sql.NullTime
		}{
			{specimenCreated, &row.SpecimenCreatedAt},
			{specimenUpdated, &row.SpecimenUpdatedAt},
			{blockCreated, &row.BlockCreatedAt},
			{blockUpdated, &row.BlockUpdatedAt},
			{slideCreated, &row.SlideCreatedAt},
			{slideUpdated, &row.SlideUpdatedAt},
		} {
			if *ts.dst, err = parseNullTime(ts.src); err != nil {
				return nil, translateStoreError("parse child timestamp", err, errorContext{})
			}
		}
		flat = append(flat, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStoreError("iterate case rows", err, errorContext{})
	}

	return assembleCases(flat), nil
}

func insertID(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func parseNullTime(s sql.NullString) (sql.NullTime, error) {
	if !s.Valid {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(sqliteTimeLayout, s.String)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
