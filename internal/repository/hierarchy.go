package repository

import (
	"database/sql"
	"time"

	"rainpath-cases/internal/domain"
)

// hierarchySelect flattens the aggregate with LEFT JOINs; %s is the WHERE clause.
// The ORDER BY keeps every case, specimen and block contiguous, which assembleCases relies on.
const hierarchySelect = `
	SELECT
		c.id, c.identifier, c.created_at, c.updated_at,
		s.id, s.created_at, s.updated_at,
		b.id, b.created_at, b.updated_at,
		sl.id, sl.staining, sl.created_at, sl.updated_at
	FROM cases c
	LEFT JOIN specimens s ON s.case_id = c.id
	LEFT JOIN blocks b ON b.specimen_id = s.id
	LEFT JOIN slides sl ON sl.block_id = b.id
	%s
	ORDER BY c.created_at DESC, c.id DESC, s.created_at, s.id, b.created_at, b.id, sl.created_at, sl.id
`

// hierarchyRow one flattened row; child columns are NULL where a level has no rows.
type hierarchyRow struct {
	CaseID        int64
	Identifier    string
	CaseCreatedAt time.Time
	CaseUpdatedAt time.Time

	SpecimenID        sql.NullInt64
	SpecimenCreatedAt sql.NullTime
	SpecimenUpdatedAt sql.NullTime

	BlockID        sql.NullInt64
	BlockCreatedAt sql.NullTime
	BlockUpdatedAt sql.NullTime

	SlideID        sql.NullInt64
	Staining       sql.NullString
	SlideCreatedAt sql.NullTime
	SlideUpdatedAt sql.NullTime
}

// assembleCases folds ordered rows back into trees.
func assembleCases(rows []hierarchyRow) []*domain.Case {
	cases := make([]*domain.Case, 0)
	var current *domain.Case

	for _, row := range rows {
		if current == nil || current.ID != row.CaseID {
			current = &domain.Case{
				ID:         row.CaseID,
				Identifier: row.Identifier,
				CreatedAt:  row.CaseCreatedAt,
				UpdatedAt:  row.CaseUpdatedAt,
				Specimens:  []domain.Specimen{},
			}
			cases = append(cases, current)
		}
		if !row.SpecimenID.Valid {
			continue
		}

		if n := len(current.Specimens); n == 0 || current.Specimens[n-1].ID != row.SpecimenID.Int64 {
			current.Specimens = append(current.Specimens, domain.Specimen{
				ID:        row.SpecimenID.Int64,
				CaseID:    row.CaseID,
				CreatedAt: row.SpecimenCreatedAt.Time,
				UpdatedAt: row.SpecimenUpdatedAt.Time,
				Blocks:    []domain.Block{},
			})
		}
		specimen := &current.Specimens[len(current.Specimens)-1]
		if !row.BlockID.Valid {
			continue
		}

		if n := len(specimen.Blocks); n == 0 || specimen.Blocks[n-1].ID != row.BlockID.Int64 {
			specimen.Blocks = append(specimen.Blocks, domain.Block{
				ID:         row.BlockID.Int64,
				SpecimenID: specimen.ID,
				CreatedAt:  row.BlockCreatedAt.Time,
				UpdatedAt:  row.BlockUpdatedAt.Time,
				Slides:     []domain.Slide{},
			})
		}
		block := &specimen.Blocks[len(specimen.Blocks)-1]
		if !row.SlideID.Valid {
			continue
		}

		block.Slides = append(block.Slides, domain.Slide{
			ID:        row.SlideID.Int64,
			BlockID:   block.ID,
			Staining:  row.Staining.String,
			CreatedAt: row.SlideCreatedAt.Time,
			UpdatedAt: row.SlideUpdatedAt.Time,
		})
	}

	return cases
}
