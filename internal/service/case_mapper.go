package service

import (
	"fmt"
	"strings"
	"time"

	"rainpath-cases/internal/domain"
)

// TimestampLayout ISO-8601, UTC, millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ToCreateShape drops the uid keys, trims strings and checks that every level is non-empty.
// All violations are reported together in one ValidationError.
func ToCreateShape(req *CreateCaseRequest) (*domain.NewCase, error) {
	if req == nil {
		return nil, domain.NewValidationError("identifier should not be empty", "specimens should not be empty")
	}

	var problems []string
	nc := &domain.NewCase{
		Identifier: strings.TrimSpace(req.Identifier),
		Specimens:  make([]domain.NewSpecimen, 0, len(req.Specimens)),
	}
	if nc.Identifier == "" {
		problems = append(problems, "identifier should not be empty")
	}
	if len(req.Specimens) == 0 {
		problems = append(problems, "specimens should not be empty")
	}

	for i, sp := range req.Specimens {
		specimen := domain.NewSpecimen{Blocks: make([]domain.NewBlock, 0, len(sp.Blocks))}
		if len(sp.Blocks) == 0 {
			problems = append(problems, fmt.Sprintf("specimens.%d.blocks should not be empty", i))
		}
		for j, bl := range sp.Blocks {
			block := domain.NewBlock{Slides: make([]domain.NewSlide, 0, len(bl.Slides))}
			if len(bl.Slides) == 0 {
				problems = append(problems, fmt.Sprintf("specimens.%d.blocks.%d.slides should not be empty", i, j))
			}
			for k, sl := range bl.Slides {
				staining := strings.TrimSpace(sl.Staining)
				if staining == "" {
					problems = append(problems, fmt.Sprintf("specimens.%d.blocks.%d.slides.%d.staining should not be empty", i, j, k))
				}
				block.Slides = append(block.Slides, domain.NewSlide{Staining: staining})
			}
			specimen.Blocks = append(specimen.Blocks, block)
		}
		nc.Specimens = append(nc.Specimens, specimen)
	}

	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}
	return nc, nil
}

// ToCaseResponse maps a stored aggregate, keeping stored order at every level.
func ToCaseResponse(c *domain.Case) CaseResponse {
	resp := CaseResponse{
		ID:         c.ID,
		Identifier: c.Identifier,
		CreatedAt:  formatTimestamp(c.CreatedAt),
		UpdatedAt:  formatTimestamp(c.UpdatedAt),
		Specimens:  make([]SpecimenResponse, 0, len(c.Specimens)),
	}
	for _, s := range c.Specimens {
		specimen := SpecimenResponse{
			ID:        s.ID,
			CreatedAt: formatTimestamp(s.CreatedAt),
			UpdatedAt: formatTimestamp(s.UpdatedAt),
			Blocks:    make([]BlockResponse, 0, len(s.Blocks)),
		}
		for _, b := range s.Blocks {
			block := BlockResponse{
				ID:        b.ID,
				CreatedAt: formatTimestamp(b.CreatedAt),
				UpdatedAt: formatTimestamp(b.UpdatedAt),
				Slides:    make([]SlideResponse, 0, len(b.Slides)),
			}
			for _, sl := range b.Slides {
				block.Slides = append(block.Slides, SlideResponse{
					ID:        sl.ID,
					Staining:  sl.Staining,
					CreatedAt: formatTimestamp(sl.CreatedAt),
					UpdatedAt: formatTimestamp(sl.UpdatedAt),
				})
			}
			specimen.Blocks = append(specimen.Blocks, block)
		}
		resp.Specimens = append(resp.Specimens, specimen)
	}
	return resp
}

func ToCaseResponseList(cases []*domain.Case) []CaseResponse {
	out := make([]CaseResponse, 0, len(cases))
	for _, c := range cases {
		out = append(out, ToCaseResponse(c))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
