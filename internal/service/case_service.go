package service

import (
	"context"

	"rainpath-cases/internal/casegraph"
	"rainpath-cases/internal/domain"
	"rainpath-cases/internal/repository"

	"go.uber.org/zap"
)

// CaseEventNotifier receives case lifecycle events after the store has committed them.
type CaseEventNotifier interface {
	CaseCreated(ctx context.Context, c *domain.Case) error
	CaseDeleted(ctx context.Context, id int64) error
}

type nopNotifier struct{}

func (nopNotifier) CaseCreated(context.Context, *domain.Case) error { return nil }
func (nopNotifier) CaseDeleted(context.Context, int64) error        { return nil }

// CaseService case CRUD, graph and export data.
type CaseService struct {
	repo   repository.CasesRepository
	events CaseEventNotifier
	logger *zap.Logger
}

// NewCaseService events may be nil.
func NewCaseService(repo repository.CasesRepository, events CaseEventNotifier, logger *zap.Logger) *CaseService {
	if events == nil {
		events = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseService{repo: repo, events: events, logger: logger}
}

// CreateCase validates, stores the whole tree and returns it as stored.
func (s *CaseService) CreateCase(ctx context.Context, req *CreateCaseRequest) (*CaseResponse, error) {
	nc, err := ToCreateShape(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCase(ctx, nc)
	if err != nil {
		return nil, err
	}

	summary := casegraph.Summarize(created)
	s.logger.Info("case created",
		zap.Int64("case_id", created.ID),
		zap.String("identifier", created.Identifier),
		zap.Int("specimens", summary.Specimens),
		zap.Int("blocks", summary.Blocks),
		zap.Int("slides", summary.Slides),
	)
	if err := s.events.CaseCreated(ctx, created); err != nil {
		s.logger.Warn("failed to publish case created event", zap.Int64("case_id", created.ID), zap.Error(err))
	}

	resp := ToCaseResponse(created)
	return &resp, nil
}

// ListCases newest first.
func (s *CaseService) ListCases(ctx context.Context) ([]CaseResponse, error) {
	cases, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	return ToCaseResponseList(cases), nil
}

func (s *CaseService) GetCase(ctx context.Context, id int64) (*CaseResponse, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCaseResponse(c)
	return &resp, nil
}

func (s *CaseService) DeleteCase(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCase(ctx, id); err != nil {
		return err
	}

	s.logger.Info("case deleted", zap.Int64("case_id", id))
	if err := s.events.CaseDeleted(ctx, id); err != nil {
		s.logger.Warn("failed to publish case deleted event", zap.Int64("case_id", id), zap.Error(err))
	}
	return nil
}

// CaseGraph positioned node/edge layout of one case.
func (s *CaseService) CaseGraph(ctx context.Context, id int64) (*casegraph.Graph, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return casegraph.Generate(c), nil
}

// ExportRow one slide of one case, flattened for spreadsheets.
type ExportRow struct {
	CaseID     int64
	Identifier string
	Specimen   string
	Block      string
	Slide      string
	Staining   string
	CreatedAt  string
}

// ExportRows every slide of every case, cases newest first, slides in traversal order.
// Cases without slides still get one row so they show up in the export.
func (s *CaseService) ExportRows(ctx context.Context) ([]ExportRow, error) {
	cases, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(cases))
	for _, c := range cases {
		created := formatTimestamp(c.CreatedAt)
		before := len(rows)
		for si, sp := range c.Specimens {
			for bi, bl := range sp.Blocks {
				for sli, sl := range bl.Slides {
					rows = append(rows, ExportRow{
						CaseID:     c.ID,
						Identifier: c.Identifier,
						Specimen:   casegraph.SpecimenLabel(si),
						Block:      casegraph.BlockLabel(bi),
						Slide:      casegraph.SlideLabel(sli),
						Staining:   sl.Staining,
						CreatedAt:  created,
					})
				}
			}
		}
		if len(rows) == before {
			rows = append(rows, ExportRow{CaseID: c.ID, Identifier: c.Identifier, CreatedAt: created})
		}
	}
	return rows, nil
}
