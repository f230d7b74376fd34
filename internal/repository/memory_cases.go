package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"rainpath-cases/internal/domain"
)

// MemoryCasesRepo keeps cases in process when no database is configured (DB_DRIVER=memory)
// or the configured one is unreachable at startup.
type MemoryCasesRepo struct {
	mu           sync.RWMutex
	now          func() time.Time
	nextID       int64
	cases        map[int64]*domain.Case // caseID -> Case
	byIdentifier map[string]int64
}

func NewMemoryCasesRepo() *MemoryCasesRepo {
	return &MemoryCasesRepo{
		now:          time.Now,
		cases:        map[int64]*domain.Case{},
		byIdentifier: map[string]int64{},
	}
}

var _ CasesRepository = (*MemoryCasesRepo)(nil)

func (r *MemoryCasesRepo) CreateCase(_ context.Context, nc *domain.NewCase) (*domain.Case, error) {
	if nc == nil {
		return nil, domain.NewValidationError("case is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byIdentifier[nc.Identifier]; exists {
		return nil, &domain.ConflictError{Message: duplicateIdentifierMessage}
	}

	now := r.now().UTC()
	c := &domain.Case{
		ID:         r.id(),
		Identifier: nc.Identifier,
		CreatedAt:  now,
		UpdatedAt:  now,
		Specimens:  make([]domain.Specimen, 0, len(nc.Specimens)),
	}
	for _, ns := range nc.Specimens {
		s := domain.Specimen{ID: r.id(), CaseID: c.ID, CreatedAt: now, UpdatedAt: now, Blocks: make([]domain.Block, 0, len(ns.Blocks))}
		for _, nb := range ns.Blocks {
			b := domain.Block{ID: r.id(), SpecimenID: s.ID, CreatedAt: now, UpdatedAt: now, Slides: make([]domain.Slide, 0, len(nb.Slides))}
			for _, nsl := range nb.Slides {
				b.Slides = append(b.Slides, domain.Slide{ID: r.id(), BlockID: b.ID, Staining: nsl.Staining, CreatedAt: now, UpdatedAt: now})
			}
			s.Blocks = append(s.Blocks, b)
		}
		c.Specimens = append(c.Specimens, s)
	}

	r.cases[c.ID] = c
	r.byIdentifier[c.Identifier] = c.ID
	return copyCase(c), nil
}

func (r *MemoryCasesRepo) ListCases(_ context.Context) ([]*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Case, 0, len(r.cases))
	for _, c := range r.cases {
		all = append(all, copyCase(c))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return all, nil
}

func (r *MemoryCasesRepo) GetCase(_ context.Context, id int64) (*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, domain.CaseNotFound(id)
	}
	return copyCase(c), nil
}

func (r *MemoryCasesRepo) DeleteCase(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[id]
	if !ok {
		return domain.CaseNotFound(id)
	}
	delete(r.byIdentifier, c.Identifier)
	delete(r.cases, id)
	return nil
}

// id one sequence shared by all levels; callers hold mu.
func (r *MemoryCasesRepo) id() int64 {
	r.nextID++
	return r.nextID
}

// copyCase deep copy so callers never alias stored slices.
func copyCase(c *domain.Case) *domain.Case {
	out := *c
	out.Specimens = make([]domain.Specimen, len(c.Specimens))
	for i, s := range c.Specimens {
		out.Specimens[i] = s
		out.Specimens[i].Blocks = make([]domain.Block, len(s.Blocks))
		for j, b := range s.Blocks {
			out.Specimens[i].Blocks[j] = b
			out.Specimens[i].Blocks[j].Slides = append([]domain.Slide{}, b.Slides...)
		}
	}
	return &out
}
