package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rainpath-cases/internal/store"

	"go.uber.org/zap"
)

// DraftKeyPrefix storage key of the in-progress creation form.
const DraftKeyPrefix = "rainpath.case-creation"

// DraftService read/save/clear of unfinished creation forms. A draft keeps the uid keys and
// is not validated; only the final POST is.
type DraftService struct {
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

// NewDraftService ttl 0 keeps drafts until cleared.
func NewDraftService(kv store.KV, ttl time.Duration, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{kv: kv, ttl: ttl, logger: logger}
}

// DraftKey "rainpath.case-creation" or "rainpath.case-creation:<name>".
func DraftKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DraftKeyPrefix
	}
	return DraftKeyPrefix + ":" + name
}

// ReadDraft returns nil, nil when there is no draft. An unreadable draft is dropped and
// reported as absent.
func (s *DraftService) ReadDraft(ctx context.Context, name string) (*CreateCaseRequest, error) {
	key := DraftKey(name)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("read draft: %w", err)
	}

	var draft CreateCaseRequest
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		s.logger.Warn("discarding unreadable draft", zap.String("key", key), zap.Error(err))
		if delErr := s.kv.Del(ctx, key); delErr != nil {
			s.logger.Warn("failed to clear unreadable draft", zap.String("key", key), zap.Error(delErr))
		}
		return nil, nil
	}
	return &draft, nil
}

func (s *DraftService) SaveDraft(ctx context.Context, name string, draft *CreateCaseRequest) error {
	if draft == nil {
		draft = &CreateCaseRequest{}
	}
	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.kv.Set(ctx, DraftKey(name), string(b), s.ttl); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *DraftService) ClearDraft(ctx context.Context, name string) error {
	if err := s.kv.Del(ctx, DraftKey(name)); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
