package service

import (
	"context"
	"testing"

	"rainpath-cases/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "rainpath.case-creation", DraftKey(""))
	assert.Equal(t, "rainpath.case-creation", DraftKey("  "))
	assert.Equal(t, "rainpath.case-creation:bench-2", DraftKey("bench-2"))
}

func TestDraftService_SaveReadClear(t *testing.T) {
	kv := store.NewMemoryKV()
	svc := NewDraftService(kv, 0, zap.NewNop())
	ctx := context.Background()

	draft, err := svc.ReadDraft(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, draft)

	// incomplete drafts are accepted as-is, uid keys included
	saved := &CreateCaseRequest{
		Identifier: "DOS-",
		Specimens: []CreateSpecimenRequest{{UID: "s-1", Blocks: []CreateBlockRequest{
			{UID: "b-1", Slides: []CreateSlideRequest{{UID: "sl-1", Staining: ""}}},
		}}},
	}
	require.NoError(t, svc.SaveDraft(ctx, "", saved))

	draft, err = svc.ReadDraft(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, saved, draft)

	other, err := svc.ReadDraft(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, svc.ClearDraft(ctx, ""))
	draft, err = svc.ReadDraft(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraftService_UnreadableDraftIsDropped(t *testing.T) {
	kv := store.NewMemoryKV()
	svc := NewDraftService(kv, 0, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, DraftKey(""), "{not json", 0))

	draft, err := svc.ReadDraft(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, draft)

	_, err = kv.Get(ctx, DraftKey(""))
	assert.ErrorIs(t, err, store.ErrMiss)
}
