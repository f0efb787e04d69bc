package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadlight/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/enrichers"
)

func strPtr(s string) *string { return &s }

func newMessageService(t *testing.T) (*MessageService, *memory.MessageStore) {
	t.Helper()
	store := memory.NewMessageStore()
	return NewMessageService(enrichers.NewDefaultChain(), store), store
}

func TestMessageService_Enrich(t *testing.T) {
	svc, _ := newMessageService(t)

	got := svc.Enrich(domain.Message{ID: "m1", Text: strPtr("Your verification code is 482913")})

	assert.Equal(t, "m1", got.ID)
	require.Len(t, got.DetectedCodes, 1)
	assert.Equal(t, "482913", got.DetectedCodes[0].Value)
	assert.Equal(t, domain.ConfidenceHigh, got.DetectedCodes[0].Confidence)
}

func TestMessageService_EnrichText(t *testing.T) {
	svc, _ := newMessageService(t)
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got := svc.EnrichText("ping @sam")

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, fixed, got.Timestamp)
	require.NotNil(t, got.Text)
	assert.Equal(t, "ping @sam", *got.Text)
	require.Len(t, got.Mentions, 1)
	assert.Equal(t, "@sam", got.Mentions[0].Text)

	other := svc.EnrichText("ping @sam")
	assert.NotEqual(t, got.ID, other.ID)
}

func TestMessageService_Get(t *testing.T) {
	svc, store := newMessageService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveMessage(ctx, &domain.Message{ID: "m1", Text: strPtr("\U0001F389\U0001F389"), ConversationID: "c1"}))

	got, err := svc.Get(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.IsEmojiOnly)
	assert.Empty(t, got.Highlights)
}

func TestMessageService_Get_NotFound(t *testing.T) {
	svc, _ := newMessageService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageService_Get_Repeatable(t *testing.T) {
	svc, store := newMessageService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveMessage(ctx, &domain.Message{ID: "m1", Text: strPtr("login code 1234 for @ops")}))

	first, err := svc.Get(ctx, "m1")
	require.NoError(t, err)
	second, err := svc.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := store.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "login code 1234 for @ops", *stored.Text)
}

func TestMessageService_ListConversation(t *testing.T) {
	svc, store := newMessageService(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveMessage(ctx, &domain.Message{ID: "a", ConversationID: "c1", Timestamp: base, Text: strPtr("hi @jo")}))
	require.NoError(t, store.SaveMessage(ctx, &domain.Message{ID: "b", ConversationID: "c1", Timestamp: base.Add(time.Second)}))
	require.NoError(t, store.SaveMessage(ctx, &domain.Message{ID: "c", ConversationID: "c1", Timestamp: base.Add(2 * time.Second), Text: strPtr("ok")}))

	got, err := svc.ListConversation(ctx, "c1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Len(t, got[0].Mentions, 1)
	assert.Equal(t, "b", got[1].ID)
	assert.Empty(t, got[1].Highlights)
	assert.False(t, got[1].IsEmojiOnly)
}

func TestMessageService_ListConversation_RequiresID(t *testing.T) {
	svc, _ := newMessageService(t)

	_, err := svc.ListConversation(context.Background(), "", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMessageService_NoStore(t *testing.T) {
	svc := NewMessageService(enrichers.NewDefaultChain(), nil)

	_, err := svc.Get(context.Background(), "m1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.ListConversation(context.Background(), "c1", 0)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	got := svc.EnrichText("call 415-555-0100")
	assert.NotNil(t, got.Highlights)
}
