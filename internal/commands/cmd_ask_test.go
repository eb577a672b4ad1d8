package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediqhq/mediq/internal/core/chat"
)

func TestResolveTurn(t *testing.T) {
	responder := chat.ResponderFunc(func(ctx context.Context, text string) (string, error) {
		return "Stay hydrated and rest.", nil
	})
	engine := chat.New(responder, chat.Options{})

	snap, err := resolveTurn(context.Background(), engine, "How to prevent flu?")
	require.NoError(t, err)

	require.Len(t, snap.Log, 2)
	assert.False(t, snap.AwaitingResponse)
	assert.Equal(t, chat.AuthorUser, snap.Log[0].Author)
	assert.Equal(t, "How to prevent flu?", snap.Log[0].Text)

	answer, ok := snap.LastAssistant()
	require.True(t, ok)
	assert.Equal(t, "Stay hydrated and rest.", answer.Text)
}

func TestResolveTurn_ResponderFailure(t *testing.T) {
	responder := chat.ResponderFunc(func(ctx context.Context, text string) (string, error) {
		return "", errors.New("upstream unavailable")
	})
	engine := chat.New(responder, chat.Options{})

	snap, err := resolveTurn(context.Background(), engine, "anything")
	require.NoError(t, err)

	// The engine absorbs the failure into an error-indicating answer.
	answer, ok := snap.LastAssistant()
	require.True(t, ok)
	assert.Equal(t, chat.DefaultErrorReply, answer.Text)
	assert.False(t, snap.AwaitingResponse)
}
