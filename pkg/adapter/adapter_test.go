package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/skillmaster/pkg/logger"
)

func TestMockAdapterReplaysInOrder(t *testing.T) {
	boom := errors.New("rate limited")
	m := NewMockAdapter(MockReply{Content: "first"}, MockReply{Err: boom})

	resp, err := m.Generate(context.Background(), Request{Model: "gpt-4o-mini", Messages: []Message{UserMessage("hi")}})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	_, err = m.Generate(context.Background(), Request{})
	require.ErrorIs(t, err, boom)

	_, err = m.Generate(context.Background(), Request{})
	require.Error(t, err)

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "hi", calls[0].Messages[0].Content)
}

func TestSplitSystem(t *testing.T) {
	system, turns := splitSystem([]Message{
		SystemMessage("be terse"),
		UserMessage("question"),
		SystemMessage("answer in JSON"),
	})
	assert.Equal(t, "be terse\n\nanswer in JSON", system)
	require.Len(t, turns, 1)
	assert.Equal(t, RoleUser, turns[0].Role)
}

func TestNewRejectsUnknownAdapter(t *testing.T) {
	_, err := New("nope", "key")
	require.Error(t, err)
}

func TestNewRequiresAPIKey(t *testing.T) {
	for _, name := range Providers {
		_, err := New(name, "")
		assert.Error(t, err, name)
	}
}

func TestNewDeepSeekAdapterIdentity(t *testing.T) {
	a, err := New("deepseek", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "deepseek", a.Name())
	assert.Contains(t, a.Models(), "deepseek-chat")
}

func TestStatusOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &AdapterError{Provider: "openai", Status: 429, Err: errors.New("slow down")})
	assert.Equal(t, 429, StatusOf(err))
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
	assert.Equal(t, 0, StatusOf(nil))
}

func TestWithLoggingPassesThrough(t *testing.T) {
	m := NewMockAdapterWithResponses("ok")
	wrapped := WithLogging(m, logger.Nop())

	resp, err := wrapped.Generate(context.Background(), Request{Model: "mock-1"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "mock", wrapped.Name())
	assert.Len(t, m.Calls(), 1)

	assert.Same(t, m, WithLogging(m, nil))
}
