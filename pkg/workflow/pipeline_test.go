package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcStage struct {
	name string
	fn   func(*Context) (*Context, error)
}

func (s funcStage) Name() string { return s.name }

func (s funcStage) Execute(_ context.Context, wc *Context) (*Context, error) {
	return s.fn(wc)
}

func recordingStage(name string, order *[]string, fn func(*Context) (*Context, error)) funcStage {
	return funcStage{name: name, fn: func(wc *Context) (*Context, error) {
		*order = append(*order, name)
		return fn(wc)
	}}
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	var order []string
	p := New("test").
		Then(recordingStage("analysis", &order, func(wc *Context) (*Context, error) {
			return wc.WithDistinctions([]Distinction{{Name: "Syntax"}}), nil
		})).
		Then(recordingStage("insights", &order, func(wc *Context) (*Context, error) {
			require.NotEmpty(t, wc.Distinctions)
			return wc.WithInsights([]string{"practice daily"}), nil
		})).
		Then(recordingStage("next", &order, func(wc *Context) (*Context, error) {
			require.NotNil(t, wc.Insights)
			return wc.WithNextSteps([]NextStep{{Action: "write code", Develops: []string{"Syntax"}}}), nil
		}))

	initial := NewContext("Go", Beginner)
	final, err := p.Run(context.Background(), initial)
	require.NoError(t, err)

	assert.Equal(t, []string{"analysis", "insights", "next"}, order)
	assert.True(t, final.Complete())
	assert.Nil(t, initial.Distinctions, "input context must not be mutated")
}

func TestPipelineShortCircuitsOnFailure(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	p := New("test").
		Then(recordingStage("first", &order, func(wc *Context) (*Context, error) {
			return wc.WithDistinctions([]Distinction{{Name: "A"}}), nil
		})).
		Then(recordingStage("second", &order, func(*Context) (*Context, error) {
			return nil, boom
		})).
		Then(recordingStage("third", &order, func(wc *Context) (*Context, error) {
			return wc, nil
		}))

	var events []Event
	final, err := p.Run(context.Background(), NewContext("Go", Beginner), func(e Event) {
		events = append(events, e)
	})

	require.ErrorIs(t, err, boom)
	assert.Nil(t, final)
	assert.Equal(t, []string{"first", "second"}, order)

	require.Len(t, events, 4)
	assert.Equal(t, StatusRunning, events[0].Status)
	assert.Equal(t, StatusCompleted, events[1].Status)
	assert.Equal(t, StatusRunning, events[2].Status)
	assert.Equal(t, StatusFailed, events[3].Status)
	assert.Equal(t, "second", events[3].Stage)
	assert.Equal(t, 1, events[3].Index)
	assert.Equal(t, "test", events[3].Pipeline)
}

func TestPipelinePropagatesTypedErrorsUnchanged(t *testing.T) {
	cause := &MalformedResponseError{Stage: "x", Err: errors.New("bad json")}
	p := New("test").Then(funcStage{name: "x", fn: func(*Context) (*Context, error) { return nil, cause }})

	_, err := p.Run(context.Background(), NewContext("Go", Beginner))

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Same(t, cause, malformed)
}

func TestPipelineThenDoesNotShareState(t *testing.T) {
	noop := func(name string) funcStage {
		return funcStage{name: name, fn: func(wc *Context) (*Context, error) { return wc, nil }}
	}
	base := New("base").Then(noop("a"))
	left := base.Then(noop("b"))
	right := base.Then(noop("c"))

	assert.Equal(t, []string{"a"}, base.Stages())
	assert.Equal(t, []string{"a", "b"}, left.Stages())
	assert.Equal(t, []string{"a", "c"}, right.Stages())
}

func TestPipelineRejectsNilContextFromStage(t *testing.T) {
	p := New("test").Then(funcStage{name: "nil", fn: func(*Context) (*Context, error) { return nil, nil }})

	_, err := p.Run(context.Background(), NewContext("Go", Beginner))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no context")
}

func TestPipelineStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	p := New("test").Then(funcStage{name: "a", fn: func(wc *Context) (*Context, error) {
		called = true
		return wc, nil
	}})

	_, err := p.Run(ctx, NewContext("Go", Beginner))
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPipelineWithoutStages(t *testing.T) {
	_, err := New("empty").Run(context.Background(), NewContext("Go", Beginner))
	require.Error(t, err)
}
