package workflow

import (
	"context"
	"fmt"
	"time"
)

// Pipeline is an ordered list of stages. It is immutable: Then returns a new
// Pipeline, so a partially built pipeline can be extended in several ways
// without the results sharing state.
type Pipeline struct {
	name   string
	stages []Stage
}

// New creates an empty pipeline.
func New(name string) *Pipeline {
	return &Pipeline{name: name}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Then returns a copy of p with s appended.
func (p *Pipeline) Then(s Stage) *Pipeline {
	stages := make([]Stage, len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)
	return &Pipeline{name: p.name, stages: append(stages, s)}
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes the stages in order, feeding each stage the Context returned
// by its predecessor. The first failure stops the run and is returned as is;
// no partial Context is returned with it.
func (p *Pipeline) Run(ctx context.Context, wc *Context, observers ...Observer) (*Context, error) {
	if wc == nil {
		return nil, fmt.Errorf("pipeline %s: context is required", p.name)
	}
	if len(p.stages) == 0 {
		return nil, fmt.Errorf("pipeline %s has no stages", p.name)
	}

	emit := func(e Event) {
		e.Pipeline = p.name
		for _, obs := range observers {
			if obs != nil {
				obs(e)
			}
		}
	}

	current := wc
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline %s cancelled before stage %s: %w", p.name, stage.Name(), err)
		}

		emit(Event{Stage: stage.Name(), Index: i, Status: StatusRunning})
		start := time.Now()
		next, err := stage.Execute(ctx, current)
		if err == nil && next == nil {
			err = fmt.Errorf("stage %s returned no context", stage.Name())
		}
		if err != nil {
			emit(Event{Stage: stage.Name(), Index: i, Status: StatusFailed, Duration: time.Since(start), Err: err})
			return nil, err
		}
		emit(Event{Stage: stage.Name(), Index: i, Status: StatusCompleted, Duration: time.Since(start)})
		current = next
	}
	return current, nil
}
