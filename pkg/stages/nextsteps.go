package stages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

var nextStepKeys = []string{"action", "time_commitment", "success_criteria"}

// NextStepsStage produces practice steps tied to the distinctions.
type NextStepsStage struct {
	llmStage
}

// NewNextStepsStage creates the next steps stage.
func NewNextStepsStage(gateway adapter.Adapter, opts Options) *NextStepsStage {
	return &NextStepsStage{llmStage{
		name:     "Next Steps Generation",
		system:   "You are a practice coach. Always respond with valid JSON.",
		key:      "next_steps",
		item:     nextStepItem,
		template: nextStepsPrompt,
		gateway:  gateway,
		opts:     opts.forStage(StageNextSteps),
	}}
}

// Execute populates NextSteps. It requires Distinctions.
func (s *NextStepsStage) Execute(ctx context.Context, wc *workflow.Context) (*workflow.Context, error) {
	if len(wc.Distinctions) == 0 {
		return nil, fmt.Errorf("%s: %w", s.name, workflow.ErrMissingDistinctions)
	}

	var items []json.RawMessage
	payload, err := s.complete(ctx, promptData{
		Skill: wc.SkillName,
		Level: string(wc.ProficiencyLevel),
		Names: bulletList(wc.DistinctionNames()),
		Count: len(wc.Distinctions),
	}, &items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, s.malformed(payload, "no next steps returned")
	}
	steps, err := decodeItems[workflow.NextStep](items, "next step", nextStepKeys, []string{"develops"})
	if err != nil {
		return nil, s.malformed(payload, "%w", err)
	}
	// "develops": null is accepted as an empty list.
	for i := range steps {
		if steps[i].Develops == nil {
			steps[i].Develops = []string{}
		}
	}
	return wc.WithNextSteps(steps), nil
}
