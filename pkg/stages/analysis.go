package stages

import (
	"context"
	"encoding/json"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

var distinctionKeys = []string{"name", "description", "importance", "current_level"}

// SkillAnalysisStage breaks a skill down into distinctions.
type SkillAnalysisStage struct {
	llmStage
}

// NewSkillAnalysisStage creates the analysis stage.
func NewSkillAnalysisStage(gateway adapter.Adapter, opts Options) *SkillAnalysisStage {
	return &SkillAnalysisStage{llmStage{
		name:     "Skill Analysis",
		system:   "You are a skill analysis expert. Always respond with valid JSON.",
		key:      "distinctions",
		item:     analysisItem,
		template: analysisPrompt,
		gateway:  gateway,
		opts:     opts.forStage(StageAnalysis),
	}}
}

// Execute populates Distinctions.
func (s *SkillAnalysisStage) Execute(ctx context.Context, wc *workflow.Context) (*workflow.Context, error) {
	var items []json.RawMessage
	payload, err := s.complete(ctx, promptData{
		Skill: wc.SkillName,
		Level: string(wc.ProficiencyLevel),
	}, &items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, s.malformed(payload, "no distinctions returned")
	}
	distinctions, err := decodeItems[workflow.Distinction](items, "distinction", distinctionKeys, nil)
	if err != nil {
		return nil, s.malformed(payload, "%w", err)
	}
	return wc.WithDistinctions(distinctions), nil
}
