package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

// InsightGenerationStage turns distinctions into learning insights.
type InsightGenerationStage struct {
	llmStage
}

// NewInsightGenerationStage creates the insight stage.
func NewInsightGenerationStage(gateway adapter.Adapter, opts Options) *InsightGenerationStage {
	return &InsightGenerationStage{llmStage{
		name:     "Insight Generation",
		system:   "You are a learning coach. Always respond with valid JSON.",
		key:      "insights",
		item:     insightItem,
		template: insightsPrompt,
		gateway:  gateway,
		opts:     opts.forStage(StageInsights),
	}}
}

// Execute populates Insights. It requires Distinctions.
func (s *InsightGenerationStage) Execute(ctx context.Context, wc *workflow.Context) (*workflow.Context, error) {
	if len(wc.Distinctions) == 0 {
		return nil, fmt.Errorf("%s: %w", s.name, workflow.ErrMissingDistinctions)
	}

	summary := make([]string, len(wc.Distinctions))
	for i, d := range wc.Distinctions {
		summary[i] = d.Name + ": " + d.Description
	}

	var insights []string
	payload, err := s.complete(ctx, promptData{
		Skill:   wc.SkillName,
		Level:   string(wc.ProficiencyLevel),
		Summary: bulletList(summary),
	}, &insights)
	if err != nil {
		return nil, err
	}
	if len(insights) == 0 {
		return nil, s.malformed(payload, "no insights returned")
	}
	for i, insight := range insights {
		if strings.TrimSpace(insight) == "" {
			return nil, s.malformed(payload, "insight %d is empty", i+1)
		}
	}
	return wc.WithInsights(insights), nil
}
