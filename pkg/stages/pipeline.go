package stages

import (
	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

// PipelineName names the skill analysis workflow in events and logs.
const PipelineName = "Skill Analysis Workflow"

// NewPipeline builds the analysis, insight and next steps stages in that
// fixed order, all sharing one gateway.
func NewPipeline(gateway adapter.Adapter, opts Options) *workflow.Pipeline {
	return workflow.New(PipelineName).
		Then(NewSkillAnalysisStage(gateway, opts)).
		Then(NewInsightGenerationStage(gateway, opts)).
		Then(NewNextStepsStage(gateway, opts))
}
