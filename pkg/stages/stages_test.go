package stages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

const (
	distinctionsReply = "```json\n" + `{
  "distinctions": [
    {"name": "Syntax Basics", "description": "Reading and writing Python statements", "importance": "Everything builds on it", "current_level": "Beginner"},
    {"name": "Data Structures", "description": "Lists, dicts and sets", "importance": "Organizes data", "current_level": "Beginner"}
  ]
}` + "\n```"
	insightsReply  = "```json\n{\"insights\": [\"Code every day\", \"Read other people's code\", \"Build small projects\"]}\n```"
	nextStepsReply = "```json\n" + `{
  "next_steps": [
    {"action": "Solve one kata", "time_commitment": "20 minutes daily", "success_criteria": "10 katas solved", "develops": ["Syntax Basics"]},
    {"action": "Model a phone book", "time_commitment": "1 hour", "success_criteria": "Lookup works", "develops": ["Data Structures", "Syntax Basics"]}
  ]
}` + "\n```"
)

func seededContext() *workflow.Context {
	return workflow.NewContext("Python Programming", workflow.Beginner).WithDistinctions([]workflow.Distinction{
		{Name: "Syntax Basics", Description: "Reading and writing Python statements"},
		{Name: "Data Structures", Description: "Lists, dicts and sets"},
	})
}

func TestPipelineHappyPath(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(distinctionsReply, insightsReply, nextStepsReply)
	p := NewPipeline(gw, DefaultOptions())

	assert.Equal(t, []string{"Skill Analysis", "Insight Generation", "Next Steps Generation"}, p.Stages())

	final, err := p.Run(context.Background(), workflow.NewContext("Python Programming", workflow.Beginner))
	require.NoError(t, err)

	require.Len(t, final.Distinctions, 2)
	assert.Equal(t, "Syntax Basics", final.Distinctions[0].Name)
	assert.Equal(t, "Beginner", final.Distinctions[0].CurrentLevel)
	assert.Equal(t, []string{"Code every day", "Read other people's code", "Build small projects"}, final.Insights)
	require.Len(t, final.NextSteps, 2)
	assert.Equal(t, []string{"Data Structures", "Syntax Basics"}, final.NextSteps[1].Develops)

	calls := gw.Calls()
	require.Len(t, calls, 3)
	for _, call := range calls {
		assert.Equal(t, DefaultModel, call.Model)
		assert.Equal(t, DefaultTemperature, call.Temperature)
		require.Len(t, call.Messages, 2)
		assert.Equal(t, adapter.RoleSystem, call.Messages[0].Role)
		assert.Equal(t, adapter.RoleUser, call.Messages[1].Role)
		assert.Contains(t, call.Messages[1].Content, "Python Programming")
		assert.Contains(t, call.Messages[1].Content, "Beginner")
	}
	assert.Contains(t, calls[1].Messages[1].Content, "- Syntax Basics: Reading and writing Python statements\n- Data Structures: Lists, dicts and sets")
	assert.Contains(t, calls[2].Messages[1].Content, "Number of distinctions identified: 2")
	assert.Contains(t, calls[2].Messages[1].Content, "- Syntax Basics\n- Data Structures")
}

func TestPromptsAreDeterministic(t *testing.T) {
	first := adapter.NewMockAdapterWithResponses(insightsReply)
	second := adapter.NewMockAdapterWithResponses(insightsReply)

	_, err := NewInsightGenerationStage(first, DefaultOptions()).Execute(context.Background(), seededContext())
	require.NoError(t, err)
	_, err = NewInsightGenerationStage(second, DefaultOptions()).Execute(context.Background(), seededContext())
	require.NoError(t, err)

	assert.Equal(t, first.Calls()[0], second.Calls()[0])
}

func TestDependentStagesRequireDistinctions(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(insightsReply, nextStepsReply)
	empty := workflow.NewContext("Chess", workflow.Advanced)

	_, err := NewInsightGenerationStage(gw, DefaultOptions()).Execute(context.Background(), empty)
	require.ErrorIs(t, err, workflow.ErrMissingDistinctions)

	_, err = NewNextStepsStage(gw, DefaultOptions()).Execute(context.Background(), empty)
	require.ErrorIs(t, err, workflow.ErrMissingDistinctions)

	assert.Empty(t, gw.Calls(), "no gateway call may happen without distinctions")
}

func TestStagePopulatesOnlyItsField(t *testing.T) {
	in := seededContext()
	out, err := NewInsightGenerationStage(adapter.NewMockAdapterWithResponses(insightsReply), DefaultOptions()).
		Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Nil(t, in.Insights)
	assert.Equal(t, in.Distinctions, out.Distinctions)
	assert.Nil(t, out.NextSteps)
	assert.Len(t, out.Insights, 3)
}

func TestMalformedReplyFailsWithMalformedResponseError(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(distinctionsReply, "I cannot help with that.", nextStepsReply)

	final, err := NewPipeline(gw, DefaultOptions()).Run(context.Background(), workflow.NewContext("Python Programming", workflow.Beginner))

	var malformed *workflow.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Insight Generation", malformed.Stage)
	assert.Equal(t, "I cannot help with that.", malformed.Payload)
	assert.Nil(t, final)
	assert.Len(t, gw.Calls(), 2, "next steps must not run")
}

func TestMissingKeyIsMalformed(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(`{"skills": []}`)
	_, err := NewSkillAnalysisStage(gw, DefaultOptions()).Execute(context.Background(), workflow.NewContext("Go", workflow.Beginner))

	var malformed *workflow.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), `missing "distinctions" key`)
}

func TestEmptyListIsMalformed(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(`{"distinctions": []}`)
	_, err := NewSkillAnalysisStage(gw, DefaultOptions()).Execute(context.Background(), workflow.NewContext("Go", workflow.Beginner))

	var malformed *workflow.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestGatewayFailureIsWrapped(t *testing.T) {
	cause := &adapter.AdapterError{Provider: "openai", Status: 401, Err: errors.New("invalid api key")}
	gw := adapter.NewMockAdapter(adapter.MockReply{Err: cause})

	_, err := NewSkillAnalysisStage(gw, DefaultOptions()).Execute(context.Background(), workflow.NewContext("Go", workflow.Beginner))

	var gatewayErr *workflow.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "Skill Analysis", gatewayErr.Stage)
	assert.Equal(t, 401, adapter.StatusOf(err))
	assert.Len(t, gw.Calls(), 1, "gateway errors are not retried")
}

func TestNilGatewayIsGatewayError(t *testing.T) {
	_, err := NewSkillAnalysisStage(nil, DefaultOptions()).Execute(context.Background(), workflow.NewContext("Go", workflow.Beginner))

	var gatewayErr *workflow.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
}

func TestBareArrayShape(t *testing.T) {
	opts := DefaultOptions()
	opts.Shape = ShapeArray
	gw := adapter.NewMockAdapterWithResponses("```json\n[\"Focus on fundamentals\"]\n```")

	stage := NewInsightGenerationStage(gw, opts)
	assert.Equal(t, ShapeArray, stage.opts.Shape)
	out, err := stage.Execute(context.Background(), seededContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"Focus on fundamentals"}, out.Insights)
	assert.Contains(t, gw.Calls()[0].Messages[1].Content, "Only return the JSON array")
}

func TestObjectShapePromptNamesKey(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(nextStepsReply)
	_, err := NewNextStepsStage(gw, DefaultOptions()).Execute(context.Background(), seededContext())
	require.NoError(t, err)
	assert.Contains(t, gw.Calls()[0].Messages[1].Content, `"next_steps": [`)
}

func TestNextStepsNullDevelopsIsEmpty(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(`{"next_steps": [{"action": "Practice", "time_commitment": "5m", "success_criteria": "done", "develops": null}]}`)
	out, err := NewNextStepsStage(gw, DefaultOptions()).Execute(context.Background(), seededContext())
	require.NoError(t, err)
	assert.NotNil(t, out.NextSteps[0].Develops)
	assert.Empty(t, out.NextSteps[0].Develops)
}

func TestIncompleteItemsAreMalformed(t *testing.T) {
	tests := []struct {
		name    string
		stage   func(adapter.Adapter) workflow.Stage
		reply   string
		wantErr string
	}{
		{
			name:    "empty distinction objects",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewSkillAnalysisStage(gw, DefaultOptions()) },
			reply:   `{"distinctions": [{}, {}]}`,
			wantErr: `distinction 1 missing "name"`,
		},
		{
			name:    "null distinction",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewSkillAnalysisStage(gw, DefaultOptions()) },
			reply:   `{"distinctions": [null]}`,
			wantErr: "distinction 1 is not an object",
		},
		{
			name:    "wrong distinction keys",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewSkillAnalysisStage(gw, DefaultOptions()) },
			reply:   `{"distinctions": [{"title": "x"}]}`,
			wantErr: `distinction 1 missing "name"`,
		},
		{
			name:  "blank distinction field",
			stage: func(gw adapter.Adapter) workflow.Stage { return NewSkillAnalysisStage(gw, DefaultOptions()) },
			reply: `{"distinctions": [
				{"name": "A", "description": "d", "importance": "i", "current_level": "Beginner"},
				{"name": "B", "description": " ", "importance": "i", "current_level": "Beginner"}]}`,
			wantErr: `distinction 2 has empty "description"`,
		},
		{
			name:    "non-string distinction field",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewSkillAnalysisStage(gw, DefaultOptions()) },
			reply:   `{"distinctions": [{"name": 1, "description": "d", "importance": "i", "current_level": "Beginner"}]}`,
			wantErr: `distinction 1 field "name" is not a string`,
		},
		{
			name:    "wrong next step keys",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewNextStepsStage(gw, DefaultOptions()) },
			reply:   `{"next_steps": [{"note": "practice"}]}`,
			wantErr: `next step 1 missing "action"`,
		},
		{
			name:    "next step without develops",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewNextStepsStage(gw, DefaultOptions()) },
			reply:   `{"next_steps": [{"action": "Practice", "time_commitment": "5m", "success_criteria": "done"}]}`,
			wantErr: `next step 1 missing "develops"`,
		},
		{
			name:    "develops not a list",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewNextStepsStage(gw, DefaultOptions()) },
			reply:   `{"next_steps": [{"action": "Practice", "time_commitment": "5m", "success_criteria": "done", "develops": "Syntax"}]}`,
			wantErr: "decode next step 1",
		},
		{
			name:    "null insight",
			stage:   func(gw adapter.Adapter) workflow.Stage { return NewInsightGenerationStage(gw, DefaultOptions()) },
			reply:   `{"insights": ["Practice daily", null]}`,
			wantErr: "insight 2 is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := seededContext()
			out, err := tt.stage(adapter.NewMockAdapterWithResponses(tt.reply)).Execute(context.Background(), in)

			var malformed *workflow.MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

func TestBlankDistinctionsNeverReachInsights(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(`{"distinctions": [{}]}`, insightsReply, nextStepsReply)
	_, err := NewPipeline(gw, DefaultOptions()).Run(context.Background(), workflow.NewContext("Go", workflow.Beginner))

	var malformed *workflow.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Skill Analysis", malformed.Stage)
	assert.Len(t, gw.Calls(), 1)
}

func TestOptionsOverrideModel(t *testing.T) {
	gw := adapter.NewMockAdapterWithResponses(distinctionsReply)
	_, err := NewSkillAnalysisStage(gw, Options{Model: "claude-sonnet-4-20250514"}).Execute(context.Background(), workflow.NewContext("Go", workflow.Intermediate))
	require.NoError(t, err)

	call := gw.Calls()[0]
	assert.Equal(t, "claude-sonnet-4-20250514", call.Model)
	assert.Equal(t, DefaultTemperature, call.Temperature)
	assert.Contains(t, call.Messages[1].Content, "Current level assessment for a Intermediate")
}

func TestStageShapeOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.StageShapes = map[string]Shape{StageInsights: ShapeArray}
	gw := adapter.NewMockAdapterWithResponses(distinctionsReply, `["Drill the basics"]`, nextStepsReply)

	final, err := NewPipeline(gw, opts).Run(context.Background(), workflow.NewContext("Go", workflow.Beginner))
	require.NoError(t, err)
	assert.Equal(t, []string{"Drill the basics"}, final.Insights)

	calls := gw.Calls()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[0].Messages[1].Content, `"distinctions": [`)
	assert.Contains(t, calls[1].Messages[1].Content, "Only return the JSON array")
	assert.Contains(t, calls[2].Messages[1].Content, `"next_steps": [`)
}
