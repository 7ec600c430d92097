package stages

import (
	"context"
	"fmt"
	"text/template"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

const (
	// DefaultModel is the model identifier sent with every stage call.
	DefaultModel = "gpt-4o-mini"
	// DefaultTemperature is the sampling temperature for every stage call.
	DefaultTemperature = 0.7
)

// Stage ids used to key per-stage options.
const (
	StageAnalysis  = "analysis"
	StageInsights  = "insights"
	StageNextSteps = "next_steps"
)

// Options holds the per-stage gateway configuration. StageShapes overrides
// Shape for the stages it names.
type Options struct {
	Model       string
	Temperature float64
	Shape       Shape
	StageShapes map[string]Shape
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Model: DefaultModel, Temperature: DefaultTemperature, Shape: ShapeObject}
}

// forStage resolves o for one stage id.
func (o Options) forStage(id string) Options {
	if shape, ok := o.StageShapes[id]; ok && shape != "" {
		o.Shape = shape
	}
	o.StageShapes = nil
	return o.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.Shape == "" {
		o.Shape = ShapeObject
	}
	return o
}

// llmStage holds what every concrete stage shares: a prompt template, a
// system message and the key its list lives under.
type llmStage struct {
	name     string
	system   string
	key      string
	item     string
	template *template.Template
	gateway  adapter.Adapter
	opts     Options
}

func (s *llmStage) Name() string { return s.name }

// complete renders the prompt, calls the gateway and decodes the de-fenced
// reply into out. It returns the de-fenced payload.
func (s *llmStage) complete(ctx context.Context, data promptData, out any) (string, error) {
	if s.gateway == nil {
		return "", &workflow.GatewayError{Stage: s.name, Err: fmt.Errorf("no gateway configured")}
	}

	data.Format = formatInstruction(s.opts.Shape, s.key, s.item)
	prompt, err := renderPrompt(s.template, data)
	if err != nil {
		return "", err
	}

	resp, err := s.gateway.Generate(ctx, adapter.Request{
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
		Messages: []adapter.Message{
			adapter.SystemMessage(s.system),
			adapter.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &workflow.GatewayError{Stage: s.name, Err: err}
	}

	payload := ExtractJSON(resp.Content)
	if err := decodeList(payload, s.opts.Shape, s.key, out); err != nil {
		return payload, &workflow.MalformedResponseError{Stage: s.name, Payload: payload, Err: err}
	}
	return payload, nil
}

func (s *llmStage) malformed(payload string, format string, args ...any) error {
	return &workflow.MalformedResponseError{Stage: s.name, Payload: payload, Err: fmt.Errorf(format, args...)}
}
