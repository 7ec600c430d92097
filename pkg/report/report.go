package report

import (
	"fmt"

	"github.com/zen-systems/skillmaster/pkg/config"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

// Response is the outward shape of a completed analysis.
type Response struct {
	SkillName        string                 `json:"skill_name"`
	ProficiencyLevel workflow.Level         `json:"proficiency_level"`
	Distinctions     []workflow.Distinction `json:"distinctions"`
	Insights         []string               `json:"insights"`
	NextSteps        []workflow.NextStep    `json:"next_steps"`
	Sources          []config.Source        `json:"sources"`
	RelatedQuestions []string               `json:"related_questions"`
}

// Assemble builds the response for a completed Context, attaching the
// catalog's sources and the related questions rendered for the skill.
func Assemble(wc *workflow.Context, catalog *config.Catalog) (*Response, error) {
	if wc == nil {
		return nil, fmt.Errorf("context is required")
	}
	if !wc.Complete() {
		return nil, fmt.Errorf("analysis for %q is incomplete", wc.SkillName)
	}
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}

	questions, err := catalog.RelatedQuestions(wc.SkillName)
	if err != nil {
		return nil, fmt.Errorf("related questions: %w", err)
	}

	sources := append([]config.Source{}, catalog.Sources...)
	return &Response{
		SkillName:        wc.SkillName,
		ProficiencyLevel: wc.ProficiencyLevel,
		Distinctions:     wc.Distinctions,
		Insights:         wc.Insights,
		NextSteps:        wc.NextSteps,
		Sources:          sources,
		RelatedQuestions: questions,
	}, nil
}
