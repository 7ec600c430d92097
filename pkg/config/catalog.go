package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Source is a reference shown alongside an analysis.
type Source struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// Catalog holds the static data attached to every response: reference
// sources and follow-up question templates. Templates see {{ .Skill }}.
type Catalog struct {
	Sources           []Source `yaml:"sources"`
	QuestionTemplates []string `yaml:"question_templates"`
}

// DefaultCatalog returns the built-in sources and question templates.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Sources: []Source{
			{Title: "Skilled Success Methodology", URL: "#"},
			{Title: "Deliberate Practice Research", URL: "#"},
			{Title: "Cognitive Load Theory", URL: "#"},
		},
		QuestionTemplates: []string{
			"How long does it typically take to master {{ .Skill }}?",
			"What are common mistakes beginners make in {{ .Skill }}?",
			"How can I practice {{ .Skill }} effectively?",
			"What resources are best for learning {{ .Skill }}?",
		},
	}
	if err := c.validate(); err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file. Sections left out of the
// file keep their defaults.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	c := DefaultCatalog()
	if len(file.Sources) > 0 {
		c.Sources = file.Sources
	}
	if len(file.QuestionTemplates) > 0 {
		c.QuestionTemplates = file.QuestionTemplates
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate reports the first question template that does not parse.
func (c *Catalog) validate() error {
	_, err := parseQuestions(c.QuestionTemplates)
	return err
}

func parseQuestions(raw []string) ([]*template.Template, error) {
	out := make([]*template.Template, 0, len(raw))
	for i, text := range raw {
		tmpl, err := template.New(fmt.Sprintf("question_%d", i)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("question template %d: %w", i, err)
		}
		out = append(out, tmpl)
	}
	return out, nil
}

// RelatedQuestions renders every question template for skill. Templates are
// parsed on each call, so edits to QuestionTemplates take effect at once.
func (c *Catalog) RelatedQuestions(skill string) ([]string, error) {
	questions, err := parseQuestions(c.QuestionTemplates)
	if err != nil {
		return nil, err
	}
	data := struct{ Skill string }{Skill: skill}
	out := make([]string, 0, len(questions))
	for _, tmpl := range questions {
		var b strings.Builder
		if err := tmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
		}
		out = append(out, b.String())
	}
	return out, nil
}
