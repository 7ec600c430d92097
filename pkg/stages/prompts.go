package stages

import (
	"fmt"
	"strings"
	"text/template"
)

var analysisPrompt = template.Must(template.New("analysis").Parse(`You are an expert skill coach using the "Skilled Success" methodology.

Analyze the skill: "{{ .Skill }}"
Current proficiency level: {{ .Level }}

Break down this skill into 5-7 key distinctions (fundamental components or sub-skills).
Each distinction should be:
1. Specific and actionable
2. Measurable or observable
3. Progressive (can be improved incrementally)

For each distinction, provide:
1. Name (concise, 2-4 words)
2. Description (one sentence explaining what it is)
3. Importance (why it matters for this skill)
4. Current level assessment for a {{ .Level }}

{{ .Format }}`))

var insightsPrompt = template.Must(template.New("insights").Parse(`Based on this skill analysis:

Skill: {{ .Skill }}
Proficiency: {{ .Level }}

Key Distinctions:
{{ .Summary }}

Generate 3-5 actionable insights for someone at the {{ .Level }} level.
Each insight should:
1. Be specific and practical
2. Connect to one or more distinctions
3. Provide a clear learning principle or strategy

{{ .Format }}`))

var nextStepsPrompt = template.Must(template.New("next_steps").Parse(`Based on this skill development plan:

Skill: {{ .Skill }}
Proficiency: {{ .Level }}
Number of distinctions identified: {{ .Count }}

Available distinctions to develop:
{{ .Names }}

Create 3-5 specific next steps for practice and improvement.
Each step should include:
1. A clear action to take
2. Expected time commitment
3. Success criteria (how to know you've completed it)
4. Which distinction(s) it develops, using the names listed above

{{ .Format }}`))

const (
	analysisItem = `{
    "name": "Distinction name",
    "description": "Brief description",
    "importance": "Why this matters",
    "current_level": "Beginner|Intermediate|Advanced"
  }`
	insightItem  = `"insight"`
	nextStepItem = `{
    "action": "Specific action to take",
    "time_commitment": "e.g., 15 minutes daily",
    "success_criteria": "How to measure completion",
    "develops": ["Distinction 1", "Distinction 2"]
  }`
)

// promptData is the template input shared by all stage prompts.
type promptData struct {
	Skill   string
	Level   string
	Summary string
	Names   string
	Count   int
	Format  string
}

// formatInstruction describes the JSON layout the stage will parse.
func formatInstruction(shape Shape, key, item string) string {
	if shape == ShapeArray {
		return fmt.Sprintf("Return your response as a JSON array with this structure:\n[\n  %s\n]\n\nOnly return the JSON array, no additional text.", item)
	}
	return fmt.Sprintf("Return ONLY valid JSON in this exact format:\n{\n  %q: [\n  %s\n  ]\n}", key, item)
}

func renderPrompt(tmpl *template.Template, data promptData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

func bulletList(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(line)
	}
	return b.String()
}
