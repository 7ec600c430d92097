package workflow

import "strings"

// Level is a learner's self-reported proficiency.
type Level string

const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
)

// Levels lists the accepted proficiency levels in menu order.
var Levels = []Level{Beginner, Intermediate, Advanced}

// ParseLevel maps user input onto a Level. It accepts level names in any case
// and the menu shortcuts "1", "2" and "3". Anything else yields Beginner.
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	for i, lvl := range Levels {
		if strings.EqualFold(s, string(lvl)) || s == string(rune('1'+i)) {
			return lvl
		}
	}
	return Beginner
}

// Distinction is one sub-skill identified by the analysis stage.
type Distinction struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Importance   string `json:"importance"`
	CurrentLevel string `json:"current_level"`
}

// NextStep is a concrete practice action. Develops holds distinction names.
type NextStep struct {
	Action          string   `json:"action"`
	TimeCommitment  string   `json:"time_commitment"`
	SuccessCriteria string   `json:"success_criteria"`
	Develops        []string `json:"develops"`
}

// Context carries the state of one analysis request through a Pipeline.
// SkillName and ProficiencyLevel are set on creation; the remaining fields
// stay nil until the stage that owns them has completed.
type Context struct {
	SkillName        string        `json:"skill_name"`
	ProficiencyLevel Level         `json:"proficiency_level"`
	Distinctions     []Distinction `json:"distinctions"`
	Insights         []string      `json:"insights"`
	NextSteps        []NextStep    `json:"next_steps"`
}

// NewContext creates a Context holding only the request inputs.
func NewContext(skillName string, level Level) *Context {
	if level == "" {
		level = Beginner
	}
	return &Context{SkillName: skillName, ProficiencyLevel: level}
}

// Clone returns a copy that shares no slices with c.
func (c *Context) Clone() *Context {
	out := *c
	if c.Distinctions != nil {
		out.Distinctions = append([]Distinction(nil), c.Distinctions...)
	}
	if c.Insights != nil {
		out.Insights = append([]string(nil), c.Insights...)
	}
	if c.NextSteps != nil {
		out.NextSteps = make([]NextStep, len(c.NextSteps))
		for i, step := range c.NextSteps {
			step.Develops = append([]string(nil), step.Develops...)
			out.NextSteps[i] = step
		}
	}
	return &out
}

// WithDistinctions returns a copy of c with Distinctions set.
func (c *Context) WithDistinctions(d []Distinction) *Context {
	out := c.Clone()
	out.Distinctions = d
	return out
}

// WithInsights returns a copy of c with Insights set.
func (c *Context) WithInsights(insights []string) *Context {
	out := c.Clone()
	out.Insights = insights
	return out
}

// WithNextSteps returns a copy of c with NextSteps set.
func (c *Context) WithNextSteps(steps []NextStep) *Context {
	out := c.Clone()
	out.NextSteps = steps
	return out
}

// DistinctionNames returns the names of the identified distinctions in order.
func (c *Context) DistinctionNames() []string {
	names := make([]string, 0, len(c.Distinctions))
	for _, d := range c.Distinctions {
		names = append(names, d.Name)
	}
	return names
}

// Complete reports whether every output field has been populated.
func (c *Context) Complete() bool {
	return len(c.Distinctions) > 0 && c.Insights != nil && c.NextSteps != nil
}
