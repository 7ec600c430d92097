package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/zen-systems/skillmaster/pkg/workflow"
)

// Render writes a plain-text summary of a completed analysis.
func Render(w io.Writer, wc *workflow.Context) error {
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nSKILL ANALYSIS RESULTS\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Skill: %s\nCurrent Level: %s\n", wc.SkillName, wc.ProficiencyLevel)

	fmt.Fprintf(&b, "\n%s\nKEY DISTINCTIONS\n%s\n", thin, thin)
	for i, d := range wc.Distinctions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, d.Name)
		fmt.Fprintf(&b, "   Description: %s\n", d.Description)
		fmt.Fprintf(&b, "   Importance: %s\n", d.Importance)
		fmt.Fprintf(&b, "   Your Level: %s\n", d.CurrentLevel)
	}

	fmt.Fprintf(&b, "\n%s\nACTIONABLE INSIGHTS\n%s\n", thin, thin)
	for i, insight := range wc.Insights {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, insight)
	}

	fmt.Fprintf(&b, "\n%s\nNEXT STEPS\n%s\n", thin, thin)
	for i, step := range wc.NextSteps {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, step.Action)
		fmt.Fprintf(&b, "   Time: %s\n", step.TimeCommitment)
		fmt.Fprintf(&b, "   Success: %s\n", step.SuccessCriteria)
		fmt.Fprintf(&b, "   Develops: %s\n", strings.Join(step.Develops, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}
