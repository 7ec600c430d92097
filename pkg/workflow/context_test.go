package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":             Beginner,
		"Beginner":     Beginner,
		"intermediate": Intermediate,
		" ADVANCED ":   Advanced,
		"1":            Beginner,
		"2":            Intermediate,
		"3":            Advanced,
		"expert":       Beginner,
		"4":            Beginner,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestNewContextDefaultsLevel(t *testing.T) {
	wc := NewContext("Chess", "")
	assert.Equal(t, Beginner, wc.ProficiencyLevel)
	assert.Nil(t, wc.Distinctions)
	assert.Nil(t, wc.Insights)
	assert.Nil(t, wc.NextSteps)
	assert.False(t, wc.Complete())
}

func TestCloneDoesNotAlias(t *testing.T) {
	wc := NewContext("Chess", Advanced).
		WithDistinctions([]Distinction{{Name: "Openings"}}).
		WithNextSteps([]NextStep{{Action: "study", Develops: []string{"Openings"}}})

	cp := wc.Clone()
	cp.Distinctions[0].Name = "Endgames"
	cp.NextSteps[0].Develops[0] = "Endgames"

	assert.Equal(t, "Openings", wc.Distinctions[0].Name)
	assert.Equal(t, "Openings", wc.NextSteps[0].Develops[0])
	assert.Equal(t, []string{"Openings"}, wc.DistinctionNames())
}
