package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogQuestions(t *testing.T) {
	questions, err := DefaultCatalog().RelatedQuestions("Python Programming")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"How long does it typically take to master Python Programming?",
		"What are common mistakes beginners make in Python Programming?",
		"How can I practice Python Programming effectively?",
		"What resources are best for learning Python Programming?",
	}, questions)
}

func TestCatalogLiteralCompilesOnDemand(t *testing.T) {
	c := &Catalog{QuestionTemplates: []string{"Why {{ .Skill }}?"}}
	questions, err := c.RelatedQuestions("Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Why Go?"}, questions)
}

func TestCatalogUnknownFieldFails(t *testing.T) {
	c := &Catalog{QuestionTemplates: []string{"{{ .Topic }}"}}
	_, err := c.RelatedQuestions("Go")
	require.Error(t, err)
}

func TestCatalogInPlaceEditTakesEffect(t *testing.T) {
	c := DefaultCatalog()
	_, err := c.RelatedQuestions("Go")
	require.NoError(t, err)

	c.QuestionTemplates[0] = "Who teaches {{ .Skill }}?"
	questions, err := c.RelatedQuestions("Go")
	require.NoError(t, err)
	require.Len(t, questions, 4)
	assert.Equal(t, "Who teaches Go?", questions[0])
}
