package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/consent-draft-be/types"
)

func TestRegistryCoversEverySection(t *testing.T) {
	tasks := Registry()
	require.Len(t, tasks, len(types.SectionIDs))
	for i, task := range tasks {
		assert.Equal(t, types.SectionIDs[i], task.ID, "registry must follow document order")
		assert.NotEmpty(t, task.Title)
		assert.NotEmpty(t, task.Prompt)
		assert.Greater(t, task.MaxWords, task.MinWords)
		assert.Greater(t, task.MinWords, 0)
	}
}

func TestRegistryPromptsDemandTheHeading(t *testing.T) {
	for _, task := range Registry() {
		assert.Contains(t, task.Prompt, fmt.Sprintf("titled %q", task.Title),
			"task %s must pin its markdown heading", task.ID)
	}
}

func TestTaskByID(t *testing.T) {
	task, err := TaskByID(types.SectionRisks)
	require.NoError(t, err)
	assert.Equal(t, "Risks", task.Title)

	_, err = TaskByID(types.SectionID("bogus"))
	assert.Error(t, err)
}

func TestBuildSectionPrompt(t *testing.T) {
	task, err := TaskByID(types.SectionSummary)
	require.NoError(t, err)
	chunks := []types.ScoredChunk{
		{Chunk: types.Chunk{Content: "first retrieved passage"}},
		{Chunk: types.Chunk{Content: "second retrieved passage"}},
	}

	prompt := BuildSectionPrompt(task, chunks)

	assert.Contains(t, prompt, "first retrieved passage")
	assert.Contains(t, prompt, "second retrieved passage")
	assert.Contains(t, prompt, "---")
	assert.Contains(t, prompt, task.Prompt)
}

func TestBuildRevisePrompt(t *testing.T) {
	task, err := TaskByID(types.SectionBenefits)
	require.NoError(t, err)

	prompt := BuildRevisePrompt(task, "## Benefits\n\nOld text.", "make it shorter")

	assert.Contains(t, prompt, "## Benefits\n\nOld text.")
	assert.Contains(t, prompt, "make it shorter")
	assert.Contains(t, prompt, `"Benefits"`)
}
