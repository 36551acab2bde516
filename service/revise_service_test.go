package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

func collectRevisions(t *testing.T, chunks <-chan types.ReviseChunk) []types.ReviseChunk {
	t.Helper()
	var all []types.ReviseChunk
	for chunk := range chunks {
		all = append(all, chunk)
	}
	require.NotEmpty(t, all)
	return all
}

func TestReviseStreamsCumulativeContent(t *testing.T) {
	gen := &scriptedGenerator{words: []string{"## Risks", "\n\nRevised", " text."}}
	svc := NewReviseService(gen, time.Minute, zap.NewNop())

	chunks, err := svc.Revise(context.Background(), types.SectionRisks, "## Risks\n\nOld.", "shorten it")
	require.NoError(t, err)

	all := collectRevisions(t, chunks)
	require.Len(t, all, 4)

	prev := 0
	for _, chunk := range all {
		assert.Equal(t, types.SectionRisks, chunk.Field)
		assert.GreaterOrEqual(t, len(chunk.Content), prev)
		prev = len(chunk.Content)
	}

	last := all[len(all)-1]
	assert.True(t, last.Done)
	assert.Empty(t, last.Error)
	assert.Equal(t, "## Risks\n\nRevised text.", last.Content)
}

func TestReviseRejectsUnknownField(t *testing.T) {
	svc := NewReviseService(&scriptedGenerator{}, time.Minute, zap.NewNop())

	_, err := svc.Revise(context.Background(), types.SectionID("intro"), "text", "fix")
	assert.Error(t, err)
}

func TestReviseReportsBackendFailure(t *testing.T) {
	gen := &scriptedGenerator{failOn: "Instruction", failErr: errors.New("backend down")}
	svc := NewReviseService(gen, time.Minute, zap.NewNop())

	chunks, err := svc.Revise(context.Background(), types.SectionSummary, "old", "rewrite")
	require.NoError(t, err)

	all := collectRevisions(t, chunks)
	last := all[len(all)-1]
	assert.False(t, last.Done)
	assert.Equal(t, "backend down", last.Error)
}
