package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTransitions(t *testing.T) {
	tests := []struct {
		from JobStatus
		to   JobStatus
		want bool
	}{
		{JobQueued, JobProcessing, true},
		{JobQueued, JobProcessed, true},
		{JobQueued, JobFailed, true},
		{JobProcessing, JobProcessed, true},
		{JobProcessing, JobFailed, true},
		{JobProcessing, JobQueued, false},
		{JobProcessed, JobProcessing, false},
		{JobProcessed, JobFailed, false},
		{JobFailed, JobQueued, false},
		{JobFailed, JobProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobQueued.Terminal())
	assert.False(t, JobProcessing.Terminal())
	assert.True(t, JobProcessed.Terminal())
	assert.True(t, JobFailed.Terminal())
}
