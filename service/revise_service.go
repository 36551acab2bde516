package service

import (
	"context"
	"strings"
	"time"

	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

// ReviseService rewrites a single consent section according to a
// free-text instruction, streaming cumulative text the same way the
// generation session streams section updates.
type ReviseService struct {
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewReviseService(generator Generator, timeout time.Duration, logger *zap.Logger) *ReviseService {
	return &ReviseService{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Revise streams the revised text for one field. Every emitted chunk
// carries the cumulative content so far; the last one has Done set, or
// Error when the backend failed. The channel always closes.
func (s *ReviseService) Revise(ctx context.Context, field types.SectionID, content, instruction string) (<-chan types.ReviseChunk, error) {
	task, err := TaskByID(field)
	if err != nil {
		return nil, err
	}

	out := make(chan types.ReviseChunk)
	go func() {
		defer close(out)

		reviseCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			reviseCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		prompt := BuildRevisePrompt(task, content, instruction)
		var acc strings.Builder
		err := s.generator.GenerateStream(reviseCtx, prompt, func(delta string) {
			acc.WriteString(delta)
			select {
			case out <- types.ReviseChunk{Field: field, Content: acc.String()}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			s.logger.Warn("revision failed",
				zap.String("field", string(field)), zap.Error(err))
			select {
			case out <- types.ReviseChunk{Field: field, Content: acc.String(), Error: err.Error()}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- types.ReviseChunk{Field: field, Content: acc.String(), Done: true}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}
