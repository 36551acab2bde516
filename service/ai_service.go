package service

import (
	"context"

	"github.com/tieubaoca/consent-draft-be/types"
)

// Generator is the streaming generation backend. GenerateStream calls
// the handler once per text increment and returns only after the
// backend has nothing more to send, so a nil return is the signal that
// the task's generation is complete.
type Generator interface {
	GenerateStream(ctx context.Context, prompt string, handler types.StreamHandler) error
}
