package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

// DraftService runs generation sessions: every registered section task
// fans out against one scoped retriever, their streamed increments fan
// in to a single ConsentDraft, and the session emits a complete
// snapshot of that draft after every update.
type DraftService struct {
	registry       []types.SectionTask
	retriever      *RetrieverService
	generator      Generator
	sectionTimeout time.Duration
	logger         *zap.Logger
}

func NewDraftService(
	retriever *RetrieverService,
	generator Generator,
	sectionTimeout time.Duration,
	logger *zap.Logger,
) *DraftService {
	return &DraftService{
		registry:       Registry(),
		retriever:      retriever,
		generator:      generator,
		sectionTimeout: sectionTimeout,
		logger:         logger,
	}
}

// sectionUpdate is one fan-in message: the cumulative text (or the
// failure) of a single task. Text is always the full text so far,
// never a diff.
type sectionUpdate struct {
	id   types.SectionID
	text string
	err  error
}

// Generate starts a session scoped to the given document titles and
// returns its snapshot stream. The channel closes after the final
// snapshot (Done=true), which is emitted once every task's backend
// call has finished - not merely gone quiet.
//
// Cancelling ctx stops snapshot delivery; the merger keeps draining
// task updates until every goroutine exits, so a dropped consumer
// never leaks the session.
func (s *DraftService) Generate(ctx context.Context, documentTitles []string) <-chan types.DraftSnapshot {
	sessionID := uuid.NewString()
	retrieve := s.retriever.Scoped(documentTitles)
	out := make(chan types.DraftSnapshot)
	updates := make(chan sectionUpdate)

	s.logger.Info("starting generation session",
		zap.String("session", sessionID),
		zap.Strings("documents", documentTitles),
		zap.Int("tasks", len(s.registry)))

	var wg sync.WaitGroup
	for _, task := range s.registry {
		wg.Add(1)
		go func(task types.SectionTask) {
			defer wg.Done()
			s.runSection(ctx, task, retrieve, updates)
		}(task)
	}
	go func() {
		wg.Wait()
		close(updates)
	}()

	go s.merge(ctx, sessionID, updates, out)

	return out
}

// runSection drives one task: retrieve context, stream the generation,
// and publish a cumulative update after every increment. A retrieval
// or backend failure is reported as the task's error and never touches
// the sibling tasks.
func (s *DraftService) runSection(ctx context.Context, task types.SectionTask, retrieve RetrieveFunc, updates chan<- sectionUpdate) {
	taskCtx := ctx
	if s.sectionTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, s.sectionTimeout)
		defer cancel()
	}

	chunks, err := retrieve(taskCtx, task.Prompt)
	if err != nil {
		updates <- sectionUpdate{id: task.ID, err: err}
		return
	}

	prompt := BuildSectionPrompt(task, chunks)
	var acc strings.Builder
	err = s.generator.GenerateStream(taskCtx, prompt, func(delta string) {
		acc.WriteString(delta)
		updates <- sectionUpdate{id: task.ID, text: acc.String()}
	})
	if err != nil {
		updates <- sectionUpdate{id: task.ID, err: err}
		return
	}
	// Final cumulative text; for an empty generation this still marks
	// the task as having produced its best answer.
	updates <- sectionUpdate{id: task.ID, text: acc.String()}
}

// merge owns the session's ConsentDraft exclusively. Last write wins
// per section key; after every update the entire draft is copied out
// as one self-consistent snapshot. When the consumer goes away the
// merger stops forwarding but keeps draining so the task goroutines
// can always deliver and exit.
func (s *DraftService) merge(ctx context.Context, sessionID string, updates <-chan sectionUpdate, out chan<- types.DraftSnapshot) {
	defer close(out)

	var draft types.ConsentDraft
	errs := make(map[types.SectionID]string)
	forwarding := true

	for u := range updates {
		if u.err != nil {
			s.logger.Warn("section task failed",
				zap.String("session", sessionID),
				zap.String("section", string(u.id)),
				zap.Error(u.err))
			errs[u.id] = u.err.Error()
		} else {
			if err := draft.Set(u.id, u.text); err != nil {
				s.logger.Error("dropping update for unknown section",
					zap.String("session", sessionID),
					zap.String("section", string(u.id)))
				continue
			}
			// A task that recovers after an earlier error keeps its
			// latest text; the stale error marker goes away.
			delete(errs, u.id)
		}

		if !forwarding {
			continue
		}
		select {
		case out <- types.DraftSnapshot{Sections: draft, Errors: cloneErrors(errs)}:
		case <-ctx.Done():
			s.logger.Info("consumer gone, draining session",
				zap.String("session", sessionID))
			forwarding = false
		}
	}

	if !forwarding {
		return
	}
	select {
	case out <- types.DraftSnapshot{Sections: draft, Errors: cloneErrors(errs), Done: true}:
		s.logger.Info("generation session complete",
			zap.String("session", sessionID),
			zap.Int("failed_sections", len(errs)))
	case <-ctx.Done():
	}
}

func cloneErrors(errs map[types.SectionID]string) map[types.SectionID]string {
	if len(errs) == 0 {
		return nil
	}
	clone := make(map[types.SectionID]string, len(errs))
	for k, v := range errs {
		clone[k] = v
	}
	return clone
}
