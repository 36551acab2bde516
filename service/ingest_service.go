package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tieubaoca/consent-draft-be/database"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

// SavedFile is an uploaded file already written to disk and waiting
// for ingestion.
type SavedFile struct {
	Filename string // original name, used as the document title label
	Path     string // location on disk
}

// TextExtractor produces the plain text of one stored document file.
type TextExtractor interface {
	ExtractText(filePath string) (string, error)
}

// IngestService turns uploaded protocol files into deduplicated,
// content-addressed chunks in the retrieval index, and records each
// file's progress in the job store.
type IngestService struct {
	index    database.VectorIndex
	jobs     database.JobStore
	pdf      TextExtractor
	splitter *Splitter
	embedder Embedder
	logger   *zap.Logger
}

func NewIngestService(
	index database.VectorIndex,
	jobs database.JobStore,
	pdf TextExtractor,
	splitter *Splitter,
	embedder Embedder,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		index:    index,
		jobs:     jobs,
		pdf:      pdf,
		splitter: splitter,
		embedder: embedder,
		logger:   logger,
	}
}

// QueueJobs records every filename as queued before the upload request
// returns, so a status query issued right after the ack already sees
// the batch.
func (s *IngestService) QueueJobs(filenames []string) error {
	return s.jobs.Update(func(jobs map[string]types.UploadJob) error {
		for _, name := range filenames {
			if existing, ok := jobs[name]; ok && !existing.Status.Terminal() {
				continue // re-upload while still in flight keeps the current job
			}
			jobs[name] = types.UploadJob{
				Filename:  name,
				Status:    types.JobQueued,
				UpdatedAt: time.Now(),
			}
		}
		return nil
	})
}

// IngestBatch processes a batch of saved files sequentially in the
// caller's goroutine; the upload handler runs it in the background.
// One corrupt file is marked failed and must not abort the rest.
func (s *IngestService) IngestBatch(ctx context.Context, files []SavedFile) {
	for _, file := range files {
		s.setStatus(file.Filename, types.JobProcessing, "")
		result, err := s.IngestFile(ctx, file.Path, file.Filename)
		if err != nil {
			s.logger.Error("ingestion failed",
				zap.String("file", file.Filename), zap.Error(err))
			s.setStatus(file.Filename, types.JobFailed, err.Error())
			continue
		}
		s.logger.Info("ingested file",
			zap.String("file", file.Filename),
			zap.Int("inserted", result.Inserted),
			zap.Int("skipped", result.Skipped))
		s.setStatus(file.Filename, types.JobProcessed, "")
	}
}

// IngestFile extracts, chunks, fingerprints and stores one document.
// Chunks whose fingerprint already exists in the index are skipped, so
// ingesting the same file twice inserts nothing the second time.
func (s *IngestService) IngestFile(ctx context.Context, path, title string) (types.IngestResult, error) {
	var result types.IngestResult

	text, err := s.pdf.ExtractText(path)
	if err != nil {
		return result, err
	}

	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return result, fmt.Errorf("document %s produced no chunks", title)
	}

	chunks := make([]types.Chunk, 0, len(pieces))
	hashes := make([]string, 0, len(pieces))
	for i, piece := range pieces {
		hash := HashContent(piece)
		chunks = append(chunks, types.NewChunk(piece, title, i, hash))
		hashes = append(hashes, hash)
	}

	existing, err := s.index.ExistingHashes(ctx, hashes)
	if err != nil {
		return result, fmt.Errorf("dedup lookup failed: %w", err)
	}

	var fresh []types.Chunk
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		if existing[chunk.ContentHash] || seen[chunk.ContentHash] {
			result.Skipped++
			continue
		}
		seen[chunk.ContentHash] = true
		fresh = append(fresh, chunk)
	}
	if len(fresh) == 0 {
		return result, nil
	}

	texts := make([]string, len(fresh))
	for i, chunk := range fresh {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return result, fmt.Errorf("embedding failed: %w", err)
	}

	if err := s.index.InsertChunks(ctx, fresh, vectors); err != nil {
		return result, fmt.Errorf("insert failed: %w", err)
	}
	result.Inserted = len(fresh)
	return result, nil
}

// setStatus advances a job's status, never backwards. An unknown
// filename is created on the spot so CLI ingestion shows up too.
func (s *IngestService) setStatus(filename string, status types.JobStatus, reason string) {
	err := s.jobs.Update(func(jobs map[string]types.UploadJob) error {
		job, ok := jobs[filename]
		if ok && !job.Status.CanTransition(status) {
			return nil
		}
		jobs[filename] = types.UploadJob{
			Filename:  filename,
			Status:    status,
			Reason:    reason,
			UpdatedAt: time.Now(),
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to record job status",
			zap.String("file", filename), zap.Error(err))
	}
}
