package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/consent-draft-be/database"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

func newTestIngest(t *testing.T, index *fakeIndex, extractor *fakeExtractor) (*IngestService, database.JobStore) {
	t.Helper()
	jobs, err := database.NewFileJobStore(filepath.Join(t.TempDir(), "jobs.json"))
	require.NoError(t, err)
	splitter := NewSplitter(types.ChunkerConfig{MaxChunkTokens: 20, OverlapTokens: 3}, wordTokenLen)
	svc := NewIngestService(index, jobs, extractor, splitter, &fakeEmbedder{}, zap.NewNop())
	return svc, jobs
}

func TestIngestFileIsIdempotent(t *testing.T) {
	index := &fakeIndex{}
	extractor := &fakeExtractor{texts: map[string]string{
		"/tmp/protocol.pdf": strings.Join(numberedWords(160), " "),
	}}
	svc, _ := newTestIngest(t, index, extractor)

	first, err := svc.IngestFile(context.Background(), "/tmp/protocol.pdf", "protocol.pdf")
	require.NoError(t, err)
	assert.Greater(t, first.Inserted, 0)
	assert.Equal(t, 0, first.Skipped)

	second, err := svc.IngestFile(context.Background(), "/tmp/protocol.pdf", "protocol.pdf")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, first.Inserted, second.Skipped)

	assert.Len(t, index.chunks, first.Inserted)
}

func TestIngestFileLabelsChunksWithTitle(t *testing.T) {
	index := &fakeIndex{}
	extractor := &fakeExtractor{texts: map[string]string{
		"/tmp/trial.pdf": "a short protocol about an experimental therapy",
	}}
	svc, _ := newTestIngest(t, index, extractor)

	_, err := svc.IngestFile(context.Background(), "/tmp/trial.pdf", "trial.pdf")
	require.NoError(t, err)

	require.NotEmpty(t, index.chunks)
	for i, chunk := range index.chunks {
		assert.Equal(t, "trial.pdf", chunk.DocumentTitle)
		assert.Equal(t, i, chunk.SequenceIndex)
		assert.Equal(t, HashContent(chunk.Content), chunk.ContentHash)
	}
}

func TestIngestBatchContinuesAfterFailure(t *testing.T) {
	index := &fakeIndex{}
	extractor := &fakeExtractor{texts: map[string]string{
		"/tmp/good.pdf": "readable protocol text about the study procedures",
	}}
	svc, jobs := newTestIngest(t, index, extractor)

	files := []SavedFile{
		{Filename: "bad.pdf", Path: "/tmp/bad.pdf"},
		{Filename: "good.pdf", Path: "/tmp/good.pdf"},
	}
	require.NoError(t, svc.QueueJobs([]string{"bad.pdf", "good.pdf"}))
	svc.IngestBatch(context.Background(), files)

	recorded, err := jobs.Load()
	require.NoError(t, err)
	assert.Equal(t, types.JobFailed, recorded["bad.pdf"].Status)
	assert.NotEmpty(t, recorded["bad.pdf"].Reason)
	assert.Equal(t, types.JobProcessed, recorded["good.pdf"].Status)
	assert.Empty(t, recorded["good.pdf"].Reason)
	assert.NotEmpty(t, index.chunks, "the good file must still be ingested")
}

func TestQueueJobsKeepsInFlightJob(t *testing.T) {
	svc, jobs := newTestIngest(t, &fakeIndex{}, &fakeExtractor{})

	require.NoError(t, jobs.Update(func(m map[string]types.UploadJob) error {
		m["doc.pdf"] = types.UploadJob{Filename: "doc.pdf", Status: types.JobProcessing}
		return nil
	}))
	require.NoError(t, svc.QueueJobs([]string{"doc.pdf", "new.pdf"}))

	recorded, err := jobs.Load()
	require.NoError(t, err)
	assert.Equal(t, types.JobProcessing, recorded["doc.pdf"].Status, "re-upload while in flight keeps the current job")
	assert.Equal(t, types.JobQueued, recorded["new.pdf"].Status)
}

func TestQueueJobsRequeuesTerminalJob(t *testing.T) {
	svc, jobs := newTestIngest(t, &fakeIndex{}, &fakeExtractor{})

	require.NoError(t, jobs.Update(func(m map[string]types.UploadJob) error {
		m["doc.pdf"] = types.UploadJob{Filename: "doc.pdf", Status: types.JobFailed, Reason: "boom"}
		return nil
	}))
	require.NoError(t, svc.QueueJobs([]string{"doc.pdf"}))

	recorded, err := jobs.Load()
	require.NoError(t, err)
	assert.Equal(t, types.JobQueued, recorded["doc.pdf"].Status)
	assert.Empty(t, recorded["doc.pdf"].Reason)
}

func TestIngestFileEmptyDocument(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/tmp/empty.pdf": "   "}}
	svc, _ := newTestIngest(t, &fakeIndex{}, extractor)

	_, err := svc.IngestFile(context.Background(), "/tmp/empty.pdf", "empty.pdf")
	assert.ErrorContains(t, err, "no chunks")
}
