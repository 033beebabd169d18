// Package ingest drives the pipeline over archived folders: messages
// are parsed in parallel, then inserted by a single writer, and each
// folder's summary row is emitted only after all of its messages.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/csperkins/empirical-analysis-ietf/internal/archive"
	"github.com/csperkins/empirical-analysis-ietf/internal/mailparse"
	"github.com/csperkins/empirical-analysis-ietf/internal/model"
	"github.com/csperkins/empirical-analysis-ietf/internal/store"
)

// Ingestor folds archived folders into the store.
type Ingestor struct {
	store   store.Store
	builder *mailparse.Builder
	workers int
	logger  *slog.Logger
}

// New creates an Ingestor writing to st. workers bounds the parsing
// fan-out; values below 1 default to the CPU count.
func New(st store.Store, workers int, logger *slog.Logger) *Ingestor {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		store:   st,
		builder: mailparse.NewBuilder(logger),
		workers: workers,
		logger:  logger,
	}
}

// RunResult summarizes one ingest invocation.
type RunResult struct {
	RunID    string
	Folders  int
	Messages int
}

// Run ingests every folder archive under archiveDir and records the
// invocation in the runs table. A folder archive that cannot be read
// or a failed insert aborts the run: those are collaborator failures,
// not per-message data-quality issues.
func (ing *Ingestor) Run(ctx context.Context, archiveDir string) (*RunResult, error) {
	paths, err := archive.List(archiveDir)
	if err != nil {
		return nil, err
	}

	result := &RunResult{RunID: uuid.New().String()}
	if err := ing.store.BeginRun(ctx, result.RunID, time.Now()); err != nil {
		return nil, err
	}

	for _, path := range paths {
		folder, err := archive.Load(path)
		if err != nil {
			return nil, err
		}

		summary, err := ing.IngestFolder(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("ingesting folder %s: %w", folder.Name, err)
		}

		result.Folders++
		result.Messages += summary.MsgCount
	}

	if err := ing.store.FinishRun(ctx, result.RunID, time.Now(), result.Folders, result.Messages); err != nil {
		return nil, err
	}

	ing.logger.Info("ingest run complete",
		"run", result.RunID, "folders", result.Folders, "messages", result.Messages)
	return result, nil
}

// IngestFolder parses all messages of one folder, inserts them in
// archive order, and emits the folder's summary row. Parsing fans out
// across workers; the store writes stay on this goroutine.
func (ing *Ingestor) IngestFolder(ctx context.Context, folder *archive.Folder) (model.FolderSummary, error) {
	summary := model.NewFolderSummary(folder.Name)

	records := ing.parseAll(folder.RawMessages())
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if _, err := ing.store.InsertRecord(ctx, rec); err != nil {
			return summary, err
		}
		summary.Observe(rec)
	}

	if err := ing.store.InsertFolderSummary(ctx, summary); err != nil {
		return summary, err
	}

	ing.logger.Info("folder ingested",
		"folder", folder.Name, "messages", summary.MsgCount,
		"first", summary.FirstDate, "last", summary.LastDate)
	return summary, nil
}

// parseAll builds records for all raw messages using the worker pool.
// Results land in a slice indexed by source position, so the output
// order always matches the archive order regardless of scheduling.
func (ing *Ingestor) parseAll(raws []model.RawMessage) []model.MessageRecord {
	records := make([]model.MessageRecord, len(raws))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < ing.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = ing.builder.Build(raws[i])
			}
		}()
	}

	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return records
}
