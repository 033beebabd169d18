package store

import (
	"context"
	"time"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

// YearCount is one aggregation bucket for reporting: how many dated
// messages a mailing list carried in one calendar year.
type YearCount struct {
	MailingList string `db:"mailing_list"`
	Year        int    `db:"year"`
	Count       int    `db:"count"`
}

// Store is the persistence interface the ingest pipeline writes to.
// The write path is not safe for concurrent writers; callers fan
// parsing out and funnel all inserts through a single writer.
type Store interface {
	// InsertRecord inserts one message row plus its To/Cc recipient
	// rows, preserving recipient order, and returns the generated
	// message number.
	InsertRecord(ctx context.Context, rec model.MessageRecord) (int64, error)

	// InsertFolderSummary writes the per-folder summary row. It is
	// called once per folder, after all of that folder's messages.
	InsertFolderSummary(ctx context.Context, summary model.FolderSummary) error

	// BeginRun and FinishRun bracket one ingest invocation.
	BeginRun(ctx context.Context, runID string, startedAt time.Time) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, folders, messages int) error

	// FolderSummaries returns all summary rows, ordered by list name.
	FolderSummaries(ctx context.Context) ([]model.FolderSummary, error)

	// MessageCountsByYear aggregates dated messages per list per year
	// for reporting.
	MessageCountsByYear(ctx context.Context) ([]YearCount, error)

	// Vacuum compacts the database after a bulk load.
	Vacuum(ctx context.Context) error

	Close() error
}
