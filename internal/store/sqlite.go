package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
// Foreign key enforcement stays off: list summary rows are written
// after the message rows that reference them.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better bulk insert performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting synchronous mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// InsertRecord inserts one message and its recipient rows in a single
// transaction and returns the generated message number. Recipient rows
// are written in header order.
func (s *SQLiteStore) InsertRecord(ctx context.Context, rec model.MessageRecord) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var messageNum int64
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO messages (
			mailing_list, uidvalidity, uid,
			from_name, from_addr, subject, date,
			message_id, in_reply_to, message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING message_num`,
		rec.MailingList, rec.UIDValidity, rec.UID,
		rec.From.Name, rec.From.Addr, rec.Subject, rec.Date,
		rec.MessageID, rec.InReplyTo, rec.Raw,
	).Scan(&messageNum)
	if err != nil {
		return 0, fmt.Errorf("inserting message %s/%d: %w", rec.MailingList, rec.UID, err)
	}

	toStmt, err := tx.PreparexContext(ctx,
		"INSERT INTO messages_to (message_num, to_name, to_addr) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing recipient insert: %w", err)
	}
	defer toStmt.Close()

	for _, id := range rec.To {
		if _, err := toStmt.ExecContext(ctx, messageNum, id.Name, id.Addr); err != nil {
			return 0, fmt.Errorf("inserting To recipient for message %d: %w", messageNum, err)
		}
	}

	ccStmt, err := tx.PreparexContext(ctx,
		"INSERT INTO messages_cc (message_num, cc_name, cc_addr) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing cc insert: %w", err)
	}
	defer ccStmt.Close()

	for _, id := range rec.Cc {
		if _, err := ccStmt.ExecContext(ctx, messageNum, id.Name, id.Addr); err != nil {
			return 0, fmt.Errorf("inserting Cc recipient for message %d: %w", messageNum, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing message %s/%d: %w", rec.MailingList, rec.UID, err)
	}
	return messageNum, nil
}

// InsertFolderSummary writes (or replaces) the summary row for one
// mailing list.
func (s *SQLiteStore) InsertFolderSummary(ctx context.Context, summary model.FolderSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO lists (name, msg_count, first_date, last_date)
		VALUES (?, ?, ?, ?)`,
		summary.MailingList, summary.MsgCount, summary.FirstDate, summary.LastDate,
	)
	if err != nil {
		return fmt.Errorf("inserting summary for %s: %w", summary.MailingList, err)
	}
	return nil
}

// BeginRun records the start of an ingest run.
func (s *SQLiteStore) BeginRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, started_at) VALUES (?, ?)",
		runID, startedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	return nil
}

// FinishRun completes the run row with its final counters.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, finishedAt time.Time, folders, messages int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, folder_count = ?, message_count = ?
		WHERE id = ?`,
		finishedAt.UTC(), folders, messages, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	return nil
}

// FolderSummaries returns all per-list summary rows ordered by name.
func (s *SQLiteStore) FolderSummaries(ctx context.Context) ([]model.FolderSummary, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT name, msg_count, first_date, last_date FROM lists ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.FolderSummary
	for rows.Next() {
		var s model.FolderSummary
		if err := rows.Scan(&s.MailingList, &s.MsgCount, &s.FirstDate, &s.LastDate); err != nil {
			return nil, fmt.Errorf("scanning list summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// MessageCountsByYear buckets dated messages per list per calendar
// year. The date column is a fixed-format UTC string, so the year is
// its first four characters.
func (s *SQLiteStore) MessageCountsByYear(ctx context.Context) ([]YearCount, error) {
	var counts []YearCount
	err := s.db.SelectContext(ctx, &counts, `
		SELECT mailing_list,
		       CAST(substr(date, 1, 4) AS INTEGER) AS year,
		       COUNT(*) AS count
		FROM messages
		WHERE date IS NOT NULL
		GROUP BY mailing_list, year
		ORDER BY mailing_list, year`)
	if err != nil {
		return nil, fmt.Errorf("aggregating message counts: %w", err)
	}
	return counts, nil
}

// Vacuum compacts the database file after a bulk load.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuuming database: %w", err)
	}
	return nil
}
