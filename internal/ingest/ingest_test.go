package ingest_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csperkins/empirical-analysis-ietf/internal/archive"
	"github.com/csperkins/empirical-analysis-ietf/internal/ingest"
	"github.com/csperkins/empirical-analysis-ietf/internal/model"
	"github.com/csperkins/empirical-analysis-ietf/tests/testutil"
)

func message(headers ...string) []byte {
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\nbody\r\n")
}

func TestIngestFolder(t *testing.T) {
	st := testutil.NewTestStore(t)
	ing := ingest.New(st, 2, nil)

	folder := &archive.Folder{
		Name:        "avt",
		UIDValidity: 3,
		Messages: []archive.Message{
			{UID: 1, Raw: message(
				"From: alice@example.com",
				"Date: Fri, 21 Nov 1997 09:55:06 -0600",
			)},
			{UID: 2, Raw: message(
				"From: bob@example.com",
				"Date: Wed, 02 May 2001 10:00:00 +0000",
			)},
			{UID: 3, Raw: message(
				"From: carol@example.org",
				"Date: not a date at all",
			)},
		},
	}

	summary, err := ing.IngestFolder(context.Background(), folder)
	require.NoError(t, err)

	assert.Equal(t, "avt", summary.MailingList)
	assert.Equal(t, 3, summary.MsgCount)
	assert.Equal(t, "1997-11-21 15:55:06", summary.FirstDate)
	assert.Equal(t, "2001-05-02 10:00:00", summary.LastDate)

	summaries, err := st.FolderSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, summary, summaries[0])
}

// A folder whose messages all lack a usable date keeps the sentinel
// range instead of a min/max over nothing.
func TestIngestFolder_NoDatedMessages(t *testing.T) {
	st := testutil.NewTestStore(t)
	ing := ingest.New(st, 1, nil)

	folder := &archive.Folder{
		Name:        "mhsds",
		UIDValidity: 1,
		Messages: []archive.Message{
			{UID: 1, Raw: message("From: alice@example.com")},
			{UID: 2, Raw: message("From: bob@example.com", "Date: garbage")},
		},
	}

	summary, err := ing.IngestFolder(context.Background(), folder)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.MsgCount)
	assert.Equal(t, model.FirstDateSentinel, summary.FirstDate)
	assert.Equal(t, model.LastDateSentinel, summary.LastDate)
}

func TestIngestFolder_Canceled(t *testing.T) {
	st := testutil.NewTestStore(t)
	ing := ingest.New(st, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	folder := &archive.Folder{
		Name:     "avt",
		Messages: []archive.Message{{UID: 1, Raw: message("From: alice@example.com")}},
	}

	_, err := ing.IngestFolder(ctx, folder)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun(t *testing.T) {
	st := testutil.NewTestStore(t)
	ing := ingest.New(st, 4, nil)

	dir := t.TempDir()
	folders := []*archive.Folder{
		{
			Name:        "avt",
			UIDValidity: 1,
			Messages: []archive.Message{
				{UID: 1, Raw: message("From: alice@example.com", "Date: Fri, 21 Nov 1997 09:55:06 -0600")},
				{UID: 2, Raw: message("From: bob@example.com", "Date: Sat, 22 Nov 1997 09:55:06 -0600")},
			},
		},
		{
			Name:        "mmusic",
			UIDValidity: 1,
			Messages: []archive.Message{
				{UID: 1, Raw: message("From: carol@example.org", "Date: Wed, 02 May 2001 10:00:00 +0000")},
			},
		},
	}
	for _, f := range folders {
		require.NoError(t, archive.Write(dir, f))
	}

	result, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Folders)
	assert.Equal(t, 3, result.Messages)

	summaries, err := st.FolderSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "avt", summaries[0].MailingList)
	assert.Equal(t, 2, summaries[0].MsgCount)
	assert.Equal(t, "mmusic", summaries[1].MailingList)
	assert.Equal(t, 1, summaries[1].MsgCount)
}

func TestRun_EmptyArchiveDir(t *testing.T) {
	st := testutil.NewTestStore(t)
	ing := ingest.New(st, 1, nil)

	result, err := ing.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Folders)
	assert.Equal(t, 0, result.Messages)
}
