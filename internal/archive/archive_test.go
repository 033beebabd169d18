package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	folder := &Folder{
		Fetched:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Name:        "avt",
		UIDValidity: 3,
		Messages: []Message{
			{UID: 1, Raw: []byte("From: alice@example.com\r\n\r\nbody\r\n")},
			{UID: 2, Raw: []byte{0x00, 0xff, 0xfe}}, // arbitrary bytes survive
		},
	}

	require.NoError(t, Write(dir, folder))

	loaded, err := Load(Path(dir, "avt"))
	require.NoError(t, err)
	assert.Equal(t, folder, loaded)

	// The temporary file never outlives a successful write.
	_, err = os.Stat(Path(dir, "avt") + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestRawMessages(t *testing.T) {
	folder := &Folder{
		Name:        "mmusic",
		UIDValidity: 9,
		Messages: []Message{
			{UID: 4, Raw: []byte("a")},
			{UID: 5, Raw: []byte("b")},
		},
	}

	raws := folder.RawMessages()
	assert.Equal(t, []model.RawMessage{
		{MailingList: "mmusic", UIDValidity: 9, UID: 4, Data: []byte("a")},
		{MailingList: "mmusic", UIDValidity: 9, UID: 5, Data: []byte("b")},
	}, raws)
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"mmusic", "avt"} {
		require.NoError(t, Write(dir, &Folder{Name: name}))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{Path(dir, "avt"), Path(dir, "mmusic")}, paths)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(Path(t.TempDir(), "nope"))
	assert.Error(t, err)
}
