// Package archive handles the retrieval side of the pipeline: fetching
// raw messages from the IMAP archive server and persisting one JSON
// archive file per mailing-list folder. The normalization core only
// ever consumes these files, so it stays offline-testable.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

// Message is one raw RFC-822 blob and its UID within the folder epoch.
// The raw bytes serialize as base64 in the archive file.
type Message struct {
	UID uint32 `json:"uid"`
	Raw []byte `json:"msg"`
}

// Folder is the on-disk archive of one mailing-list folder. UIDValidity
// pins the epoch: a change invalidates every UID in Messages.
type Folder struct {
	Fetched     time.Time `json:"fetched"`
	Name        string    `json:"folder"`
	UIDValidity uint32    `json:"uidvalidity"`
	Messages    []Message `json:"msgs"`
}

// RawMessages converts the archive contents to the pipeline's input
// records, in archive order.
func (f *Folder) RawMessages() []model.RawMessage {
	raws := make([]model.RawMessage, 0, len(f.Messages))
	for _, m := range f.Messages {
		raws = append(raws, model.RawMessage{
			MailingList: f.Name,
			UIDValidity: f.UIDValidity,
			UID:         m.UID,
			Data:        m.Raw,
		})
	}
	return raws
}

// Path returns the archive file path for one folder.
func Path(dir, folder string) string {
	return filepath.Join(dir, folder+".json")
}

// Write persists the folder archive. The document is written to a
// temporary file and renamed into place so a crash never leaves a
// truncated archive behind.
func Write(dir string, f *Folder) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding archive for %s: %w", f.Name, err)
	}

	path := Path(dir, f.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing archive %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming archive %s: %w", path, err)
	}
	return nil
}

// Load reads one folder archive from disk.
func Load(path string) (*Folder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}

	var f Folder
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding archive %s: %w", path, err)
	}
	return &f, nil
}

// List returns the archive file paths under dir, sorted by name.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing archives in %s: %w", dir, err)
	}
	return matches, nil
}
