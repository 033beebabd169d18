package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// fetchChunkSize bounds how many full messages one FETCH pulls down;
// the archive server drops connections on oversized responses.
const fetchChunkSize = 16

// Client wraps go-imap v2 for fetching mailing-list folders from the
// archive server. The public IETF archive accepts the anonymous
// credentials; private servers take real ones.
type Client struct {
	host     string
	port     int
	username string
	password string
	logger   *slog.Logger
}

// NewClient creates a new archive fetch client configuration.
func NewClient(host string, port int, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		logger:   logger,
	}
}

// connect establishes a TLS connection and authenticates. The caller
// is responsible for Logout on the returned client.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authenticating as %s: %w", c.username, err)
	}

	return client, nil
}

// sharedPrefix returns the prefix of the server's shared namespace,
// under which the archive publishes its list folders.
func sharedPrefix(client *imapclient.Client) (string, error) {
	ns, err := client.Namespace().Wait()
	if err != nil {
		return "", fmt.Errorf("querying namespace: %w", err)
	}
	if len(ns.Shared) == 0 {
		return "", nil
	}
	return ns.Shared[0].Prefix, nil
}

// ListFolders enumerates the mailing-list folders under the shared
// namespace, with the namespace prefix stripped.
func (c *Client) ListFolders(ctx context.Context) ([]string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	prefix, err := sharedPrefix(client)
	if err != nil {
		return nil, err
	}

	mailboxes, err := client.List("", prefix+"*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	folders := make([]string, 0, len(mailboxes))
	for _, mbox := range mailboxes {
		folders = append(folders, strings.TrimPrefix(mbox.Mailbox, prefix))
	}
	return folders, nil
}

// FetchFolder downloads every non-deleted message of one folder and
// returns the archive document for it.
func (c *Client) FetchFolder(ctx context.Context, name string) (*Folder, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	prefix, err := sharedPrefix(client)
	if err != nil {
		return nil, err
	}

	selected, err := client.Select(prefix+name, &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		return nil, fmt.Errorf("selecting folder %s: %w", name, err)
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagDeleted},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching folder %s: %w", name, err)
	}

	folder := &Folder{
		Fetched:     time.Now().UTC(),
		Name:        name,
		UIDValidity: selected.UIDValidity,
	}

	uids := searchData.AllUIDs()
	for start := 0; start < len(uids); start += fetchChunkSize {
		end := min(start+fetchChunkSize, len(uids))
		msgs, err := c.fetchChunk(client, uids[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetching %s uids %d-%d: %w", name, start, end, err)
		}
		folder.Messages = append(folder.Messages, msgs...)
	}

	c.logger.Info("fetched folder",
		"folder", name, "uidvalidity", folder.UIDValidity,
		"messages", len(folder.Messages))
	return folder, nil
}

// fetchChunk pulls the full RFC-822 text of one UID slice.
func (c *Client) fetchChunk(client *imapclient.Client, uids []imap.UID) ([]Message, error) {
	section := &imap.FetchItemBodySection{Peek: true}
	options := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}

	buffers, err := client.Fetch(imap.UIDSetNum(uids...), options).Collect()
	if err != nil {
		return nil, err
	}

	var msgs []Message
	for _, buf := range buffers {
		raw := buf.FindBodySection(section)
		if len(raw) == 0 {
			continue
		}
		msgs = append(msgs, Message{UID: uint32(buf.UID), Raw: raw})
	}
	return msgs, nil
}
