package mailparse

import (
	"bufio"
	"bytes"
	"log/slog"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

// Builder assembles one canonical MessageRecord per raw message. Each
// field is extracted independently: a value that defeats every repair
// degrades that one field to absent and the rest of the record is still
// produced. No input byte sequence makes Build fail.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder returns a Builder that reports rewrites and soft parse
// diagnostics to logger. A nil logger falls back to slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build parses the header block of raw and returns the normalized
// record. The body is not decoded; the raw bytes travel with the
// record for archival storage.
func (b *Builder) Build(raw model.RawMessage) model.MessageRecord {
	header, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw.Data)))
	if err != nil {
		// Keep whatever fields were read before the malformation.
		b.logger.Warn("malformed header block",
			"list", raw.MailingList, "uid", raw.UID, "err", err)
	}

	return model.MessageRecord{
		MailingList: raw.MailingList,
		UIDValidity: raw.UIDValidity,
		UID:         raw.UID,
		From:        b.fromIdentity(raw, header),
		To:          b.recipients(raw, header, "To"),
		Cc:          b.recipients(raw, header, "Cc"),
		Subject:     subjectOf(header),
		Date:        CanonicalDate(unfold(header.Get("Date"))),
		MessageID:   optionalTrimmed(header, "Message-Id"),
		InReplyTo:   replyTarget(header),
		Raw:         raw.Data,
	}
}

// fromIdentity runs the From header through repair, structural parsing,
// and the disambiguation chain of FromIdentity.
func (b *Builder) fromIdentity(raw model.RawMessage, header textproto.Header) model.Identity {
	if !header.Has("From") {
		return model.Identity{}
	}

	value := unfold(header.Get("From"))
	repaired, rewrote := RepairAddressHeader(value)
	if rewrote {
		b.logger.Debug("rewrote From header",
			"list", raw.MailingList, "uid", raw.UID,
			"old", value, "new", repaired)
	}

	alternates := []string{
		unfold(header.Get("X-Sender")),
		unfold(header.Get("X-Orig-Sender")),
		unfold(header.Get("Sender")),
		unfold(header.Get("Return-Path")),
	}
	return FromIdentity(raw.MailingList, repaired, alternates)
}

// recipients extracts the ordered To or Cc identities. Order follows
// the header; duplicates are preserved.
func (b *Builder) recipients(raw model.RawMessage, header textproto.Header, key string) []model.Identity {
	value := unfold(header.Get(key))
	if value == "" {
		return nil
	}

	repaired, rewrote := RepairAddressHeader(value)
	if rewrote {
		b.logger.Debug("rewrote address header",
			"list", raw.MailingList, "uid", raw.UID, "header", key,
			"old", value, "new", repaired)
	}

	mailboxes := ParseAddressList(repaired)
	if len(mailboxes) == 0 && CountAddressSigns(repaired) > 0 {
		b.logger.Warn("unparsable address header",
			"list", raw.MailingList, "uid", raw.UID, "header", key,
			"value", repaired)
		return nil
	}

	identities := make([]model.Identity, 0, len(mailboxes))
	for _, mb := range mailboxes {
		identities = append(identities, NormalizeMailbox(mb))
	}
	return identities
}

// subjectOf decodes the Subject header, including RFC 2047 encoded
// words, falling back to the raw value when decoding fails. A missing
// header is absent; a present-but-empty one is the empty string.
func subjectOf(header textproto.Header) *string {
	if !header.Has("Subject") {
		return nil
	}

	mh := mail.Header{Header: message.Header{Header: header}}
	subject, err := mh.Subject()
	if err != nil {
		subject = unfold(header.Get("Subject"))
	}
	subject = strings.TrimSpace(subject)
	return &subject
}

// replyTarget resolves the thread parent: the In-Reply-To header
// verbatim when non-empty, else the last token of References.
func replyTarget(header textproto.Header) *string {
	if v := unfold(header.Get("In-Reply-To")); v != "" {
		return &v
	}
	if refs := strings.Fields(unfold(header.Get("References"))); len(refs) > 0 {
		return &refs[len(refs)-1]
	}
	return nil
}

// optionalTrimmed returns the trimmed header value, or nil when the
// header is missing.
func optionalTrimmed(header textproto.Header, key string) *string {
	if !header.Has(key) {
		return nil
	}
	v := unfold(header.Get(key))
	return &v
}

// unfold joins continuation lines and trims the surrounding whitespace
// of one header value.
func unfold(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "")
	value = strings.ReplaceAll(value, "\n", "")
	return strings.TrimSpace(value)
}
