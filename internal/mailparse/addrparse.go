package mailparse

import (
	"net/mail"
	"strings"
)

// Mailbox is one raw (display name, address) pair exactly as written in
// a header, before semantic normalization.
type Mailbox struct {
	Name string
	Addr string
}

// ParseAddressList splits a repaired From/To/Cc header value into the
// mailboxes it contains, in the order they appear. Duplicates are
// preserved. Group syntax ("label: member, member;") is flattened to
// its members at this boundary; an empty group, the old "undisclosed
// recipients" convention, contributes zero entries. Input that yields
// no parsable mailbox at all produces an empty slice, never an error.
func ParseAddressList(value string) []Mailbox {
	var mailboxes []Mailbox
	for _, segment := range splitAddressList(value) {
		if mb, ok := parseMailboxLoose(segment); ok {
			mailboxes = append(mailboxes, mb)
		}
	}
	return mailboxes
}

// splitAddressList cuts an address-list into its top-level terms:
// commas separate addresses, a colon outside any quoted string,
// comment, or angle-addr opens a group (the label is dropped), and a
// semicolon closes it. Quoting, backslash escapes, comment nesting,
// and angle brackets all shield their contents from the split, which
// keeps route addresses like <@relay:user@host> intact.
func splitAddressList(value string) []string {
	var (
		segments []string
		buf      strings.Builder
		inQuote  bool
		escaped  bool
		comment  int
		angle    int
		inGroup  bool
	)

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			segments = append(segments, s)
		}
		buf.Reset()
	}

	for _, r := range value {
		if escaped {
			buf.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\':
			buf.WriteRune(r)
			escaped = true
		case inQuote:
			buf.WriteRune(r)
			if r == '"' {
				inQuote = false
			}
		case r == '"':
			buf.WriteRune(r)
			inQuote = true
		case r == '(':
			comment++
		case r == ')' && comment > 0:
			comment--
		case comment > 0:
			// comment text carries no address content
		case r == '<':
			buf.WriteRune(r)
			angle++
		case r == '>' && angle > 0:
			buf.WriteRune(r)
			angle--
		case angle > 0:
			buf.WriteRune(r)
		case r == ':' && !inGroup:
			// group label ends here; members follow
			buf.Reset()
			inGroup = true
		case r == ';' && inGroup:
			flush()
			inGroup = false
		case r == ',':
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()

	return segments
}

// parseMailboxLoose parses a single mailbox term. It tries the strict
// RFC 5322 grammar first, then an angle-addr extraction for display
// names the grammar rejects. A fully quoted term without an address
// sign is a display name with no mailbox; anything else is treated as
// a bare address. Only whitespace-empty terms report false.
func parseMailboxLoose(s string) (Mailbox, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Mailbox{}, false
	}

	if a, err := mail.ParseAddress(s); err == nil {
		return Mailbox{Name: a.Name, Addr: a.Address}, true
	}

	if open := strings.LastIndex(s, "<"); open >= 0 {
		if end := strings.Index(s[open:], ">"); end > 0 {
			name := strings.Trim(strings.TrimSpace(s[:open]), `"'`)
			addr := strings.TrimSpace(s[open+1 : open+end])
			return Mailbox{Name: name, Addr: addr}, true
		}
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && !strings.Contains(s, "@") {
		return Mailbox{Name: strings.Trim(s, `"`)}, true
	}

	return Mailbox{Addr: s}, true
}

// CountAddressSigns counts the '@' characters that could plausibly
// delimit an address. A space-padded " @ " inside a display name, as in
// "Hamilton, Ed @ OTT <ehamilt@example.com>", is annotation rather than
// an address separator and is not counted.
func CountAddressSigns(value string) int {
	count := 0
	for i, r := range value {
		if r != '@' {
			continue
		}
		if i > 0 && i+1 < len(value) && value[i-1] == ' ' && value[i+1] == ' ' {
			continue
		}
		count++
	}
	return count
}
