package mailparse

import (
	"net/mail"
	"strings"
	"time"
)

// canonicalDateLayout is the fixed UTC format persisted to the store;
// it sorts lexicographically, which the folder summaries rely on.
const canonicalDateLayout = "2006-01-02 15:04:05"

// legacyDateLayouts are non-standard formats seen in the older parts of
// the corpus. Zone-less values are taken as UTC.
var legacyDateLayouts = []string{
	"2-Jan-06 15:04:05", // 04-Jan-93 13:22:13
	"2-Jan-06 15:04",    // 30-Nov-93 17:23
	canonicalDateLayout, // 2006-07-29 00:55:01
}

// CanonicalDate parses a Date header value and returns the timestamp as
// a "YYYY-MM-DD HH:MM:SS" UTC string. Formats are tried in a fixed
// order and the first that parses wins: the standard RFC 5322 grammar;
// the standard grammar with the zone field replaced by +0000 (for
// malformed offsets like "+22306256"); the legacy layouts above; and
// finally a repair pass for unpadded hour/minute fields such as
// "8: 9: 2 +0300". Unrecognized values yield nil, never an error.
func CanonicalDate(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if t, err := mail.ParseDate(value); err == nil {
		return canonical(t)
	}

	// Standard format with an invalid timezone field: drop the zone
	// and parse as UTC.
	if fields := strings.Split(value, " "); len(fields) > 1 {
		forced := strings.Join(append(fields[:len(fields)-1], "+0000"), " ")
		if t, err := mail.ParseDate(forced); err == nil {
			return canonical(t)
		}
	}

	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return canonical(t)
		}
	}

	// Missing zero padding: "Mon, 17 Apr 2006  8: 9: 2 +0300".
	padded := strings.ReplaceAll(value, ": ", ":0")
	padded = strings.ReplaceAll(padded, "  ", " 0")
	if t, err := mail.ParseDate(padded); err == nil {
		return canonical(t)
	}

	return nil
}

func canonical(t time.Time) *string {
	s := t.UTC().Format(canonicalDateLayout)
	return &s
}
