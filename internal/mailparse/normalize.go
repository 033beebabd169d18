package mailparse

import (
	"strings"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

const (
	// dmarcRelaySuffix is appended by the list's DMARC rewriting, which
	// also encodes the original domain separator as "=40".
	dmarcRelaySuffix = "@dmarc.ietf.org"

	// datatrackerTag is appended to display names by datatracker
	// submissions.
	datatrackerTag = " via Datatracker"

	// removeThisWord marks forced-unsubscribe placeholders left behind
	// by some list software.
	removeThisWord = ".removethisword"
)

// NormalizeMailbox maps one raw mailbox to a canonical Identity.
// The transformation is idempotent: feeding the output back in is a
// no-op, which the regression tests enforce as a required property.
func NormalizeMailbox(mb Mailbox) model.Identity {
	return model.Identity{
		Name: normalizeName(mb.Name),
		Addr: normalizeAddr(mb.Addr),
	}
}

// NormalizeIdentity re-normalizes an identity, preserving absent
// fields. Used where an already-built Identity re-enters the pipeline.
func NormalizeIdentity(id model.Identity) model.Identity {
	out := model.Identity{}
	if id.Name != nil {
		out.Name = normalizeName(*id.Name)
	}
	if id.Addr != nil {
		out.Addr = normalizeAddr(*id.Addr)
	}
	return out
}

// normalizeName canonicalizes a display name: surrounding quote,
// apostrophe, and space characters go, as does the datatracker bounce
// tag. An empty result is absent, not the empty string.
func normalizeName(name string) *string {
	name = strings.Trim(name, `'" `)
	name = strings.TrimSuffix(name, datatrackerTag)
	name = strings.Trim(name, `'" `)
	if name == "" {
		return nil
	}
	return &name
}

// normalizeAddr canonicalizes an address through an ordered sequence of
// conditional repairs. Mail domains, and in this corpus local parts,
// are case-insensitive by convention, so the whole address is folded
// to lower case first.
func normalizeAddr(addr string) *string {
	addr = strings.ToLower(addr)

	// DMARC relay: arnaud.taddei=40broadcom.com@dmarc.ietf.org
	// carries the real domain behind an escaped separator.
	if strings.HasSuffix(addr, dmarcRelaySuffix) {
		addr = strings.ReplaceAll(strings.TrimSuffix(addr, dmarcRelaySuffix), "=40", "@")
	}

	// Nested mailbox: "user@realdomain"@relaydomain, or a full quoted
	// angle-addr in the local part. The quoted middle segment plus its
	// '@'-delimited neighbours re-parse as the real address.
	if strings.Count(addr, "@") == 2 {
		parts := strings.SplitN(addr, "@", 3)
		if strings.HasPrefix(parts[0], `"`) && strings.HasSuffix(parts[1], `"`) {
			nested := parts[0] + "@" + parts[1]
			nested = trimMatched(nested, '\'')
			nested = trimMatched(nested, '"')
			if mb, ok := parseMailboxLoose(nested); ok && mb.Addr != "" {
				addr = mb.Addr
			}
		}
	}

	// "lear at cisco.com" obfuscation, only when no real '@' exists.
	if !strings.Contains(addr, "@") {
		addr = strings.Replace(addr, " at ", "@", 1)
	}

	addr = strings.TrimSpace(addr)
	addr = strings.TrimLeft(addr, `"'<`)
	addr = strings.TrimRight(addr, `"'>`)

	addr = strings.TrimSuffix(addr, removeThisWord)

	if i := strings.Index(addr, " on behalf of "); i >= 0 {
		// The truncation can expose quoting or the placeholder suffix
		// again, so the trailing repairs re-run on the shortened value.
		addr = strings.TrimRight(strings.TrimSpace(addr[:i]), `"'>`)
		addr = strings.TrimSuffix(addr, removeThisWord)
	}

	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	return &addr
}

// trimMatched removes one pair of surrounding quote characters, but
// only when both ends carry them.
func trimMatched(s string, q byte) string {
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}
