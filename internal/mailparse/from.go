package mailparse

import (
	"strings"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

// noAuthorPlaceholder is the generic sender the list software inserts
// when it has discarded the real one.
const noAuthorPlaceholder = "noreply@ietf.org"

// archiveRequestAddrs are legacy archive-request senders that carried
// administrative traffic, not authorship.
var archiveRequestAddrs = []string{
	"ietf-archive-request@ietf.nri.reston.va.us",
	"ietf-archive-request@ietf.cnri.reston.va.us",
}

// FromIdentity resolves the sender of a message. value is the repaired
// From header; alternates are the values of the X-Sender,
// X-Orig-Sender, Sender, and Return-Path headers in that precedence
// order, with the empty string standing for a missing header. The
// function always terminates in an Identity, possibly with both fields
// absent.
//
// A From value whose '@' count disagrees with the number of parsed
// addresses is a legacy encoding too ambiguous to trust; those go
// through the alternate-header chain, skipping list-infrastructure
// senders, and fall back to re-reading the From value itself with a
// leading "Last, First" comma form taken as a quoted display name.
func FromIdentity(folder, value string, alternates []string) model.Identity {
	mailboxes := ParseAddressList(value)
	atSigns := CountAddressSigns(value)

	switch {
	case len(mailboxes) == 0 && atSigns == 0:
		// From header empty or missing.
		return model.Identity{}
	case len(mailboxes) != atSigns:
		return disambiguateFrom(folder, value, alternates)
	case len(mailboxes) == 1:
		return NormalizeMailbox(mailboxes[0])
	default:
		// Multiple well-formed addresses: the first with a plausible
		// domain (one containing a dot) wins.
		for _, mb := range mailboxes {
			if _, domain, ok := strings.Cut(mb.Addr, "@"); ok && strings.Contains(domain, ".") {
				return NormalizeMailbox(mb)
			}
		}
		return model.Identity{}
	}
}

// disambiguateFrom walks the alternate-header precedence chain.
func disambiguateFrom(folder, fromValue string, alternates []string) model.Identity {
	for _, alt := range alternates {
		if alt == "" || listInfrastructureAddr(alt, folder) {
			continue
		}
		return parseSingleIdentity(alt)
	}

	id := parseSingleIdentity(quoteCommaName(fromValue))

	// The placeholder sender with an address-shaped display name means
	// the two fields arrived swapped.
	if id.Addr != nil && *id.Addr == noAuthorPlaceholder &&
		id.Name != nil && strings.Contains(*id.Name, "@") {
		id = model.Identity{Addr: normalizeAddr(*id.Name)}
	}

	return id
}

// parseSingleIdentity reads one header value as a single mailbox and
// normalizes it. Unusable values yield the all-absent identity.
func parseSingleIdentity(value string) model.Identity {
	mb, ok := parseMailboxLoose(value)
	if !ok {
		return model.Identity{}
	}
	return NormalizeMailbox(mb)
}

// quoteCommaName rewrites a From value whose display name uses the
// unquoted "Last, First" comma form, which the address-list grammar
// would otherwise split into two bogus entries.
func quoteCommaName(value string) string {
	value = strings.TrimSpace(value)
	if open := strings.Index(value, "<"); open > 0 {
		display := strings.TrimSpace(value[:open])
		if strings.Contains(display, ",") && !strings.Contains(display, `"`) {
			return `"` + display + `" ` + value[open:]
		}
		return value
	}
	if strings.Contains(value, ",") && !strings.Contains(value, `"`) && !strings.Contains(value, "@") {
		return `"` + value + `"`
	}
	return value
}

// listInfrastructureAddr reports whether addr belongs to the list's own
// machinery (bounce, owner, admin, approval, mailer-daemon, or the
// legacy archive-request senders) rather than to an author.
func listInfrastructureAddr(addr, folder string) bool {
	addr = strings.ToLower(strings.Trim(strings.TrimSpace(addr), "<>"))
	folder = strings.ToLower(folder)

	if addr == noAuthorPlaceholder {
		return true
	}
	if addr == folder+"-bounces@ietf.org" || addr == folder+"-bounces@lists.ietf.org" {
		return true
	}
	for _, a := range archiveRequestAddrs {
		if addr == a {
			return true
		}
	}
	for _, prefix := range []string{
		"owner-" + folder,
		"owner-ietf-" + folder,
		folder + "-admin@",
		folder + "-approval@",
		"mailer-daemon@",
	} {
		if strings.HasPrefix(addr, prefix) {
			return true
		}
	}
	return false
}
