// Package mailparse turns arbitrarily malformed mail headers from three
// decades of mailing-list archives into normalized identities, canonical
// UTC timestamps, and thread linkage. Every function operating on header
// text is total: malformed input degrades to an absent value, never to a
// fault.
package mailparse

import "regexp"

// rewriteRule pairs a known historical malformation with its
// replacement. Rules are tried in order and the first rule that changes
// the value wins, so later rules never compound an earlier rewrite.
// New malformations are handled by appending entries, not by widening
// the general-case parsing logic.
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// addressHeaderRules repairs To, Cc, and From values before structural
// parsing. Many messages sent to ietf-announce carry headers corrupt
// enough to defeat any address-list grammar (empty group terms, routed
// source addresses, bare group labels); these are rewritten to the
// list's canonical address. Variants of the "undisclosed recipients"
// convention are folded into the one canonical spelling.
var addressHeaderRules = []rewriteRule{
	{regexp.MustCompile(`("IETF-Announce:; ; ; ; ; @tis.com"@tis.com[; ]+ , )(.*)`), "ietf-announce@ietf.org, ${2}"},
	{regexp.MustCompile(`(.*)(IETF-Announce:[ ;,]+[a-zA-Z\.@:;-]+$)`), "${1}ietf-announce@ietf.org"},
	{regexp.MustCompile(`(.*)(IETF-Announce:(; )+[; a-z\.@\r\n]+)`), "${1}ietf-announce@ietf.org"},
	{regexp.MustCompile(`(.*)(<"?IETF-Announce:"?)([a-z0-9\.@;"]+)?(>)(, @tislabs.com@tislabs.com)?(.*)`), "${1}<ietf-announce@ietf.org>${6}"},
	{regexp.MustCompile(`IETF-Announce: ;, tis.com@CNRI.Reston.VA.US, tis.com@magellan.tis.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: ;, "localhost.MIT.EDU": cclark@ietf.org;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: @IETF.CNRI.Reston.VA.US:;, IETF.CNRI.Reston.VA.US@isi.edu`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce <IETF-Announce:@auemlsrv.firewall.lucent.com;>`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: ;,  "CNRI.Reston.VA.US" <@sun.com:CNRI.Reston.VA.US@eng.sun.com>`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: ;,  "neptune.tis.com" <@tis.com, @baynetworks.com:neptune.tis.com@baynetworks.com>, tis.com@tis.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: "IETF-Announce:;@IETF.CNRI.Reston.VA.US@PacBell.COM" <>;,  IETF.CNRI.Reston.VA.US@pacbell.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: %IETF.CNRI.Reston.VA.US@tgv.com;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`(IETF-Announce: ; ; ; , )(@pa.dec.com[ ;,]+)+`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:;;;@gis.net;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:;;@gis.net`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:@ietf.org, ;;;@ietf.org;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:@cisco.com, ";"@cisco.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:, ";"@cisco.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:@cisco.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`"IETF-Announce:"@netcentrex.net`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:@above.proper.com`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:all-ietf@ietf.org`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`i IETF-Announce: ;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce: ;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:;`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`IETF-Announce:`), "ietf-announce@ietf.org"},
	{regexp.MustCompile(`("?[Uu]ndisclosed.recipients"?: ;+)(, @[a-z\.]+)?(.*)`), "undisclosed-recipients: ;${3}"},
	{regexp.MustCompile(`(.*)(unlisted-recipients:; \(no To-header on input\))(.*)`), "${1}undisclosed-recipients: ;${3}"},
	{regexp.MustCompile(`(.*)(random-recipients:;;;@cs.utk.edu; \(info-mime and ietf-822 lists\))(.*)`), "${1}undisclosed-recipients: ;${3}"},
	{regexp.MustCompile(`(.*)("[A-Za-z\.]+":;+@tislabs.com;;;)(.*)`), "${1}undisclosed-recipients: ;${3}"},
	{regexp.MustCompile(`undisclosed-recipients:;;:;`), "undisclosed-recipients: ;"},
	{regexp.MustCompile(`(moore@cs.utk.edu)?(, )?(authors:;+@cs.utk.edu;+)(.*)`), "${1}${4}"},
	{regexp.MustCompile(`(RFC 3023 authors: ;)`), "mmurata@trl.ibm.co.jp, simonstl@simonstl.com, dan@dankohn.com"},
	// Two display names whose encoded words hide a line break that the
	// encoded-word decoder chokes on.
	{regexp.MustCompile(`=\?ISO-8859-1\?B\?QWJhcmJhbmVsLA0KICAgIEJlbmphbWlu\?=`), "Benjamin Abarbanel"},
	{regexp.MustCompile(`=\?ISO-8859-15\?B\?UGV0ZXJzb24sDQogICAgSm9u\?=`), "Jon Peterson"},
}

// RepairAddressHeader rewrites one unfolded From/To/Cc header value so
// that the address-list grammar can consume it. It applies the first
// rule in addressHeaderRules that changes the value and reports whether
// a rewrite happened. Values matching no rule pass through unchanged;
// the function never fails.
func RepairAddressHeader(value string) (string, bool) {
	for _, rule := range addressHeaderRules {
		if rewritten := rule.pattern.ReplaceAllString(value, rule.replacement); rewritten != value {
			return rewritten, true
		}
	}
	return value, false
}
