package mailparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddressList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []Mailbox
	}{
		{
			name:  "single bare address",
			value: "alice@example.com",
			want:  []Mailbox{{Addr: "alice@example.com"}},
		},
		{
			name:  "display name with angle addr",
			value: `"Bob Example" <bob@example.com>`,
			want:  []Mailbox{{Name: "Bob Example", Addr: "bob@example.com"}},
		},
		{
			name:  "order follows the header",
			value: `First Last <a@x.example>, b@y.example, "C, D" <c@z.example>`,
			want: []Mailbox{
				{Name: "First Last", Addr: "a@x.example"},
				{Addr: "b@y.example"},
				{Name: "C, D", Addr: "c@z.example"},
			},
		},
		{
			name:  "empty group contributes nothing",
			value: "undisclosed-recipients: ;",
			want:  nil,
		},
		{
			name:  "group flattens to its members",
			value: "wg chairs: a@x.example, b@y.example;",
			want: []Mailbox{
				{Addr: "a@x.example"},
				{Addr: "b@y.example"},
			},
		},
		{
			name:  "group followed by plain address",
			value: "undisclosed-recipients: ;, carol@example.org",
			want:  []Mailbox{{Addr: "carol@example.org"}},
		},
		{
			name:  "comment is dropped",
			value: "alice@example.com (Alice)",
			want:  []Mailbox{{Addr: "alice@example.com"}},
		},
		{
			name:  "route address survives the colon",
			value: "<@relay.example:user@host.example>",
			want:  []Mailbox{{Addr: "@relay.example:user@host.example"}},
		},
		{
			name:  "obfuscated address is kept verbatim",
			value: "icn-interest at listserv.netlab.nec.de",
			want:  []Mailbox{{Addr: "icn-interest at listserv.netlab.nec.de"}},
		},
		{
			name:  "empty value",
			value: "",
			want:  nil,
		},
		{
			name:  "whitespace and separators only",
			value: " , ,, ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddressList(tt.value))
		})
	}
}

func TestCountAddressSigns(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"alice@example.com", 1},
		{"a@x.example, b@y.example", 2},
		{"no address here", 0},
		{"Hamilton, Ed @ OTT <EHAMILT@mtl.unisysgsg.com>", 1},
		{"a @ b @ c", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CountAddressSigns(tt.value), "value %q", tt.value)
	}
}
