package mailparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csperkins/empirical-analysis-ietf/internal/model"
)

func strptr(s string) *string { return &s }

func TestNormalizeMailbox_Addr(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want *string
	}{
		{
			name: "lowercased",
			addr: "Alice@Example.COM",
			want: strptr("alice@example.com"),
		},
		{
			name: "dmarc relay unwrapped",
			addr: "arnaud.taddei=40broadcom.com@dmarc.ietf.org",
			want: strptr("arnaud.taddei@broadcom.com"),
		},
		{
			name: "at obfuscation",
			addr: "lear at cisco.com",
			want: strptr("lear@cisco.com"),
		},
		{
			name: "at word kept when a real separator exists",
			addr: "chat at night@example.com",
			want: strptr("chat at night@example.com"),
		},
		{
			name: "nested quoted mailbox",
			addr: `"user@real.example.com"@relay.example.org`,
			want: strptr("user@real.example.com"),
		},
		{
			name: "stray angle brackets",
			addr: "<alice@example.com>",
			want: strptr("alice@example.com"),
		},
		{
			name: "unsubscribe placeholder suffix",
			addr: "alice@example.com.removethisword",
			want: strptr("alice@example.com"),
		},
		{
			name: "on behalf of truncated",
			addr: "alice@example.com on behalf of wg-list@example.org",
			want: strptr("alice@example.com"),
		},
		{
			name: "on behalf of re-exposes quoting",
			addr: `"alice@example.com" on behalf of wg-list@example.org`,
			want: strptr("alice@example.com"),
		},
		{
			name: "empty is absent",
			addr: "",
			want: nil,
		},
		{
			name: "quotes only is absent",
			addr: `""`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMailbox(Mailbox{Addr: tt.addr})
			assert.Equal(t, model.Identity{Addr: tt.want}, got)
		})
	}
}

func TestNormalizeMailbox_Name(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *string
	}{
		{"surrounding quotes", `"Alice Example"`, strptr("Alice Example")},
		{"apostrophes and spaces", "  'Alice Example' ", strptr("Alice Example")},
		{"datatracker tag", "Alice Example via Datatracker", strptr("Alice Example")},
		{"quoted datatracker tag", `"Alice Example via Datatracker"`, strptr("Alice Example")},
		{"case preserved", "ALICE example", strptr("ALICE example")},
		{"empty is absent", "", nil},
		{"quotes only is absent", `" "`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMailbox(Mailbox{Name: tt.value})
			assert.Equal(t, model.Identity{Name: tt.want}, got)
		})
	}
}

// Normalization must be a fixed point: feeding an already-normalized
// identity back through is a no-op.
func TestNormalizeIdentity_Idempotent(t *testing.T) {
	inputs := []Mailbox{
		{Name: `"Alice Example"`, Addr: "Alice@Example.COM"},
		{Name: "Bob via Datatracker", Addr: "bob=40example.com@dmarc.ietf.org"},
		{Addr: "lear at cisco.com"},
		{Addr: `"user@real.example.com"@relay.example.org`},
		{Addr: "alice@example.com.removethisword"},
		{Addr: `"alice@example.com" on behalf of wg-list@example.org`},
		{Name: "  ", Addr: "<alice@example.com>"},
		{},
	}

	for _, mb := range inputs {
		once := NormalizeMailbox(mb)
		twice := NormalizeIdentity(once)
		assert.True(t, once.Equal(twice), "input %+v: %s != %s", mb, once, twice)
	}
}

func TestNormalizeIdentity_PreservesAbsence(t *testing.T) {
	got := NormalizeIdentity(model.Identity{Name: strptr("Alice")})
	assert.Equal(t, model.Identity{Name: strptr("Alice")}, got)
	assert.Nil(t, got.Addr)
}
