package mailparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "rfc 5322 with numeric zone",
			value: "Fri, 21 Nov 1997 09:55:06 -0600",
			want:  "1997-11-21 15:55:06",
		},
		{
			name:  "rfc 5322 without weekday",
			value: "21 Nov 1997 09:55:06 GMT",
			want:  "1997-11-21 09:55:06",
		},
		{
			name:  "nonsense zone forced to utc",
			value: "Thu, 25 Apr 1996 10:27:11 +22306256",
			want:  "1996-04-25 10:27:11",
		},
		{
			name:  "legacy day-month-year with seconds",
			value: "04-Jan-93 13:22:13",
			want:  "1993-01-04 13:22:13",
		},
		{
			name:  "legacy day-month-year without seconds",
			value: "30-Nov-93 17:23",
			want:  "1993-11-30 17:23:00",
		},
		{
			name:  "already canonical",
			value: "2006-07-29 00:55:01",
			want:  "2006-07-29 00:55:01",
		},
		{
			name:  "unpadded time fields",
			value: "Mon, 17 Apr 2006  8: 9: 2 +0300",
			want:  "2006-04-17 05:09:02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalDate(tt.value)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCanonicalDate_Unparseable(t *testing.T) {
	values := []string{
		"",
		"   ",
		"not a date",
		"32 Foo 1990 10:00:00 +0000",
	}

	for _, value := range values {
		assert.Nil(t, CanonicalDate(value), "value %q", value)
	}
}
