package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`CORP\alice`, "alice"},
		{"bob", "bob"},
		{`A\B\carol`, `B\carol`},
		{`\dave`, "dave"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripDomain(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOK bool
	}{
		{"iso with fraction and zulu", "2024-01-05T08:30:00.123Z", time.Date(2024, 1, 5, 8, 30, 0, 123000000, time.UTC), true},
		{"iso whole seconds zulu", "2024-01-05T09:15:00Z", time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC), true},
		{"space separated", "2024-01-05 17:45:10", time.Date(2024, 1, 5, 17, 45, 10, 0, time.UTC), true},
		{"microseconds", "2024-01-05 17:45:10.000500", time.Date(2024, 1, 5, 17, 45, 10, 500000, time.UTC), true},
		{"null marker", "NULL", time.Time{}, false},
		{"none", "None", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
		{"date only", "2024-01-05", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestDisplayTimestamp(t *testing.T) {
	assert.Equal(t, "01/05/2024 08:30 AM", DisplayTimestamp("2024-01-05T08:30:00.123Z"))
	assert.Equal(t, "01/05/2024 05:45 PM", DisplayTimestamp("2024-01-05 17:45:10"))
	assert.Equal(t, "12/31/2023 12:00 AM", DisplayTimestamp("2023-12-31 00:00:59"))
	assert.Empty(t, DisplayTimestamp("NULL"))
	assert.Empty(t, DisplayTimestamp("not a time"))
}

func TestDisplayRoundTripToTheMinute(t *testing.T) {
	inputs := []string{
		"2024-01-05T08:30:00.123Z",
		"2024-02-29 23:59:59",
		"2024-07-04 12:00:00.5",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			parsed, ok := ParseTimestamp(in)
			require.True(t, ok)

			display := FormatTimestamp(parsed)
			back, err := time.Parse(DisplayLayout, display)
			require.NoError(t, err)

			assert.True(t, parsed.Truncate(time.Minute).Equal(back))
			assert.Equal(t, display, FormatTimestamp(back), "reformatting is idempotent")
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		rec := Normalize(Fields{
			"username":      `CORP\alice`,
			"workstation":   "WS-01",
			"login_time":    "2024-01-05T08:30:00.123Z",
			"last_activity": "2024-01-05T09:15:00Z",
			"appuser":       "X",
			"biuser":        " ",
		})

		assert.Equal(t, "alice", rec.Username)
		assert.Equal(t, "WS-01", rec.Workstation)
		assert.Equal(t, "01/05/2024 08:30 AM", rec.LoginTime)
		assert.Equal(t, "01/05/2024 09:15 AM", rec.LastActivity)
		assert.True(t, rec.IsAppUser)
		assert.False(t, rec.IsBIUser)
		require.NotNil(t, rec.SortKey)
		assert.True(t, time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC).Equal(*rec.SortKey))
		assert.Empty(t, rec.Error)
	})

	t.Run("unparsable activity has no sort key", func(t *testing.T) {
		rec := Normalize(Fields{
			"username": "bob", "workstation": "WS", "login_time": "NULL",
			"last_activity": "garbled", "appuser": " ", "biuser": "X ",
		})

		assert.Empty(t, rec.LoginTime)
		assert.Empty(t, rec.LastActivity)
		assert.Nil(t, rec.SortKey)
		assert.True(t, rec.IsBIUser, "surrounding whitespace is ignored")
	})

	t.Run("flags other than X are false", func(t *testing.T) {
		rec := Normalize(Fields{
			"username": "carol", "workstation": "WS", "login_time": "NULL",
			"last_activity": "NULL", "appuser": "x", "biuser": "",
		})

		assert.False(t, rec.IsAppUser)
		assert.False(t, rec.IsBIUser)
	})

	t.Run("failed extraction keeps error", func(t *testing.T) {
		rec := Normalize(Fields{ErrorKey: "row extraction failed: boom"})

		assert.Equal(t, "row extraction failed: boom", rec.Error)
		assert.Empty(t, rec.Username)
		assert.Nil(t, rec.SortKey)
	})
}
