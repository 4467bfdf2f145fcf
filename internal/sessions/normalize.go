package sessions

import (
	"strings"
	"time"
)

// DisplayLayout is the user-facing timestamp format.
const DisplayLayout = "01/02/2006 03:04 PM"

// Accepted wire layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// StripDomain drops a DOMAIN\ qualifier, keeping everything after the first backslash.
func StripDomain(username string) string {
	if _, user, ok := strings.Cut(username, `\`); ok {
		return user
	}
	return username
}

func isAbsent(s string) bool {
	switch strings.TrimSpace(s) {
	case "", NullMarker, "None":
		return true
	}
	return false
}

// ParseTimestamp parses a wire timestamp such as "2024-01-05T09:15:00.123Z" or
// "2024-01-05 09:15:00". ok is false for absent or malformed input.
func ParseTimestamp(s string) (t time.Time, ok bool) {
	if isAbsent(s) {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "Z")
	s = strings.Replace(s, "T", " ", 1)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t for display.
func FormatTimestamp(t time.Time) string {
	return t.Format(DisplayLayout)
}

// DisplayTimestamp reformats a wire timestamp for display, or returns "" when
// it is absent or unparsable.
func DisplayTimestamp(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return ""
	}
	return FormatTimestamp(t)
}

func flagSet(v string) bool {
	return strings.TrimSpace(v) == FlagSet
}

// Normalize turns extracted fields into a UserRecord. Rows that failed
// extraction come back with only Error set.
func Normalize(f Fields) UserRecord {
	row, err := ParseSessionRow(f)
	if err != nil {
		return UserRecord{Error: err.Error()}
	}

	rec := UserRecord{
		Username:    StripDomain(row.Username),
		Workstation: row.Workstation,
		LoginTime:   DisplayTimestamp(row.LoginTime),
		IsAppUser:   flagSet(row.AppUserFlag),
		IsBIUser:    flagSet(row.BIUserFlag),
	}
	if last, ok := ParseTimestamp(row.LastActivity); ok {
		rec.LastActivity = FormatTimestamp(last)
		rec.SortKey = &last
	}
	return rec
}
