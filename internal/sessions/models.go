package sessions

import "time"

// Column names returned by the active-sessions query, lower-cased as the
// extractor keys them.
const (
	ColumnUsername     = "username"
	ColumnWorkstation  = "workstation"
	ColumnLoginTime    = "login_time"
	ColumnLastActivity = "last_activity"
	ColumnAppUser      = "appuser"
	ColumnBIUser       = "biuser"

	// ErrorKey replaces all columns when a row could not be extracted.
	ErrorKey = "error"
)

// NullMarker is the text a NULL column value is rendered as.
const NullMarker = "NULL"

// FlagSet is the classification marker the query emits for a matching session.
const FlagSet = "X"

// RawRow is one row as read from the driver: the column names in query order
// and the scanned values. Err is set when the row could not be scanned.
type RawRow struct {
	Columns []string
	Values  []any
	Err     error
}

// Fields maps lower-cased column names to their text form.
type Fields map[string]string

// Failed reports whether the row was replaced by an error marker.
func (f Fields) Failed() bool {
	_, ok := f[ErrorKey]
	return ok
}

// SessionRow is the typed view of one extracted session.
type SessionRow struct {
	Username     string
	Workstation  string
	LoginTime    string
	LastActivity string
	AppUserFlag  string
	BIUserFlag   string
}

// UserRecord is one normalized row as shown to callers. SortKey is nil when
// the last activity was absent or unparsable; such records sort last.
type UserRecord struct {
	Username     string     `json:"username"`
	Workstation  string     `json:"workstation"`
	LoginTime    string     `json:"login_time"`
	LastActivity string     `json:"last_activity"`
	IsAppUser    bool       `json:"is_app_user"`
	IsBIUser     bool       `json:"is_bi_user"`
	Error        string     `json:"error,omitempty"`
	SortKey      *time.Time `json:"-"`
}

// Report is the result of one FetchActiveUsers call.
type Report struct {
	Users        []UserRecord
	AppUserCount int
	BIUserCount  int
	Message      string
	RowErrors    int
}

// StatusSuccess is the message carried by every successful report.
const StatusSuccess = "Success"
