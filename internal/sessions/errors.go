package sessions

import "errors"

// Fatal pipeline failures. Store errors wrap exactly one of these with %w.
var (
	ErrConnection     = errors.New("database connection failed")
	ErrQueryExecution = errors.New("session query failed")
	ErrFetch          = errors.New("session rows could not be fetched")
)

// ErrRowExtraction marks a single row that could not be converted. It never
// aborts a batch.
var ErrRowExtraction = errors.New("row extraction failed")
