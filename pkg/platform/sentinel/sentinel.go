package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and platform code return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrUnavailable: a dependency (database, exporter) cannot be reached
//   - ErrCircuitOpen: calls are being short-circuited after repeated failures
var (
	ErrUnavailable = errors.New("unavailable")
	ErrCircuitOpen = errors.New("circuit open")
)
