package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and directory clients
// return these (optionally wrapped) so services can translate
// them into domain errors.
//
//   - ErrNotFound: entity does not exist in the store or directory
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrStaleVersion: a versioned write observed a newer stored version
//   - ErrUnavailable: upstream service failed, timed out or answered garbage
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStaleVersion = errors.New("stale version")
	ErrUnavailable  = errors.New("unavailable")
)
