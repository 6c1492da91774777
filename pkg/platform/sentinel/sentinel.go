package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrCorrupt: persisted payload exists but could not be decoded
// - ErrUnavailable: store or remote source temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrCorrupt     = errors.New("corrupt payload")
	ErrUnavailable = errors.New("unavailable")
)
