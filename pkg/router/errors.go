package router

import (
	"fmt"

	"github.com/rohmanhakim/fake-xhr/pkg/failure"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
)

type RouteErrorCause string

const (
	ErrCauseInvalidOrigin  RouteErrorCause = "invalid origin"
	ErrCauseInvalidURL     RouteErrorCause = "invalid request url"
	ErrCauseInvalidOptions RouteErrorCause = "invalid query options"
)

type RouteError struct {
	Message string
	Cause   RouteErrorCause
	Err     error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("router error: %s: %s", e.Cause, e.Message)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

func (e *RouteError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// mapRouteErrorToMetadataCause maps router-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only.
func mapRouteErrorToMetadataCause(err *RouteError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseInvalidURL:
		return metadata.CauseUnroutable
	default:
		return metadata.CauseUnknown
	}
}
