package metadata

import (
	"time"
)

// TransitionRecord is one ready-state change of a fake request.
type TransitionRecord struct {
	url   string
	from  int
	to    int
	async bool
}

// DispatchRecord is one routing decision taken for a sent request.
type DispatchRecord struct {
	host     string
	pathname string
	method   string
	matched  bool
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply the request can still complete.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.

# CauseInvalidState

Meaning:
  - An operation was attempted in a ready state that does not allow it.

Examples:
  - setRequestHeader before open
  - a second send without an intervening open

# CauseForbiddenHeader

Meaning:
  - A request header name is on the unsafe list or carries a reserved prefix.

# CauseSequencing

Meaning:
  - Response phases were driven out of order.

Examples:
  - body streamed before headers were received
  - respond after the request is done

# CauseInvalidBody

Meaning:
  - A response body was not textual.

# CauseUnroutable

Meaning:
  - A request could not be mapped to a host or handler.

Examples:
  - malformed request URL
  - no registry entry and no wildcard
*/
const (
	CauseUnknown ErrorCause = iota
	CauseInvalidState
	CauseForbiddenHeader
	CauseSequencing
	CauseInvalidBody
	CauseUnroutable
)

func (c ErrorCause) String() string {
	switch c {
	case CauseInvalidState:
		return "invalid_state"
	case CauseForbiddenHeader:
		return "forbidden_header"
	case CauseSequencing:
		return "sequencing"
	case CauseInvalidBody:
		return "invalid_body"
	case CauseUnroutable:
		return "unroutable"
	default:
		return "unknown"
	}
}

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrPath       AttributeKey = "path"
	AttrMethod     AttributeKey = "method"
	AttrHeader     AttributeKey = "header"
	AttrReadyState AttributeKey = "ready_state"
	AttrHTTPStatus AttributeKey = "http_status"
)
