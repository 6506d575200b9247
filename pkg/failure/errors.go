package failure

import "errors"

type Severity int

// Fatal errors are programming errors in test setup; recoverable ones may be
// surfaced to the caller as ordinary results (for example an unanswered request).
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

type ClassifiedError interface {
	error
	Severity() Severity
}

// SeverityOf walks the error chain and returns the severity of the first
// ClassifiedError found. Unclassified errors are treated as fatal.
func SeverityOf(err error) Severity {
	var classified ClassifiedError
	if errors.As(err, &classified) {
		return classified.Severity()
	}
	return SeverityFatal
}
