package failure_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rohmanhakim/fake-xhr/pkg/failure"
	"github.com/stretchr/testify/assert"
)

type stubError struct {
	severity failure.Severity
}

func (s *stubError) Error() string              { return "stub" }
func (s *stubError) Severity() failure.Severity { return s.severity }

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected failure.Severity
	}{
		{
			name:     "classified recoverable",
			err:      &stubError{severity: failure.SeverityRecoverable},
			expected: failure.SeverityRecoverable,
		},
		{
			name:     "wrapped classified",
			err:      fmt.Errorf("outer: %w", &stubError{severity: failure.SeverityRecoverable}),
			expected: failure.SeverityRecoverable,
		},
		{
			name:     "plain error is fatal",
			err:      errors.New("boom"),
			expected: failure.SeverityFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.SeverityOf(tt.err))
		})
	}
}
