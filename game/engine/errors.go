package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel is wrapped by every ConfigurationError
var ErrInvalidLevel = errors.New("invalid level")

// ConfigurationError reports a level definition that cannot be loaded
type ConfigurationError struct {
	Level  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Level == "" {
		return fmt.Sprintf("level configuration: %s", e.Reason)
	}
	return fmt.Sprintf("level configuration %q: %s", e.Level, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidLevel
}

func configErrorf(level, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Level: level, Reason: fmt.Sprintf(format, args...)}
}

// AdjacencyError is an internal geometry bug: an edge was requested
// between two cells that do not share a side.
type AdjacencyError struct {
	A, B Cell
}

func (e *AdjacencyError) Error() string {
	return fmt.Sprintf("cells (%d,%d) and (%d,%d) are not adjacent", e.A.Row, e.A.Col, e.B.Row, e.B.Col)
}
