package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDatasetLoad matches any LoadError.
	ErrDatasetLoad = errors.New("dataset load error")

	// ErrDatasetFormat matches any FormatError.
	ErrDatasetFormat = errors.New("dataset format error")
)

// LoadError reports a source that is missing, unreadable, or not tabular.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrDatasetLoad }

// FormatError reports a parsed dataset without any usable text column.
type FormatError struct {
	Path    string
	Columns []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dataset %q must contain at least one of the columns %s (found: %s)",
		e.Path, strings.Join(TextColumns, ", "), strings.Join(e.Columns, ", "))
}

func (e *FormatError) Is(target error) bool { return target == ErrDatasetFormat }

func loadErr(path string, format string, args ...any) error {
	return &LoadError{Path: path, Err: fmt.Errorf(format, args...)}
}
