package load

import (
	"errors"
	"strings"

	"golang.org/x/tools/go/packages"
)

// ErrLoad indicates that a package could not be loaded or type-checked.
var ErrLoad = errors.New("structdump/load: package load failed")

// LoadError represents the failure to load a package.
type LoadError struct {
	Path    string
	Message string
	Errs    []packages.Error // type-checking errors reported by the package
	Cause   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("structdump/load: load error")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for i, err := range e.Errs {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// NewLoadError creates a new LoadError.
func NewLoadError(path, message string, cause error) *LoadError {
	return &LoadError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// IsLoadError reports whether the error is a LoadError.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}
