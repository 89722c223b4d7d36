package structdump

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for generation-time failures.
var (
	// ErrCycle is returned when the value graph refers back to a value
	// that is still being emitted.
	ErrCycle = errors.New("structdump: value graph contains a cycle")

	// ErrDepth is returned when the value graph is nested deeper than the
	// configured limit.
	ErrDepth = errors.New("structdump: value graph too deep")

	// ErrBuilder is returned when a Codegen implementation drives a
	// composite builder in a way that cannot produce valid code.
	ErrBuilder = errors.New("structdump: invalid composite construction")

	// ErrUntypedRoot is returned when bindings were emitted but the root
	// expression carries no static type to declare the enclosing block with.
	ErrUntypedRoot = errors.New("structdump: root expression has no static type")

	// ErrInvalidConfig is returned when an option is given an invalid value.
	ErrInvalidConfig = errors.New("structdump: invalid configuration")
)

// CycleError represents a reference back to a value still being emitted.
type CycleError struct {
	Type string // Go type of the value that closes the cycle
}

// Error returns the error string.
func (e *CycleError) Error() string {
	return fmt.Sprintf("structdump: cycle through %s", e.Type)
}

// Is reports whether the target error matches CycleError.
// This allows errors.Is(cycleErr, ErrCycle) to return true.
func (e *CycleError) Is(err error) bool {
	return err == ErrCycle
}

// NewCycleError returns a new CycleError for the given type.
func NewCycleError(typ string) *CycleError {
	return &CycleError{Type: typ}
}

// IsCycle returns true if the error is a CycleError.
func IsCycle(err error) bool {
	if err == nil {
		return false
	}
	var e *CycleError
	return errors.As(err, &e) || errors.Is(err, ErrCycle)
}

// DepthError represents a value graph nested beyond the configured limit.
type DepthError struct {
	Limit int
	Type  string // Go type of the value at which the limit was hit
}

// Error returns the error string.
func (e *DepthError) Error() string {
	return fmt.Sprintf("structdump: depth limit %d exceeded at %s", e.Limit, e.Type)
}

// Is reports whether the target error matches DepthError.
func (e *DepthError) Is(err error) bool {
	return err == ErrDepth
}

// NewDepthError returns a new DepthError.
func NewDepthError(limit int, typ string) *DepthError {
	return &DepthError{Limit: limit, Type: typ}
}

// IsDepth returns true if the error is a DepthError.
func IsDepth(err error) bool {
	if err == nil {
		return false
	}
	var e *DepthError
	return errors.As(err, &e) || errors.Is(err, ErrDepth)
}

// BuilderError represents a composite builder used against its contract,
// such as a missing field name or a field the output package cannot set.
type BuilderError struct {
	Type    string // Composite type name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *BuilderError) Error() string {
	var b strings.Builder
	b.WriteString("structdump: builder error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for BuilderError.
func (e *BuilderError) Is(target error) bool {
	return target == ErrBuilder
}

// NewBuilderError creates a new BuilderError.
func NewBuilderError(typeName, fieldName, message string) *BuilderError {
	return &BuilderError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
	}
}

// IsBuilderError reports whether the error is a BuilderError.
func IsBuilderError(err error) bool {
	var builderErr *BuilderError
	return errors.As(err, &builderErr)
}

// ConfigError represents an invalid option value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("structdump: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("structdump: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
