package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the simulation lifecycle the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // device/memory construction
	PhasePlugin    Phase = "plugin"    // plugin registration and init
	PhaseExec      Phase = "exec"      // instruction execution
	PhaseConfig    Phase = "config"    // machine configuration
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidSize        Kind = "invalid_size"
	KindDuplicateName      Kind = "duplicate_name"
	KindUnknownPlugin      Kind = "unknown_plugin"
	KindPluginInit         Kind = "plugin_init"
	KindIllegalInstruction Kind = "illegal_instruction"
	KindAllocation         Kind = "allocation"
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindClosed             Kind = "closed"
)

// Error is the structured error type used throughout simcore for
// setup-time and execution-control failures. Ordinary out-of-range
// memory accesses are not errors; they are false returns across the
// Device boundary.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// InvalidSize creates an invalid memory size error
func InvalidSize(size uint64, detail string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInvalidSize,
		Detail: detail,
		Value:  size,
	}
}

// DuplicateName creates a duplicate plugin registration error
func DuplicateName(name string) *Error {
	return &Error{
		Phase:  PhasePlugin,
		Kind:   KindDuplicateName,
		Detail: fmt.Sprintf("plugin %q already registered", name),
		Value:  name,
	}
}

// UnknownPlugin creates an unknown plugin name error
func UnknownPlugin(name string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindUnknownPlugin,
		Detail: fmt.Sprintf("plugin %q not registered", name),
		Value:  name,
	}
}

// PluginInit creates an error for a plugin whose allocator rejected its
// arguments. Distinct from UnknownPlugin: the plugin exists but failed
// to initialize.
func PluginInit(name, args string) *Error {
	return &Error{
		Phase:  PhasePlugin,
		Kind:   KindPluginInit,
		Detail: fmt.Sprintf("plugin %q failed to initialize with args %q", name, args),
		Value:  name,
	}
}

// IllegalInstruction creates a CSR validation failure
func IllegalInstruction(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindIllegalInstruction,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Closed creates an error for operations on an already-closed owner
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s already closed", what),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
