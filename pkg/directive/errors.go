package directive

import (
	"fmt"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/dom"
)

// Error codes, registered with the CLI error formatter.
const (
	CodeDuplicate     = "E200"
	CodeUnresolved    = "E201"
	CodeMissingServer = "E202"
	CodeHookExecution = "E203"
)

// DuplicateDirectiveError is returned when a name is registered twice in
// the same scope.
type DuplicateDirectiveError struct {
	Name  string
	Scope string
}

func (e *DuplicateDirectiveError) Error() string {
	return fmt.Sprintf("directive %q already registered in scope %q", e.Name, e.Scope)
}

// Code returns the error code.
func (e *DuplicateDirectiveError) Code() string { return CodeDuplicate }

// UnresolvedDirectiveError is returned when a template references a
// directive that no scope defines.
type UnresolvedDirectiveError struct {
	Name string
	Path string
}

func (e *UnresolvedDirectiveError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to resolve directive: %s", e.Name)
	}
	return fmt.Sprintf("failed to resolve directive: %s (at %s)", e.Name, e.Path)
}

// Code returns the error code.
func (e *UnresolvedDirectiveError) Code() string { return CodeUnresolved }

// MissingServerHookError is returned at compile time when a directive with
// client hooks but no SSR hook is used in a server-rendered template.
type MissingServerHookError struct {
	Name string
	Path string
}

func (e *MissingServerHookError) Error() string {
	return fmt.Sprintf("directive %q at %s has client hooks but no SSR hook; "+
		"add an SSR hook or mark it ClientOnly", e.Name, e.Path)
}

// Code returns the error code.
func (e *MissingServerHookError) Code() string { return CodeMissingServer }

// HookExecutionError wraps a failure inside a directive hook.
type HookExecutionError struct {
	Directive string
	Phase     Phase
	Path      string
	Err       error
}

func (e *HookExecutionError) Error() string {
	return fmt.Sprintf("directive %q %s hook failed at %s: %v", e.Directive, e.Phase, e.Path, e.Err)
}

// Unwrap returns the hook's error.
func (e *HookExecutionError) Unwrap() error { return e.Err }

// Code returns the error code.
func (e *HookExecutionError) Code() string { return CodeHookExecution }

// PanicError is the error recorded when a hook panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// CallHook runs a client hook. Returned errors and panics are wrapped in a
// *HookExecutionError naming the directive, phase and node path.
func CallHook(fn HookFunc, phase Phase, el *dom.Node, b *Binding, path string) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &HookExecutionError{Directive: b.Name, Phase: phase, Path: path, Err: &PanicError{Value: r}}
		}
	}()
	if herr := fn(el, b); herr != nil {
		return &HookExecutionError{Directive: b.Name, Phase: phase, Path: path, Err: herr}
	}
	return nil
}

// CallServerHook runs an SSR hook with the same wrapping as CallHook.
func CallServerHook(fn ServerHook, b *Binding, path string) (props attrs.Props, err error) {
	if fn == nil {
		return attrs.Props{}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			props = attrs.Props{}
			err = &HookExecutionError{Directive: b.Name, Phase: PhaseSSR, Path: path, Err: &PanicError{Value: r}}
		}
	}()
	props, err = fn(b)
	if err != nil {
		return attrs.Props{}, &HookExecutionError{Directive: b.Name, Phase: PhaseSSR, Path: path, Err: err}
	}
	return props, nil
}
