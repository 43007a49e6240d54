// Package hwpx provides custom error types for the conversion pipeline.
package hwpx

import "fmt"

// InputError reports a document tree payload that does not conform to the
// expected node shapes. It always aborts the whole conversion.
type InputError struct {
	Node    string
	Message string
}

func (e *InputError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("input error in %s node: %s", e.Node, e.Message)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

// NewInputError creates a new input error for the given node kind.
func NewInputError(node, message string) error {
	return &InputError{Node: node, Message: message}
}

// TemplateError reports a skeleton archive that lacks an expected part or
// whose part structure does not match the assumptions used by raw-text
// patching. Fatal for the whole conversion.
type TemplateError struct {
	Part    string
	Message string
}

func (e *TemplateError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("template error in part '%s': %s", e.Part, e.Message)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

// NewTemplateError creates a new template error for the given part.
func NewTemplateError(part, message string) error {
	return &TemplateError{Part: part, Message: message}
}

// AssembleError reports an I/O failure while reading the template or
// writing the output container.
type AssembleError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *AssembleError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("assemble error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("assemble error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("assemble error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("assemble error during %s", e.Operation)
}

func (e *AssembleError) Unwrap() error {
	return e.Cause
}

// NewAssembleError creates a new assemble error.
func NewAssembleError(operation, path string, cause error) error {
	return &AssembleError{Operation: operation, Path: path, Cause: cause}
}
