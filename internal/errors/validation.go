package errors

import "fmt"

// SyntaxError represents a directive parsing error
type SyntaxError struct {
	*BaseError
	Token    string // the token that caused the error
	Position int    // position in the input where error occurred
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithToken sets the problematic token
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	return e
}

// WithPosition sets the position where the error occurred
func (e *SyntaxError) WithPosition(position int) *SyntaxError {
	e.Position = position
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithContext adds context data to the error
func (e *SyntaxError) WithContext(key string, value interface{}) *SyntaxError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// ArgumentError represents a mark-list argument that is not a marker path
type ArgumentError struct {
	*BaseError
	Argument string // argument text exactly as written
	Index    int    // zero-based position in the argument list
}

// NewArgumentError creates an error for a mark-list entry that is not a
// bare marker path. The message always leads with "expected marker name"
// so callers and tests can key off the canonical phrase.
func NewArgumentError(argument string, index int) *ArgumentError {
	message := "expected marker name"
	if argument != "" {
		message = fmt.Sprintf("expected marker name, found '%s'", argument)
	}

	return &ArgumentError{
		BaseError: New(ArgumentErrorCode, message),
		Argument:  argument,
		Index:     index,
	}
}

// WithLocation adds location information to the error
func (e *ArgumentError) WithLocation(loc SourceLocation) *ArgumentError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *ArgumentError) WithSuggestion(suggestion string) *ArgumentError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// StructuralError represents a declaration that cannot satisfy its directive
type StructuralError struct {
	*BaseError
	MarkerName string // declaration the directive was attached to
	Detail     string // which structural rule was broken
}

// NewStructuralError creates a new structural violation error. The message
// always states the marker-body requirement; detail narrows it to the
// offending item.
func NewStructuralError(markerName, detail string) *StructuralError {
	message := fmt.Sprintf("//earmark::marker requires an empty marker interface: %s", detail)

	return &StructuralError{
		BaseError:  New(StructuralErrorCode, message),
		MarkerName: markerName,
		Detail:     detail,
	}
}

// NewMarkTargetError creates a structural violation for a mark directive
// attached to a declaration that cannot carry tag methods.
func NewMarkTargetError(typeName, detail string) *StructuralError {
	message := fmt.Sprintf("//earmark::mark requires a struct or named type declaration: %s", detail)

	return &StructuralError{
		BaseError:  New(StructuralErrorCode, message),
		MarkerName: typeName,
		Detail:     detail,
	}
}

// WithLocation adds location information to the error
func (e *StructuralError) WithLocation(loc SourceLocation) *StructuralError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *StructuralError) WithSuggestion(suggestion string) *StructuralError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// ConflictError represents two declarations competing for one marker name
type ConflictError struct {
	*BaseError
	MarkerName string         // qualified marker name
	FirstLoc   SourceLocation // where the name was first declared
}

// NewConflictError creates a new duplicate-declaration error
func NewConflictError(markerName string, first SourceLocation) *ConflictError {
	message := fmt.Sprintf("marker '%s' already declared at %s", markerName, first.String())

	return &ConflictError{
		BaseError:  New(ConflictErrorCode, message),
		MarkerName: markerName,
		FirstLoc:   first,
	}
}

// WithLocation adds location information to the error
func (e *ConflictError) WithLocation(loc SourceLocation) *ConflictError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *ConflictError) WithSuggestion(suggestion string) *ConflictError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// GenerationError represents an error during code generation
type GenerationError struct {
	*BaseError
	GenerationType string // type of generation (blocks, file, ...)
	TargetFile     string // target file being generated
	Stage          string // stage of generation where error occurred
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

// WithTargetFile sets the target file
func (e *GenerationError) WithTargetFile(targetFile string) *GenerationError {
	e.TargetFile = targetFile
	return e
}

// WithStage sets the generation stage
func (e *GenerationError) WithStage(stage string) *GenerationError {
	e.Stage = stage
	return e
}

// WithLocation adds location information to the error
func (e *GenerationError) WithLocation(loc SourceLocation) *GenerationError {
	e.BaseError.WithLocation(loc)
	return e
}
