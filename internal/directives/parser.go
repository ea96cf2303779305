package directives

import (
	"strings"
	"unicode"

	"github.com/toyz/earmark/internal/errors"
)

// Engine is the interface for parsing earmark directives out of comment
// text. Discovery hands over raw comment lines; the engine decides
// whether they are directives and what they mean.
type Engine interface {
	// IsDirective reports whether the comment line carries the earmark
	// prefix at all. Non-directives are skipped silently by discovery.
	IsDirective(comment string) bool

	// Parse parses a single directive comment. The location is the
	// comment's starting position and anchors every diagnostic.
	Parse(comment string, loc errors.SourceLocation) (*ParsedDirective, error)
}

// Parser is the default Engine implementation.
type Parser struct {
	markers *markListParser
}

// NewParser creates a directive parser
func NewParser() *Parser {
	return &Parser{
		markers: newMarkListParser(),
	}
}

// IsDirective reports whether the comment carries the earmark prefix.
func (p *Parser) IsDirective(comment string) bool {
	content, ok := stripCommentPrefix(comment)
	if !ok {
		return false
	}
	return strings.HasPrefix(content, Prefix)
}

// Parse parses a directive comment into its structured form.
func (p *Parser) Parse(comment string, loc errors.SourceLocation) (*ParsedDirective, error) {
	content, ok := stripCommentPrefix(comment)
	if !ok {
		return nil, errors.NewDirectiveSyntaxError("invalid directive prefix: comment must start with '//'", loc, "")
	}

	if !strings.HasPrefix(content, Prefix) {
		return nil, errors.NewDirectiveSyntaxError("invalid directive prefix: expected '"+Prefix+"'", loc, "")
	}
	content = strings.TrimPrefix(content, Prefix)

	// The directive name runs up to the first whitespace. "//earmark::"
	// with nothing after it is a syntax error, not a silent skip.
	name, args := splitNameAndArgs(content)
	if name == "" {
		return nil, errors.NewDirectiveSyntaxError("missing directive name", loc, "")
	}

	spec, known := specs[name]
	if !known {
		err := errors.NewDirectiveSyntaxError("unknown directive '"+name+"'", loc, "")
		return nil, err.WithToken(name).WithPosition(offsetIn(comment, content))
	}

	parsed := &ParsedDirective{
		Type:     spec.Type,
		Location: loc,
		Raw:      comment,
	}

	if !spec.TakesMarkList {
		if trimmed := strings.TrimSpace(args); trimmed != "" {
			err := errors.NewDirectiveSyntaxError(
				"directive takes no arguments", loc, spec.Type.String())
			return nil, err.WithToken(trimmed).
				WithPosition(offsetIn(comment, strings.TrimLeftFunc(args, unicode.IsSpace)))
		}
		return parsed, nil
	}

	refs, err := p.markers.ParseList(args, loc, offsetIn(comment, args))
	if err != nil {
		return nil, err
	}
	parsed.Markers = refs

	return parsed, nil
}

// offsetIn returns the byte offset of sub within comment. Token and
// argument columns are relative to the comment start, so diagnostics
// land on the offending text. sub must be a byte suffix of the
// whitespace-trimmed comment; the stripping in Parse only ever removes
// prefixes after the initial trim, so that holds for every caller.
func offsetIn(comment, sub string) int {
	leading := len(comment) - len(strings.TrimLeftFunc(comment, unicode.IsSpace))
	return leading + len(strings.TrimSpace(comment)) - len(sub)
}

// stripCommentPrefix removes "//" and surrounding whitespace, returning
// the comment's content. Block comments are not directive carriers.
func stripCommentPrefix(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return "", false
	}
	content := strings.TrimPrefix(comment, "//")
	return strings.TrimLeftFunc(content, unicode.IsSpace), true
}

// splitNameAndArgs separates the directive name from its argument text,
// preserving the argument text byte-for-byte.
func splitNameAndArgs(content string) (name, args string) {
	for i, r := range content {
		if unicode.IsSpace(r) {
			return content[:i], content[i+1:]
		}
	}
	return content, ""
}
