package directives

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/earmark/internal/errors"
)

// markListParser parses mark-directive argument lists using participle.
type markListParser struct {
	path *participle.Parser[markerPath]
}

// markerPath is the grammar for a single mark-list entry: an identifier,
// optionally qualified by a package name.
type markerPath struct {
	Qualifier string `parser:"(@Ident '.')?"`
	Name      string `parser:"@Ident"`
}

// newMarkListParser creates the entry parser
func newMarkListParser() *markListParser {
	// Define the lexer. The Punct rule exists so that malformed entries
	// like "List(int)" or "~int" fail as parse errors instead of lexer
	// panics, which keeps the diagnostic anchored at the entry.
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
		{Name: "Punct", Pattern: `[-()\[\]{}~|*&/"']`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	path := participle.MustBuild[markerPath](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	return &markListParser{path: path}
}

// ParseList parses the comma-separated marker paths of a mark directive.
// An empty argument string is a valid empty list. Every entry must be a
// bare path; anything else fails with the argument diagnostic anchored
// at that entry. argsBase is the byte offset of the argument text within
// the comment, used to derive per-entry columns.
func (p *markListParser) ParseList(args string, loc errors.SourceLocation, argsBase int) ([]MarkerRef, error) {
	if strings.TrimSpace(args) == "" {
		return nil, nil
	}

	var refs []MarkerRef
	for i, chunk := range splitArguments(args) {
		entryLoc := loc
		if entryLoc.Column > 0 {
			entryLoc.Column += argsBase + chunk.Offset
		}

		if chunk.Text == "" {
			return nil, errors.NewDirectiveArgumentError("", i, entryLoc, errors.MarkDirective)
		}

		ref, err := p.parseEntry(chunk.Text)
		if err != nil {
			argErr := errors.NewDirectiveArgumentError(chunk.Text, i, entryLoc, errors.MarkDirective)
			argErr.BaseError.WithCause(err)
			return nil, argErr
		}
		ref.Raw = chunk.Text
		refs = append(refs, *ref)
	}

	return refs, nil
}

// parseEntry runs one entry through the path grammar. The grammar must
// consume the entire entry; trailing tokens surface as parse errors.
func (p *markListParser) parseEntry(entry string) (*MarkerRef, error) {
	mp, err := p.path.ParseString("", entry)
	if err != nil {
		return nil, err
	}

	return &MarkerRef{
		Package: mp.Qualifier,
		Name:    mp.Name,
	}, nil
}

// argChunk is one comma-separated piece of the argument text.
type argChunk struct {
	Text   string // trimmed entry text
	Offset int    // byte offset of the entry within the argument string
}

// splitArguments splits on commas while tracking each entry's offset.
// Commas cannot appear inside a marker path, so a flat split is exact.
func splitArguments(args string) []argChunk {
	var chunks []argChunk
	start := 0
	for i := 0; i <= len(args); i++ {
		if i < len(args) && args[i] != ',' {
			continue
		}
		raw := args[start:i]
		trimmed := strings.TrimSpace(raw)
		chunks = append(chunks, argChunk{
			Text:   trimmed,
			Offset: start + strings.Index(raw, trimmed),
		})
		start = i + 1
	}
	return chunks
}
