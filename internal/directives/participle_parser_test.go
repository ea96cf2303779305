package directives

import (
	"reflect"
	"strings"
	"testing"

	"github.com/toyz/earmark/internal/errors"
)

func TestParser_ParseMarkDirective(t *testing.T) {
	parser := NewParser()
	loc := errors.SourceLocation{File: "shapes.go", Line: 5, Column: 1}

	tests := []struct {
		name    string
		comment string
		want    []MarkerRef
	}{
		{
			name:    "single marker",
			comment: "//earmark::mark Array",
			want:    []MarkerRef{{Name: "Array", Raw: "Array"}},
		},
		{
			name:    "two markers",
			comment: "//earmark::mark Array, Uniform",
			want: []MarkerRef{
				{Name: "Array", Raw: "Array"},
				{Name: "Uniform", Raw: "Uniform"},
			},
		},
		{
			name:    "qualified marker",
			comment: "//earmark::mark shapes.Uniform",
			want:    []MarkerRef{{Package: "shapes", Name: "Uniform", Raw: "shapes.Uniform"}},
		},
		{
			name:    "mixed list keeps order",
			comment: "//earmark::mark Array, shapes.Uniform, Ragged",
			want: []MarkerRef{
				{Name: "Array", Raw: "Array"},
				{Package: "shapes", Name: "Uniform", Raw: "shapes.Uniform"},
				{Name: "Ragged", Raw: "Ragged"},
			},
		},
		{
			name:    "duplicates are preserved",
			comment: "//earmark::mark Array, Array",
			want: []MarkerRef{
				{Name: "Array", Raw: "Array"},
				{Name: "Array", Raw: "Array"},
			},
		},
		{
			name:    "no spaces around commas",
			comment: "//earmark::mark Array,Uniform,Ragged",
			want: []MarkerRef{
				{Name: "Array", Raw: "Array"},
				{Name: "Uniform", Raw: "Uniform"},
				{Name: "Ragged", Raw: "Ragged"},
			},
		},
		{
			name:    "empty list is valid",
			comment: "//earmark::mark",
			want:    nil,
		},
		{
			name:    "whitespace-only list is valid",
			comment: "//earmark::mark   ",
			want:    nil,
		},
		{
			name:    "underscore identifiers",
			comment: "//earmark::mark _internal, ext_pkg.Wide_Load",
			want: []MarkerRef{
				{Name: "_internal", Raw: "_internal"},
				{Package: "ext_pkg", Name: "Wide_Load", Raw: "ext_pkg.Wide_Load"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(tt.comment, loc)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.comment, err)
			}
			if parsed.Type != MarkDirective {
				t.Errorf("Type = %v, want MarkDirective", parsed.Type)
			}
			if !reflect.DeepEqual(parsed.Markers, tt.want) {
				t.Errorf("Markers = %#v, want %#v", parsed.Markers, tt.want)
			}
		})
	}
}

func TestParser_MarkArgumentErrors(t *testing.T) {
	parser := NewParser()
	loc := errors.SourceLocation{File: "shapes.go", Line: 5, Column: 1}

	tests := []struct {
		name    string
		comment string
	}{
		{"name=value pair", "//earmark::mark name=value"},
		{"flag argument", "//earmark::mark -recursive"},
		{"parenthesized", "//earmark::mark List(int)"},
		{"two idents without comma", "//earmark::mark Array Uniform"},
		{"deep qualification", "//earmark::mark a.b.C"},
		{"trailing comma", "//earmark::mark Array,"},
		{"only commas", "//earmark::mark ,,"},
		{"approximation term", "//earmark::mark ~int"},
		{"number", "//earmark::mark 42"},
		{"good then bad entry", "//earmark::mark Array, name=value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.comment, loc)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.comment)
			}
			if !strings.Contains(err.Error(), "expected marker name") {
				t.Errorf("error = %q, want it to contain 'expected marker name'", err.Error())
			}
			if _, ok := err.(*errors.ArgumentError); !ok {
				t.Errorf("error type = %T, want *errors.ArgumentError", err)
			}
		})
	}
}

func TestParser_ArgumentErrorAnchoring(t *testing.T) {
	parser := NewParser()
	loc := errors.SourceLocation{File: "shapes.go", Line: 5, Column: 1}

	comment := "//earmark::mark Array, name=value"
	_, err := parser.Parse(comment, loc)
	if err == nil {
		t.Fatal("Parse() should fail")
	}

	argErr, ok := err.(*errors.ArgumentError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}

	if argErr.Index != 1 {
		t.Errorf("Index = %d, want 1", argErr.Index)
	}
	if argErr.Argument != "name=value" {
		t.Errorf("Argument = %q", argErr.Argument)
	}

	// The diagnostic lands on the offending entry, not the comment start.
	wantCol := 1 + strings.Index(comment, "name=value")
	if got := argErr.Location().Column; got != wantCol {
		t.Errorf("Column = %d, want %d", got, wantCol)
	}
	if argErr.Location().Line != 5 {
		t.Errorf("Line = %d, want 5", argErr.Location().Line)
	}
}

func TestSplitArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
		want []argChunk
	}{
		{
			name: "single entry",
			args: "Array",
			want: []argChunk{{Text: "Array", Offset: 0}},
		},
		{
			name: "two entries with space",
			args: "Array, Uniform",
			want: []argChunk{
				{Text: "Array", Offset: 0},
				{Text: "Uniform", Offset: 7},
			},
		},
		{
			name: "leading whitespace",
			args: "  Array",
			want: []argChunk{{Text: "Array", Offset: 2}},
		},
		{
			name: "trailing comma yields empty chunk",
			args: "Array,",
			want: []argChunk{
				{Text: "Array", Offset: 0},
				{Text: "", Offset: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitArguments(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitArguments(%q) = %#v, want %#v", tt.args, got, tt.want)
			}
		})
	}
}
