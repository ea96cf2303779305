package utils

import "unicode"

// typeKeywords are identifiers that can precede a '.' without naming a
// package, such as the composite literal forms inside constraint text.
var typeKeywords = map[string]bool{
	"map":       true,
	"chan":      true,
	"func":      true,
	"struct":    true,
	"interface": true,
	"any":       true,
}

// ExtractQualifiers returns the package qualifiers referenced by a type
// expression, in first-use order and without duplicates. For the constraint
// text "map[K]fmt.Stringer | cmp.Ordered" it returns ["fmt", "cmp"].
// Generated files re-state constraints verbatim, so every qualifier they
// mention has to be importable from the generated file as well.
func ExtractQualifiers(expr string) []string {
	var qualifiers []string
	seen := make(map[string]bool)

	runes := []rune(expr)
	i := 0
	for i < len(runes) {
		if !isIdentStart(runes[i]) {
			i++
			continue
		}

		// An identifier run only names a qualifier when it starts fresh,
		// not when it is the tail of "pkg.Name".
		precededByDot := i > 0 && runes[i-1] == '.'

		start := i
		for i < len(runes) && isIdentPart(runes[i]) {
			i++
		}
		ident := string(runes[start:i])

		if precededByDot || typeKeywords[ident] {
			continue
		}

		if i < len(runes) && runes[i] == '.' && !seen[ident] {
			seen[ident] = true
			qualifiers = append(qualifiers, ident)
		}
	}

	return qualifiers
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
