// Package naming derives wire identifiers from Go names.
//
// Signal wire names follow the JavaScript convention (lowerCamelCase) used
// by the browser runtime, and attribute names follow the HTML convention
// (kebab-case). Both derivations are pure functions of the input so the
// same Go identifier always produces the same wire name.
package naming

import (
	"strings"
	"unicode"
)

// Words splits an identifier into its words on case boundaries.
//
// A word starts at a lower-to-upper transition ("NewTodo" -> New, Todo),
// at a digit-to-upper transition ("Page2Nav" -> Page2, Nav), and at the
// last capital of an acronym run ("URLPath" -> URL, Path).
func Words(ident string) []string {
	runes := []rune(ident)
	if len(runes) == 0 {
		return nil
	}

	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]

		boundary := unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev))
		if !boundary && i+1 < len(runes) {
			boundary = unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(runes[i+1])
		}
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))
	return words
}

// LowerCamel converts a Go identifier to lowerCamelCase.
//
//	LowerCamel("NewTodo")    // "newTodo"
//	LowerCamel("URLPath")    // "urlPath"
//	LowerCamel("PageNumber") // "pageNumber"
func LowerCamel(ident string) string {
	words := Words(ident)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		lower := strings.ToLower(w)
		r := []rune(lower)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}

// Kebab converts a Go identifier to kebab-case.
//
//	Kebab("AsyncLoad") // "async-load"
//	Kebab("SrcSet")    // "src-set"
func Kebab(ident string) string {
	words := Words(ident)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}
