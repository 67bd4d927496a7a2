package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// ToSnakeCase inserts an underscore before every uppercase letter, lowercases
// it and strips a single leading underscore. It works purely on case
// boundaries:
//
//	ToSnakeCase("OrderItem")  // order_item
//	ToSnakeCase("HTTPServer") // h_t_t_p_server
func ToSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(b.String(), "_")
}

// ToCamelCase turns every "-x" or "_x" sequence into "X".
func ToCamelCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(rs); i++ {
		if (rs[i] == '-' || rs[i] == '_') && i+1 < len(rs) && unicode.IsLetter(rs[i+1]) {
			b.WriteRune(unicode.ToUpper(rs[i+1]))
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// ToPascalCase uppercases the first letter of every word and lowercases the
// rest of it. A word is a run of letters, digits and underscores.
func ToPascalCase(s string) string {
	var (
		b    strings.Builder
		word strings.Builder
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		_, size := utf8.DecodeRuneInString(w)
		b.WriteString(upper.String(w[:size]))
		b.WriteString(lower.String(w[size:]))
		word.Reset()
	}
	for _, r := range s {
		if isWordRune(r) {
			word.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// ToClassName builds a class identifier from a table name. It splits on
// dashes, underscores and whitespace and uppercases the first letter of each
// segment, leaving the rest untouched:
//
//	ToClassName("order_item") // OrderItem
//	ToClassName("userRole")   // UserRole
func ToClassName(s string) string {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	var b strings.Builder
	b.Grow(len(s))
	for _, seg := range segments {
		_, size := utf8.DecodeRuneInString(seg)
		b.WriteString(upper.String(seg[:size]))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// ToTitle separates the words of a class name with spaces.
//
//	ToTitle("OrderItem") // Order Item
func ToTitle(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToSingle replaces a trailing "ies" with "y", else strips a trailing "s".
func ToSingle(s string) string {
	switch {
	case strings.HasSuffix(s, "ies"):
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "s"):
		return strings.TrimSuffix(s, "s")
	}
	return s
}

// ToPlural leaves words ending in "s" alone, turns a trailing "y" into "ies"
// and appends "s" to everything else.
func ToPlural(s string) string {
	switch {
	case s == "", strings.HasSuffix(s, "s"):
		return s
	case strings.HasSuffix(s, "y"):
		return strings.TrimSuffix(s, "y") + "ies"
	}
	return s + "s"
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
