package naming

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// Inflector converts words between their singular and plural forms.
type Inflector interface {
	Plural(string) string
	Singular(string) string
}

// Simple applies the suffix rules of ToPlural and ToSingle. It does not
// consult any dictionary, so irregular nouns are inflected as regular ones.
type Simple struct{}

// Plural implements Inflector.
func (Simple) Plural(s string) string { return ToPlural(s) }

// Singular implements Inflector.
func (Simple) Singular(s string) string { return ToSingle(s) }

// Dictionary is an Inflector backed by an English rule set with irregular
// and uncountable nouns. Only the last word of a class name is inflected, so
// "SalesPerson" becomes "SalesPeople" and "APIKey" becomes "APIKeys".
type Dictionary struct {
	rules     *inflect.Ruleset
	irregular map[string]string
}

// NewDictionary returns a Dictionary inflector with the default English rules.
func NewDictionary() *Dictionary {
	return &Dictionary{rules: inflect.NewDefaultRuleset(), irregular: make(map[string]string)}
}

// AddIrregular registers an irregular singular/plural pair. Words are
// matched regardless of case.
func (d *Dictionary) AddIrregular(singular, plural string) *Dictionary {
	singular, plural = strings.ToLower(singular), strings.ToLower(plural)
	d.rules.AddIrregular(singular, plural)
	d.irregular[singular] = plural
	return d
}

// Irregulars returns the pairs registered with AddIrregular as sorted
// "singular=plural" strings.
func (d *Dictionary) Irregulars() []string {
	pairs := make([]string, 0, len(d.irregular))
	for _, singular := range slices.Sorted(maps.Keys(d.irregular)) {
		pairs = append(pairs, singular+"="+d.irregular[singular])
	}
	return pairs
}

// Plural implements Inflector.
func (d *Dictionary) Plural(s string) string { return inflectLast(s, d.rules.Pluralize) }

// Singular implements Inflector.
func (d *Dictionary) Singular(s string) string { return inflectLast(s, d.rules.Singularize) }

// inflectLast applies fn to the lowercased last word of s and restores the
// casing of the part the rule kept.
func inflectLast(s string, fn func(string) string) string {
	i := lastWord(s)
	head, word := s[:i], s[i:]
	if word == "" {
		return s
	}
	lower := strings.ToLower(word)
	out := fn(lower)
	n := 0
	if len(lower) == len(word) {
		for n < len(out) && n < len(lower) && out[n] == lower[n] {
			n++
		}
	}
	if n > 0 {
		return head + word[:n] + out[n:]
	}
	if r, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(r) && out != "" {
		o, size := utf8.DecodeRuneInString(out)
		out = string(unicode.ToUpper(o)) + out[size:]
	}
	return head + out
}

// lastWord returns the byte offset of the last word of a PascalCase or
// camelCase name. A trailing run of capitals ("UserAPI") is one word.
func lastWord(s string) int {
	runes := []rune(s)
	last := -1
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsUpper(runes[i]) {
			last = i
			break
		}
	}
	if last < 0 {
		return 0
	}
	if !hasLower(runes[last+1:]) {
		for last > 0 && unicode.IsUpper(runes[last-1]) {
			last--
		}
	}
	return len(string(runes[:last]))
}

func hasLower(rs []rune) bool {
	for _, r := range rs {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// Inflector names accepted by ParseInflector.
const (
	SimpleName     = "simple"
	DictionaryName = "dictionary"
)

// ParseInflector returns the inflector registered under name.
func ParseInflector(name string) (Inflector, error) {
	switch strings.ToLower(name) {
	case "", SimpleName:
		return Simple{}, nil
	case DictionaryName:
		return NewDictionary(), nil
	default:
		return nil, fmt.Errorf("naming: unknown inflector %q (use %s or %s)", name, SimpleName, DictionaryName)
	}
}
