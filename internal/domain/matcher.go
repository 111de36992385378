package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	m "reimport.dev/pkg/reimport/internal/model"
)

// DefaultSourceDir is the top-level directory absolute-style imports start from.
const DefaultSourceDir = "src"

const componentsSegment = "components/"

// Form names one of the textual shapes an old-style import can take.
type Form string

// Recognized forms, from most to least specific.
const (
	// FormAbsolute is from '/<srcdir>/components/<id>'.
	FormAbsolute Form = "absolute"
	// FormRelative is from '../components/<id>' with one or more ../ hops.
	FormRelative Form = "relative"
	// FormPath is any /components/<id> path segment left in the text.
	FormPath Form = "path"
)

// Forms lists the forms in the order they are applied.
var Forms = []Form{FormAbsolute, FormRelative, FormPath}

// ImportPattern is one substitution step for a single rule.
type ImportPattern struct {
	Form    Form
	replace func(text string) string
}

// Apply runs the substitution over text.
func (p ImportPattern) Apply(text string) string {
	return p.replace(text)
}

// Matcher recognizes every supported form of an import of one relocated
// module and rewrites it to the rule's target. Matching is lexical only, so
// text inside comments or strings that looks like an import is rewritten too.
type Matcher struct {
	rule     m.Rule
	patterns []ImportPattern
}

// NewMatcher compiles the patterns for rule. sourceDir is the name of the
// top-level directory used by absolute-style imports.
func NewMatcher(sourceDir string, rule m.Rule) *Matcher {
	id := regexp.QuoteMeta(rule.Identifier)
	normalized := "from '" + rule.Target + "'"

	prefix := "/"
	if dir := strings.Trim(sourceDir, "/"); dir != "" {
		prefix = "/" + regexp.QuoteMeta(dir) + "/"
	}

	absolute := regexp.MustCompile(`from\s+['"]` + prefix + componentsSegment + id + `['"]`)
	relative := regexp.MustCompile(`from\s+['"](?:\.\./)+` + componentsSegment + id + `['"]`)

	return &Matcher{
		rule: rule,
		patterns: []ImportPattern{
			{Form: FormAbsolute, replace: func(text string) string {
				return absolute.ReplaceAllLiteralString(text, normalized)
			}},
			{Form: FormRelative, replace: func(text string) string {
				return relative.ReplaceAllLiteralString(text, normalized)
			}},
			{Form: FormPath, replace: func(text string) string {
				return replacePathSegment(text, rule.Identifier, rule.Target)
			}},
		},
	}
}

// Rule returns the rule the matcher was built for.
func (mt *Matcher) Rule() m.Rule {
	return mt.rule
}

// Patterns returns the patterns in application order.
func (mt *Matcher) Patterns() []ImportPattern {
	out := make([]ImportPattern, len(mt.patterns))
	copy(out, mt.patterns)

	return out
}

// Apply runs every pattern in order, each on the previous output.
func (mt *Matcher) Apply(text string) string {
	for _, pattern := range mt.patterns {
		text = pattern.Apply(text)
	}

	return text
}

// replacePathSegment turns /components/<id> into /<target>. An occurrence is
// skipped when the identifier continues (XComponent is not X) or when the
// text there already reads /<target>, which keeps the pass idempotent for
// targets that start with components/<id>.
func replacePathSegment(text, identifier, target string) string {
	needle := "/" + componentsSegment + identifier
	replacement := "/" + target

	if !strings.Contains(text, needle) {
		return text
	}

	var b strings.Builder

	b.Grow(len(text))

	rest := text
	for {
		i := strings.Index(rest, needle)
		if i < 0 {
			b.WriteString(rest)
			break
		}

		end := i + len(needle)
		if continuesIdentifier(rest[end:]) || strings.HasPrefix(rest[i:], replacement) {
			b.WriteString(rest[:end])
			rest = rest[end:]

			continue
		}

		b.WriteString(rest[:i])
		b.WriteString(replacement)
		rest = rest[end:]
	}

	return b.String()
}

func continuesIdentifier(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return false
	}

	return r == '_' || r == '$' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
