package domain

// Rewriter applies a rule table to the full text of one file.
type Rewriter interface {
	// Rewrite returns the rewritten text and whether it differs from text.
	Rewrite(text string) (string, bool)
	// RewriteDetailed also returns the identifiers whose patterns changed the
	// text, in table order.
	RewriteDetailed(text string) (string, []string)
}

type rewriter struct {
	matchers []*Matcher
}

// NewRewriter builds one Matcher per rule, in table order.
func NewRewriter(table *RuleTable, sourceDir string) Rewriter {
	rules := table.Rules()
	matchers := make([]*Matcher, 0, len(rules))

	for _, rule := range rules {
		matchers = append(matchers, NewMatcher(sourceDir, rule))
	}

	return &rewriter{matchers: matchers}
}

func (r *rewriter) Rewrite(text string) (string, bool) {
	out, _ := r.RewriteDetailed(text)
	return out, out != text
}

func (r *rewriter) RewriteDetailed(text string) (string, []string) {
	var fired []string

	for _, matcher := range r.matchers {
		next := matcher.Apply(text)
		if next != text {
			fired = append(fired, matcher.Rule().Identifier)
			text = next
		}
	}

	return text, fired
}
