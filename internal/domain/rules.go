// Package domain implements the import rewrite: rule table, pattern matching,
// the safe two-step commit and the workflow tying them to a source tree.
package domain

import (
	"fmt"
	"strings"
	"unicode"

	m "reimport.dev/pkg/reimport/internal/model"
)

// DefaultRules returns the built-in relocation table.
func DefaultRules() []m.Rule {
	return []m.Rule{
		{Identifier: "FuelConsumptionDashboard", Target: "pages/Fuel/FuelConsumptionDashboard"},
		{Identifier: "EmptyState", Target: "components/shared/EmptyState"},
		{Identifier: "AdminDashboard", Target: "pages/Admin/AdminDashboard"},
		{Identifier: "ComparisonDashboard", Target: "pages/Compare/ComparisonDashboard"},
		{Identifier: "CompareDialog", Target: "components/shared/CompareDialog"},
		{Identifier: "HelpDialog", Target: "components/shared/HelpDialog"},
		{Identifier: "ChatHistory", Target: "components/chat/ChatHistory"},
		{Identifier: "ChatInput", Target: "components/chat/ChatInput"},
		{Identifier: "SettingsDialog", Target: "components/shared/SettingsDialog"},
		{Identifier: "ChatBot", Target: "components/chat/ChatBot"},
		{Identifier: "RegisterForm", Target: "components/auth/RegisterForm"},
		{Identifier: "LoginForm", Target: "components/auth/LoginForm"},
	}
}

// RuleTable is an ordered, immutable set of rules keyed by identifier.
type RuleTable struct {
	rules []m.Rule
	index map[string]string
}

// NewRuleTable validates rules and builds a table. A repeated identifier is
// rejected rather than silently overwritten.
func NewRuleTable(rules []m.Rule) (*RuleTable, error) {
	table := &RuleTable{
		rules: make([]m.Rule, 0, len(rules)),
		index: make(map[string]string, len(rules)),
	}

	for i, rule := range rules {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}

		if _, dup := table.index[rule.Identifier]; dup {
			return nil, fmt.Errorf("rule %d: %w: %q", i+1, ErrDuplicateRule, rule.Identifier)
		}

		table.index[rule.Identifier] = rule.Target
		table.rules = append(table.rules, rule)
	}

	return table, nil
}

// DefaultRuleTable builds the table from DefaultRules.
func DefaultRuleTable() *RuleTable {
	table, err := NewRuleTable(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("default rules are invalid: %v", err))
	}

	return table
}

// Lookup returns the target for an exact, case-sensitive identifier.
func (t *RuleTable) Lookup(identifier string) (string, bool) {
	target, ok := t.index[identifier]
	return target, ok
}

// Rules returns a copy of the rules in declaration order.
func (t *RuleTable) Rules() []m.Rule {
	out := make([]m.Rule, len(t.rules))
	copy(out, t.rules)

	return out
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

func validateRule(rule m.Rule) error {
	if rule.Identifier == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidRule)
	}

	if strings.ContainsAny(rule.Identifier, `/\'"`+"`") || strings.IndexFunc(rule.Identifier, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: identifier %q must be a bare module name", ErrInvalidRule, rule.Identifier)
	}

	target := rule.Target
	if target == "" {
		return fmt.Errorf("%w: empty target for %q", ErrInvalidRule, rule.Identifier)
	}

	if strings.ContainsAny(target, `\'"`+"`") || strings.IndexFunc(target, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: target %q contains quotes or whitespace", ErrInvalidRule, target)
	}

	if strings.HasPrefix(target, "/") || strings.HasSuffix(target, "/") {
		return fmt.Errorf("%w: target %q must be a relative path without leading or trailing slash", ErrInvalidRule, target)
	}

	for _, segment := range strings.Split(target, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: target %q has an empty or dot segment", ErrInvalidRule, target)
		}
	}

	return nil
}
