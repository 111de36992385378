package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "reimport.dev/pkg/reimport/internal/model"
)

func TestDefaultRuleTable(t *testing.T) {
	table := DefaultRuleTable()

	assert.Equal(t, 12, table.Len())
	assert.Equal(t, DefaultRules(), table.Rules())

	target, ok := table.Lookup("FuelConsumptionDashboard")
	require.True(t, ok)
	assert.Equal(t, "pages/Fuel/FuelConsumptionDashboard", target)
}

func TestRuleTable_LookupIsExactAndCaseSensitive(t *testing.T) {
	table := DefaultRuleTable()

	for _, id := range []string{"chatbot", "CHATBOT", "ChatBotX", "Chat", " ChatBot"} {
		_, ok := table.Lookup(id)
		assert.False(t, ok, id)
	}
}

func TestRuleTable_RulesReturnsCopy(t *testing.T) {
	table := DefaultRuleTable()

	rules := table.Rules()
	rules[0].Target = "changed"

	assert.Equal(t, "pages/Fuel/FuelConsumptionDashboard", table.Rules()[0].Target)
}

func TestNewRuleTable_Duplicate(t *testing.T) {
	_, err := NewRuleTable([]m.Rule{
		{Identifier: "A", Target: "lib/A"},
		{Identifier: "B", Target: "lib/B"},
		{Identifier: "A", Target: "lib/other"},
	})

	require.ErrorIs(t, err, ErrDuplicateRule)
	assert.Contains(t, err.Error(), "rule 3")
}

func TestNewRuleTable_Empty(t *testing.T) {
	table, err := NewRuleTable(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestNewRuleTable_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rule m.Rule
	}{
		{"empty identifier", m.Rule{Identifier: "", Target: "lib/A"}},
		{"identifier with slash", m.Rule{Identifier: "shared/A", Target: "lib/A"}},
		{"identifier with quote", m.Rule{Identifier: "A'", Target: "lib/A"}},
		{"identifier with space", m.Rule{Identifier: "A B", Target: "lib/A"}},
		{"empty target", m.Rule{Identifier: "A", Target: ""}},
		{"target with quote", m.Rule{Identifier: "A", Target: "lib/'A"}},
		{"target with space", m.Rule{Identifier: "A", Target: "lib/ A"}},
		{"absolute target", m.Rule{Identifier: "A", Target: "/lib/A"}},
		{"trailing slash", m.Rule{Identifier: "A", Target: "lib/A/"}},
		{"double slash", m.Rule{Identifier: "A", Target: "lib//A"}},
		{"parent segment", m.Rule{Identifier: "A", Target: "../lib/A"}},
		{"dot segment", m.Rule{Identifier: "A", Target: "lib/./A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleTable([]m.Rule{tt.rule})
			require.ErrorIs(t, err, ErrInvalidRule)
			assert.Contains(t, err.Error(), "rule 1")
		})
	}
}
