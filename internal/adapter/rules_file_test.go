package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "reimport.dev/pkg/reimport/internal/model"
)

func TestParseRules(t *testing.T) {
	t.Run("keeps declaration order and case", func(t *testing.T) {
		rules, err := ParseRules([]byte("ChatBot: components/chat/ChatBot\nchatbot: lib/lower\nEmptyState: components/shared/EmptyState\n"))
		require.NoError(t, err)

		assert.Equal(t, []m.Rule{
			{Identifier: "ChatBot", Target: "components/chat/ChatBot"},
			{Identifier: "chatbot", Target: "lib/lower"},
			{Identifier: "EmptyState", Target: "components/shared/EmptyState"},
		}, rules)
	})

	t.Run("empty document", func(t *testing.T) {
		rules, err := ParseRules(nil)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("duplicate identifier reports both lines", func(t *testing.T) {
		_, err := ParseRules([]byte("A: lib/A\nB: lib/B\nA: lib/other\n"))
		require.ErrorIs(t, err, ErrDuplicateKey)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), "first defined on line 1")
	})

	t.Run("sequence is rejected", func(t *testing.T) {
		_, err := ParseRules([]byte("- A\n- B\n"))
		require.ErrorIs(t, err, ErrRulesFormat)
	})

	t.Run("nested value is rejected", func(t *testing.T) {
		_, err := ParseRules([]byte("A:\n  to: lib/A\n"))
		require.ErrorIs(t, err, ErrRulesFormat)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseRules([]byte("A: [\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse rules file")
	})
}

func TestYAMLRulesLoader_LoadRules(t *testing.T) {
	loader := NewRulesLoader()
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Widget: lib/widgets/Widget\n"), 0o600))

	rules, err := loader.LoadRules(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, []m.Rule{{Identifier: "Widget", Target: "lib/widgets/Widget"}}, rules)

	_, err = loader.LoadRules(m.Path(filepath.Join(dir, "missing.yaml")))
	require.ErrorIs(t, err, os.ErrNotExist)
}
