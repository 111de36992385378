package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "reimport.dev/pkg/reimport/internal/model"
)

var chatBotRule = m.Rule{Identifier: "ChatBot", Target: "components/chat/ChatBot"}

func applyForm(t *testing.T, matcher *Matcher, form Form, text string) string {
	t.Helper()

	for _, pattern := range matcher.Patterns() {
		if pattern.Form == form {
			return pattern.Apply(text)
		}
	}

	require.Failf(t, "form not found", "%s", form)

	return ""
}

func TestMatcher_PatternOrder(t *testing.T) {
	matcher := NewMatcher(DefaultSourceDir, chatBotRule)

	var forms []Form
	for _, pattern := range matcher.Patterns() {
		forms = append(forms, pattern.Form)
	}

	assert.Equal(t, Forms, forms)
	assert.Equal(t, chatBotRule, matcher.Rule())
}

func TestMatcher_AbsoluteForm(t *testing.T) {
	matcher := NewMatcher(DefaultSourceDir, chatBotRule)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single quotes", "import ChatBot from '/src/components/ChatBot';", "import ChatBot from 'components/chat/ChatBot';"},
		{"double quotes", `import ChatBot from "/src/components/ChatBot";`, "import ChatBot from 'components/chat/ChatBot';"},
		{"extra whitespace", "import ChatBot from \t '/src/components/ChatBot'", "import ChatBot from 'components/chat/ChatBot'"},
		{"every occurrence", "from '/src/components/ChatBot'\nfrom '/src/components/ChatBot'\n", "from 'components/chat/ChatBot'\nfrom 'components/chat/ChatBot'\n"},
		{"other source dir", "from '/app/components/ChatBot'", "from '/app/components/ChatBot'"},
		{"longer identifier", "from '/src/components/ChatBotLegacy'", "from '/src/components/ChatBotLegacy'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyForm(t, matcher, FormAbsolute, tt.in))
		})
	}
}

func TestMatcher_AbsoluteFormCustomSourceDir(t *testing.T) {
	matcher := NewMatcher("/app/", chatBotRule)

	assert.Equal(t, "from 'components/chat/ChatBot'", applyForm(t, matcher, FormAbsolute, "from '/app/components/ChatBot'"))
	assert.Equal(t, "from '/src/components/ChatBot'", applyForm(t, matcher, FormAbsolute, "from '/src/components/ChatBot'"))
}

func TestMatcher_RelativeForm(t *testing.T) {
	matcher := NewMatcher(DefaultSourceDir, chatBotRule)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"one hop", "from '../components/ChatBot'", "from 'components/chat/ChatBot'"},
		{"three hops", `from "../../../components/ChatBot"`, "from 'components/chat/ChatBot'"},
		{"same directory is not relative", "from './components/ChatBot'", "from './components/ChatBot'"},
		{"longer identifier", "from '../components/ChatBotLegacy'", "from '../components/ChatBotLegacy'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyForm(t, matcher, FormRelative, tt.in))
		})
	}
}

func TestMatcher_PathForm(t *testing.T) {
	matcher := NewMatcher(DefaultSourceDir, chatBotRule)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dynamic import", "import('./components/ChatBot')", "import('./components/chat/ChatBot')"},
		{"nested file", "require('/src/components/ChatBot/index')", "require('/src/components/chat/ChatBot/index')"},
		{"already rewritten", "import('./components/chat/ChatBot')", "import('./components/chat/ChatBot')"},
		{"identifier continues", "'/components/ChatBotX'", "'/components/ChatBotX'"},
		{"identifier continues with dash", "'/components/ChatBot-v2'", "'/components/ChatBot-v2'"},
		{"no leading slash", "'components/ChatBot'", "'components/ChatBot'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyForm(t, matcher, FormPath, tt.in))
		})
	}
}

func TestMatcher_BarrelImportIsLeftAlone(t *testing.T) {
	matcher := NewMatcher(DefaultSourceDir, chatBotRule)

	text := "import { ChatBot } from '/src/components';\nimport { ChatBot as Bot } from '../components';\n"
	assert.Equal(t, text, matcher.Apply(text))
}

func TestMatcher_SelfPrefixedTargetIsIdempotent(t *testing.T) {
	rule := m.Rule{Identifier: "Button", Target: "components/Button/Button"}
	matcher := NewMatcher(DefaultSourceDir, rule)

	once := matcher.Apply("import('../x/components/Button')")
	assert.Equal(t, "import('../x/components/Button/Button')", once)
	assert.Equal(t, once, matcher.Apply(once))
}
