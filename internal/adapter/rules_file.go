package adapter

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "reimport.dev/pkg/reimport/internal/model"
)

// ErrRulesFormat is returned when a rules file is not a flat mapping of
// identifier to target path.
var ErrRulesFormat = errors.New("rules file must be a mapping of identifier to import path")

// ErrDuplicateKey is returned when a rules file names the same identifier twice.
var ErrDuplicateKey = errors.New("duplicate identifier")

// RulesLoader reads rule definitions from an external file.
type RulesLoader interface {
	LoadRules(path m.Path) ([]m.Rule, error)
}

// YAMLRulesLoader reads a YAML mapping such as
//
//	EmptyState: components/shared/EmptyState
//	ChatBot: components/chat/ChatBot
//
// keeping declaration order.
type YAMLRulesLoader struct{}

// NewRulesLoader returns a YAML RulesLoader.
func NewRulesLoader() *YAMLRulesLoader {
	return &YAMLRulesLoader{}
}

// LoadRules parses the file at path.
func (l *YAMLRulesLoader) LoadRules(path m.Path) ([]m.Rule, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes a YAML rules mapping. yaml.Node is used instead of a Go
// map so the declaration order survives and duplicates can be reported by line.
func ParseRules(data []byte) ([]m.Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	if doc.Kind == 0 {
		return nil, nil
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, ErrRulesFormat
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, ErrRulesFormat
	}

	rules := make([]m.Rule, 0, len(mapping.Content)/2)
	seen := make(map[string]int, len(mapping.Content)/2)

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w", key.Line, ErrRulesFormat)
		}

		if line, dup := seen[key.Value]; dup {
			return nil, fmt.Errorf("line %d: %w %q (first defined on line %d)", key.Line, ErrDuplicateKey, key.Value, line)
		}

		seen[key.Value] = key.Line
		rules = append(rules, m.Rule{Identifier: key.Value, Target: value.Value})
	}

	return rules, nil
}
