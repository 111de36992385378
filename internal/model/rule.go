package model

// Rule maps the bare name of a relocated module to the relative import path
// it moved to.
type Rule struct {
	Identifier string `yaml:"from" mapstructure:"from"`
	Target     string `yaml:"to" mapstructure:"to"`
}
