// Package controller provides output adapters for displaying rewrite results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "reimport.dev/pkg/reimport/internal/model"
)

// DefaultSummaryLimit is how many paths a summary lists per section.
const DefaultSummaryLimit = 50

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModePlan
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   StartMode
	dryRun bool
}

// WithRunMode sets the UI to rewrite mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithPlanMode sets the UI to plan (diff preview) mode.
func WithPlanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModePlan
	}
}

// WithDryRun marks the run as not committing anything.
func WithDryRun(dryRun bool) StartOption {
	return func(c *StartConfig) {
		c.dryRun = dryRun
	}
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines how the workflow reports progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
// DisplayFileOutcome may be called from several goroutines.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayScan(ctx context.Context, root m.Path, files int)
	DisplayFileOutcome(ctx context.Context, outcome m.FileOutcome)
	DisplaySummary(ctx context.Context, result m.RunResult, limit int) error
	DisplayPlan(ctx context.Context, previews []m.Preview) error
	DisplayRules(ctx context.Context, rules []m.Rule) error
}

// NewUI picks the interactive UI for terminals and plain text otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
