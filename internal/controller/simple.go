package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "reimport.dev/pkg/reimport/internal/model"
)

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayScan prints how many candidate files were found.
func (s *SimpleUI) DisplayScan(ctx context.Context, root m.Path, files int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Scanning %d file(s) under %s\n", files, root)
}

// DisplayFileOutcome reports failures as soon as they happen. Successful
// files only show up in the summary.
func (s *SimpleUI) DisplayFileOutcome(_ context.Context, outcome m.FileOutcome) {
	if outcome.Status != m.StatusFailed && outcome.Status != m.StatusIncomplete {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "error: %s\n", describeFailure(outcome).text)
}

// DisplaySummary prints the changed count, up to limit changed paths and the
// files that errored.
func (s *SimpleUI) DisplaySummary(ctx context.Context, result m.RunResult, limit int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sum := buildSummary(result, limit)

	var b strings.Builder

	b.WriteString(sum.changedHeading() + "\n")

	for _, path := range sum.changed {
		b.WriteString("- " + path + "\n")
	}

	if sum.hiddenChange > 0 {
		b.WriteString(moreLine(sum.hiddenChange) + "\n")
	}

	if sum.failedCount > 0 {
		b.WriteString(sum.failedHeading() + "\n")

		for _, failure := range sum.failures {
			marker := "!"
			if failure.incomplete {
				marker = "!!"
			}

			b.WriteString(marker + " " + failure.text + "\n")
		}

		if sum.hiddenFail > 0 {
			b.WriteString(moreLine(sum.hiddenFail) + "\n")
		}
	}

	b.WriteString(sum.totalsLine() + "\n")

	return s.write(b.String())
}

// DisplayPlan prints a unified diff for every file that would change.
func (s *SimpleUI) DisplayPlan(ctx context.Context, previews []m.Preview) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	for _, preview := range previews {
		fmt.Fprintf(&b, "# %s (rules: %s)\n", preview.Path, strings.Join(preview.Rules, ", "))
		b.WriteString(preview.Diff)

		if !strings.HasSuffix(preview.Diff, "\n") {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "%d file(s) would change\n", len(previews))

	return s.write(b.String())
}

// DisplayRules prints the rule table.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []m.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.write(renderRulesTable(rules))
}

func renderRulesTable(rules []m.Rule) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Identifier", "Import Path"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, rule := range rules {
		table.Append([]string{rule.Identifier, rule.Target})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Rules %d", len(rules)), ""})
	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) write(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprint(s.cmd.OutOrStdout(), text)

	return err
}
