package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	m "reimport.dev/pkg/reimport/internal/model"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	changedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	incompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle      = lipgloss.NewStyle().Faint(true)
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// TUI implements UI using Bubble Tea for live progress and lipgloss for the
// final output.
type TUI struct {
	output  io.Writer
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress spinner.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	cfg := newStartConfig(options)
	t.program = tea.NewProgram(
		newProgressModel(cfg),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)
	t.done = make(chan struct{})

	program, done := t.program, t.done

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("Progress view stopped", "error", err)
		}
	}()

	return nil
}

// Close stops the progress view if it is still running.
func (t *TUI) Close(_ context.Context) {
	t.stop()
}

func (t *TUI) stop() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(finishedMsg{})
	<-done
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// DisplayScan updates the total in the progress view.
func (t *TUI) DisplayScan(_ context.Context, root m.Path, files int) {
	t.send(scanMsg{root: string(root), total: files})
}

// DisplayFileOutcome advances the progress view.
func (t *TUI) DisplayFileOutcome(_ context.Context, outcome m.FileOutcome) {
	t.send(outcomeMsg{outcome: outcome})
}

// DisplaySummary stops the progress view and prints the styled summary.
func (t *TUI) DisplaySummary(ctx context.Context, result m.RunResult, limit int) error {
	t.stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(t.output, renderStyledSummary(buildSummary(result, limit)))

	return err
}

// DisplayPlan prints colored diffs.
func (t *TUI) DisplayPlan(ctx context.Context, previews []m.Preview) error {
	t.stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	for _, preview := range previews {
		b.WriteString(titleStyle.Render(string(preview.Path)))
		b.WriteString(" " + faintStyle.Render("("+strings.Join(preview.Rules, ", ")+")") + "\n")
		b.WriteString(colorDiff(preview.Diff))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d file(s) would change", len(previews))) + "\n")

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayRules prints the rule table.
func (t *TUI) DisplayRules(ctx context.Context, rules []m.Rule) error {
	t.stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, []string{rule.Identifier, rule.Target})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Identifier", "Import Path").
		Rows(rows...)

	_, err := fmt.Fprintf(t.output, "%s\n%s\n", tbl.String(), faintStyle.Render(fmt.Sprintf("%d rule(s)", len(rules))))

	return err
}

func renderStyledSummary(sum summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(sum.changedHeading()) + "\n")

	for _, path := range sum.changed {
		b.WriteString(changedStyle.Render("- "+path) + "\n")
	}

	if sum.hiddenChange > 0 {
		b.WriteString(faintStyle.Render(moreLine(sum.hiddenChange)) + "\n")
	}

	if sum.failedCount > 0 {
		b.WriteString(titleStyle.Render(sum.failedHeading()) + "\n")

		for _, failure := range sum.failures {
			if failure.incomplete {
				b.WriteString(incompleteStyle.Render("!! "+failure.text) + "\n")
				continue
			}

			b.WriteString(failedStyle.Render("! "+failure.text) + "\n")
		}

		if sum.hiddenFail > 0 {
			b.WriteString(faintStyle.Render(moreLine(sum.hiddenFail)) + "\n")
		}
	}

	b.WriteString(faintStyle.Render(sum.totalsLine()) + "\n")

	return b.String()
}

func colorDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")

	var b strings.Builder

	for _, line := range lines {
		if line == "" {
			continue
		}

		body := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(faintStyle.Render(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(hunkStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(addedStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(removedStyle.Render(body))
		default:
			b.WriteString(body)
		}

		b.WriteString("\n")
	}

	return b.String()
}

type scanMsg struct {
	root  string
	total int
}

type outcomeMsg struct {
	outcome m.FileOutcome
}

type finishedMsg struct{}

// progressModel is the Bubble Tea model shown while files are processed.
type progressModel struct {
	spinner   spinner.Model
	mode      StartMode
	dryRun    bool
	root      string
	total     int
	processed int
	changed   int
	failed    int
	current   string
	finished  bool
}

func newProgressModel(cfg StartConfig) progressModel {
	return progressModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		mode:    cfg.mode,
		dryRun:  cfg.dryRun,
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanMsg:
		pm.root = msg.root
		pm.total = msg.total

		return pm, nil

	case outcomeMsg:
		pm.processed++
		pm.current = string(msg.outcome.Path)

		switch msg.outcome.Status {
		case m.StatusChanged:
			pm.changed++
		case m.StatusFailed, m.StatusIncomplete:
			pm.failed++
		case m.StatusUnchanged:
		}

		return pm, nil

	case finishedMsg:
		pm.finished = true
		return pm, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	if pm.finished {
		return ""
	}

	verb := "Rewriting"
	if pm.mode == ModePlan || pm.dryRun {
		verb = "Checking"
	}

	if pm.total == 0 && pm.processed == 0 {
		return fmt.Sprintf("%s Scanning %s\n", pm.spinner.View(), pm.root)
	}

	line := fmt.Sprintf("%s %s %d/%d  %s  %s\n",
		pm.spinner.View(), verb, pm.processed, pm.total,
		changedStyle.Render(fmt.Sprintf("%d changed", pm.changed)),
		failedStyle.Render(fmt.Sprintf("%d failed", pm.failed)),
	)

	if pm.current != "" {
		line += faintStyle.Render("  "+pm.current) + "\n"
	}

	return line
}
