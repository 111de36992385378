package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"reimport.dev/pkg/reimport/internal/adapter"
	"reimport.dev/pkg/reimport/internal/controller"
	m "reimport.dev/pkg/reimport/internal/model"
)

const reportVersion = 1

// ScanArgs selects the candidate files.
type ScanArgs struct {
	Root       m.Path
	Extensions []string
	Exclude    []string
}

// RunArgs contains the arguments for a rewrite run.
type RunArgs struct {
	ScanArgs
	DryRun  bool
	Threads int
	Report  m.Path
	Limit   int
}

// Workflow defines the user-facing operations.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) (m.RunResult, error)
	Plan(ctx context.Context, args ScanArgs) ([]m.Preview, error)
	Rules(ctx context.Context) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Rewriter
	SafeWriter
	table *RuleTable
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	table *RuleTable,
	rewriter Rewriter,
	writer SafeWriter,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Rewriter:        rewriter,
		SafeWriter:      writer,
		table:           table,
	}
}

// Run rewrites every candidate under args.Root. Per-file failures never stop
// the run; they are reported in the result and make Run return
// ErrRunHadFailures after the summary has been displayed.
func (w *workflow) Run(ctx context.Context, args RunArgs) (m.RunResult, error) {
	if err := w.Start(ctx, controller.WithRunMode(), controller.WithDryRun(args.DryRun)); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return m.RunResult{}, err
	}
	defer w.Close(ctx)

	scan, err := w.scan(ctx, args.ScanArgs)
	if err != nil {
		return m.RunResult{}, err
	}

	w.DisplayScan(ctx, args.Root, len(scan.Files))
	slog.Info("Starting rewrite", "root", args.Root, "files", len(scan.Files), "rules", w.table.Len(), "dryRun", args.DryRun, "threads", args.Threads)

	outcomes, runErr := w.processAll(ctx, scan.Files, args)

	for _, scanErr := range scan.Errors {
		outcomes = append(outcomes, m.FileOutcome{Path: scanErr.Path, Status: m.StatusFailed, Err: scanErr.Err})
	}

	result := m.RunResult{Outcomes: outcomes, DryRun: args.DryRun}

	slog.Info("Rewrite finished",
		"changed", len(result.Changed()),
		"failed", len(result.Failed()),
		"incomplete", len(result.Incomplete()),
	)

	// An interrupted run still lists what it already rewrote.
	reportCtx := context.WithoutCancel(ctx)

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}

	if err := w.DisplaySummary(reportCtx, result, args.Limit); err != nil {
		errs = append(errs, fmt.Errorf("display summary: %w", err))
	}

	if args.Report != "" {
		if err := w.SaveReport(args.Report, w.buildReport(args, result)); err != nil {
			slog.Error("Failed to save report", "path", args.Report, "error", err)
			errs = append(errs, fmt.Errorf("save report: %w", err))
		}
	}

	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}

	if failed := len(result.Failed()); failed > 0 {
		return result, fmt.Errorf("%d file(s): %w", failed, ErrRunHadFailures)
	}

	return result, nil
}

func (w *workflow) scan(ctx context.Context, args ScanArgs) (adapter.ScanResult, error) {
	scan, err := w.Scan(ctx, args.Root, args.Extensions, args.Exclude...)
	if err != nil {
		slog.Error("Failed to scan source tree", "root", args.Root, "error", err)

		if errors.Is(err, adapter.ErrNotDirectory) {
			return adapter.ScanResult{}, fmt.Errorf("scan %s: %w", args.Root, ErrRootNotDirectory)
		}

		return adapter.ScanResult{}, fmt.Errorf("scan %s: %w", args.Root, err)
	}

	return scan, nil
}

// processAll handles files one at a time by default. With Threads > 1 files
// are spread over workers; every path belongs to exactly one worker, and the
// results keep scan order. Cancellation stops new files from being started.
func (w *workflow) processAll(ctx context.Context, files []m.Path, args RunArgs) ([]m.FileOutcome, error) {
	outcomes := make([]m.FileOutcome, len(files))
	started := make([]bool, len(files))

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	group.SetLimit(threads)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			outcome := w.processFile(groupCtx, path, args.DryRun)

			mu.Lock()
			outcomes[i] = outcome
			started[i] = true
			mu.Unlock()

			w.DisplayFileOutcome(groupCtx, outcome)

			return nil
		})
	}

	err := group.Wait()

	processed := make([]m.FileOutcome, 0, len(files))

	for i, ok := range started {
		if ok {
			processed = append(processed, outcomes[i])
		}
	}

	if err == nil && len(processed) < len(files) {
		err = ctx.Err()
	}

	if err != nil {
		slog.Warn("Rewrite interrupted", "processed", len(processed), "total", len(files), "error", err)
		return processed, fmt.Errorf("interrupted after %d of %d file(s): %w", len(processed), len(files), err)
	}

	return processed, nil
}

func (w *workflow) processFile(ctx context.Context, path m.Path, dryRun bool) m.FileOutcome {
	file, err := w.readCandidate(ctx, path)
	if err != nil {
		slog.Warn("Skipping unreadable file", "path", path, "error", err)
		return m.FileOutcome{Path: path, Status: m.StatusFailed, Err: err}
	}

	newText, fired := w.RewriteDetailed(file.Text)
	if newText == file.Text {
		slog.Debug("No matching imports", "path", path)
		return m.FileOutcome{Path: path, Status: m.StatusUnchanged}
	}

	outcome := m.FileOutcome{Path: path, Status: m.StatusChanged, Rules: fired}

	if dryRun {
		slog.Debug("Would rewrite", "path", path, "rules", fired)
		return outcome
	}

	commit := w.Commit(ctx, file, newText)
	outcome.State = commit.State
	outcome.Backup = commit.Backup
	outcome.Err = commit.Err

	switch commit.State {
	case m.StateCommitted:
		slog.Info("Rewrote file", "path", path, "backup", commit.Backup, "rules", fired)
	case m.StateBackedUp:
		outcome.Status = m.StatusIncomplete
	case m.StateUnmodified:
		outcome.Status = m.StatusFailed
	}

	return outcome
}

// readCandidate reads path once and rejects content that is not text.
func (w *workflow) readCandidate(ctx context.Context, path m.Path) (m.CandidateFile, error) {
	info, err := w.FileInfo(ctx, path)
	if err != nil {
		return m.CandidateFile{}, fmt.Errorf("stat: %w", err)
	}

	data, err := w.ReadFile(ctx, path)
	if err != nil {
		return m.CandidateFile{}, fmt.Errorf("read: %w", err)
	}

	if !utf8.Valid(data) {
		return m.CandidateFile{}, ErrNotText
	}

	return m.CandidateFile{Path: path, Text: string(data), Mode: info.Mode()}, nil
}

// Plan computes the diffs a run would produce without touching any file.
func (w *workflow) Plan(ctx context.Context, args ScanArgs) ([]m.Preview, error) {
	if err := w.Start(ctx, controller.WithPlanMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return nil, err
	}
	defer w.Close(ctx)

	scan, err := w.scan(ctx, args)
	if err != nil {
		return nil, err
	}

	w.DisplayScan(ctx, args.Root, len(scan.Files))

	var (
		previews []m.Preview
		failed   int
		errs     []error
	)

	for i, path := range scan.Files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("interrupted after %d of %d file(s): %w", i, len(scan.Files), err))
			break
		}

		outcome, preview := w.previewFile(ctx, args.Root, path)
		w.DisplayFileOutcome(ctx, outcome)

		if outcome.Status == m.StatusFailed {
			failed++
		}

		if preview != nil {
			previews = append(previews, *preview)
		}
	}

	for _, scanErr := range scan.Errors {
		w.DisplayFileOutcome(ctx, m.FileOutcome{Path: scanErr.Path, Status: m.StatusFailed, Err: scanErr.Err})
		failed++
	}

	if err := w.DisplayPlan(context.WithoutCancel(ctx), previews); err != nil {
		errs = append(errs, fmt.Errorf("display plan: %w", err))
	}

	if len(errs) > 0 {
		return previews, errors.Join(errs...)
	}

	if failed > 0 {
		return previews, fmt.Errorf("%d file(s): %w", failed, ErrRunHadFailures)
	}

	return previews, nil
}

func (w *workflow) previewFile(ctx context.Context, root, path m.Path) (m.FileOutcome, *m.Preview) {
	file, err := w.readCandidate(ctx, path)
	if err != nil {
		slog.Warn("Skipping unreadable file", "path", path, "error", err)
		return m.FileOutcome{Path: path, Status: m.StatusFailed, Err: err}, nil
	}

	newText, fired := w.RewriteDetailed(file.Text)
	if newText == file.Text {
		return m.FileOutcome{Path: path, Status: m.StatusUnchanged}, nil
	}

	name, err := w.RelPath(root, path)
	if err != nil {
		name = path
	}

	diff, err := UnifiedDiff(string(name), file.Text, newText)
	if err != nil {
		slog.Warn("Failed to render diff", "path", path, "error", err)
	}

	outcome := m.FileOutcome{Path: path, Status: m.StatusChanged, Rules: fired}

	return outcome, &m.Preview{Path: path, Rules: fired, Diff: diff}
}

// Rules displays the active rule table.
func (w *workflow) Rules(ctx context.Context) error {
	return w.DisplayRules(ctx, w.table.Rules())
}

func (w *workflow) buildReport(args RunArgs, result m.RunResult) m.RunReport {
	report := m.RunReport{
		Version: reportVersion,
		Root:    args.Root,
		DryRun:  args.DryRun,
		Suffix:  w.Suffix(),
		Changed: []m.ReportEntry{},
		Totals: map[string]int{
			"scanned":    result.Scanned(),
			"changed":    len(result.Changed()),
			"failed":     len(result.Failed()),
			"incomplete": len(result.Incomplete()),
		},
	}

	for _, outcome := range result.Outcomes {
		entry := m.ReportEntry{
			Path:   outcome.Path,
			Backup: outcome.Backup,
			State:  outcome.State.String(),
			Rules:  outcome.Rules,
		}

		if outcome.Err != nil {
			entry.Error = outcome.Err.Error()
		}

		switch outcome.Status {
		case m.StatusChanged:
			report.Changed = append(report.Changed, entry)
		case m.StatusFailed, m.StatusIncomplete:
			report.Failed = append(report.Failed, entry)
		case m.StatusUnchanged:
		}
	}

	return report
}
