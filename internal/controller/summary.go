package controller

import (
	"fmt"

	m "reimport.dev/pkg/reimport/internal/model"
)

// summary is the presentation-neutral view of a RunResult.
type summary struct {
	dryRun       bool
	scanned      int
	changed      []string
	hiddenChange int
	failures     []failureLine
	hiddenFail   int
	failedCount  int
	incomplete   int
}

type failureLine struct {
	incomplete bool
	text       string
}

func buildSummary(result m.RunResult, limit int) summary {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	changed := result.Changed()
	failed := result.Failed()

	s := summary{
		dryRun:      result.DryRun,
		scanned:     result.Scanned(),
		failedCount: len(failed),
		incomplete:  len(result.Incomplete()),
	}

	for i, outcome := range changed {
		if i >= limit {
			s.hiddenChange = len(changed) - limit
			break
		}

		s.changed = append(s.changed, string(outcome.Path))
	}

	for i, outcome := range failed {
		if i >= limit {
			s.hiddenFail = len(failed) - limit
			break
		}

		s.failures = append(s.failures, describeFailure(outcome))
	}

	return s
}

func describeFailure(outcome m.FileOutcome) failureLine {
	if outcome.Status == m.StatusIncomplete {
		return failureLine{
			incomplete: true,
			text:       fmt.Sprintf("%s: backed up to %s but not rewritten: %v", outcome.Path, outcome.Backup, outcome.Err),
		}
	}

	return failureLine{text: fmt.Sprintf("%s: %v", outcome.Path, outcome.Err)}
}

func (s summary) changedHeading() string {
	if s.dryRun {
		return fmt.Sprintf("Files that would change: %d", len(s.changed)+s.hiddenChange)
	}

	return fmt.Sprintf("Files changed: %d", len(s.changed)+s.hiddenChange)
}

func (s summary) failedHeading() string {
	if s.incomplete > 0 {
		return fmt.Sprintf("Files with errors: %d (%d backed up but not rewritten)", s.failedCount, s.incomplete)
	}

	return fmt.Sprintf("Files with errors: %d", s.failedCount)
}

func (s summary) totalsLine() string {
	changed := len(s.changed) + s.hiddenChange
	unchanged := s.scanned - changed - s.failedCount

	return fmt.Sprintf("Scanned %d file(s): %d changed, %d unchanged, %d failed", s.scanned, changed, unchanged, s.failedCount)
}

func moreLine(hidden int) string {
	return fmt.Sprintf("... and %d more", hidden)
}
