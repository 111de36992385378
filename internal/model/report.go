package model

// CommitState tracks how far a changed file got through the two-step commit.
type CommitState int

const (
	// StateUnmodified means the original file has not been touched.
	StateUnmodified CommitState = iota
	// StateBackedUp means the original was renamed to its backup location but
	// the rewritten content is not at the original path yet.
	StateBackedUp
	// StateCommitted means the backup exists and the original path holds the
	// rewritten content.
	StateCommitted
)

func (s CommitState) String() string {
	switch s {
	case StateUnmodified:
		return "unmodified"
	case StateBackedUp:
		return "backed_up"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// CommitOutcome is what the safe writer reports for one file.
type CommitOutcome struct {
	State  CommitState
	Backup Path
	Err    error
}

// FileStatus classifies the result of processing one candidate file.
type FileStatus int

const (
	// StatusUnchanged indicates no rule matched the file.
	StatusUnchanged FileStatus = iota
	// StatusChanged indicates the file was rewritten (or would be, in a dry run).
	StatusChanged
	// StatusFailed indicates the file could not be read or backed up. Its
	// content is untouched.
	StatusFailed
	// StatusIncomplete indicates the original was backed up but the rewritten
	// content could not be written.
	StatusIncomplete
)

func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "changed"
	case StatusFailed:
		return "failed"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// FileOutcome holds the result for a single candidate file.
type FileOutcome struct {
	Path   Path
	Status FileStatus
	State  CommitState
	Backup Path     // set once the original has been renamed
	Rules  []string // identifiers whose patterns fired
	Err    error
}

// RunResult lists every processed file in the order the scan produced them.
type RunResult struct {
	Outcomes []FileOutcome
	DryRun   bool
}

// Changed returns the outcomes of files whose content changed, in order.
func (r RunResult) Changed() []FileOutcome {
	return r.filter(StatusChanged)
}

// Failed returns outcomes for files that errored, including incomplete ones.
func (r RunResult) Failed() []FileOutcome {
	return r.filter(StatusFailed, StatusIncomplete)
}

// Incomplete returns outcomes for files left in the backed-up state.
func (r RunResult) Incomplete() []FileOutcome {
	return r.filter(StatusIncomplete)
}

// Scanned returns the number of processed files.
func (r RunResult) Scanned() int {
	return len(r.Outcomes)
}

func (r RunResult) filter(statuses ...FileStatus) []FileOutcome {
	var out []FileOutcome

	for _, outcome := range r.Outcomes {
		for _, status := range statuses {
			if outcome.Status == status {
				out = append(out, outcome)
				break
			}
		}
	}

	return out
}

// RunReport is the persisted form of a run, written for manual recovery.
type RunReport struct {
	Version int            `yaml:"version"`
	Root    Path           `yaml:"root"`
	DryRun  bool           `yaml:"dry_run"`
	Suffix  string         `yaml:"backup_suffix"`
	Changed []ReportEntry  `yaml:"changed"`
	Failed  []ReportEntry  `yaml:"failed,omitempty"`
	Totals  map[string]int `yaml:"totals"`
}

// ReportEntry is one file in a RunReport.
type ReportEntry struct {
	Path   Path     `yaml:"path"`
	Backup Path     `yaml:"backup,omitempty"`
	State  string   `yaml:"state"`
	Rules  []string `yaml:"rules,omitempty"`
	Error  string   `yaml:"error,omitempty"`
}
