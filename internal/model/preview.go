package model

// Preview describes a pending change produced by a dry run.
type Preview struct {
	Path  Path
	Rules []string
	Diff  string
}
