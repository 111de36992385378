// Package model defines the data structures shared by the rewrite workflow.
package model

import "io/fs"

// Path represents a file system path.
type Path string

// CandidateFile is a source file picked up by the scan, together with the
// content it had when it was read. The content is read once and never
// re-read while the file is being processed.
type CandidateFile struct {
	Path Path
	Text string
	Mode fs.FileMode
}

// BackupPath returns the location the original content is moved to when the
// file is rewritten.
func (f CandidateFile) BackupPath(suffix string) Path {
	return Path(string(f.Path) + suffix)
}
