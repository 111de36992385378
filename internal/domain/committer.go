package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"reimport.dev/pkg/reimport/internal/adapter"
	m "reimport.dev/pkg/reimport/internal/model"
)

// DefaultBackupSuffix is appended to a file's path to form its backup path.
const DefaultBackupSuffix = ".bak"

const defaultFileMode os.FileMode = 0o644

// SafeWriter commits rewritten content in two steps: the original is renamed
// to its backup path, then the new content is written to the original path.
//
// If the process dies between the two steps the file is left backed up but
// not rewritten: the original content survives at the backup path and the
// original path is missing. That window is reported as StateBackedUp.
type SafeWriter interface {
	Commit(ctx context.Context, file m.CandidateFile, newText string) m.CommitOutcome
	Suffix() string
}

type safeWriter struct {
	fs     adapter.SourceFSAdapter
	suffix string
}

// NewSafeWriter returns a SafeWriter using suffix for backups. An empty suffix
// falls back to DefaultBackupSuffix since it would make the backup path equal
// the original path.
func NewSafeWriter(fsAdapter adapter.SourceFSAdapter, suffix string) SafeWriter {
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}

	return &safeWriter{fs: fsAdapter, suffix: suffix}
}

func (w *safeWriter) Suffix() string {
	return w.suffix
}

// Commit must only be called when newText differs from file.Text.
func (w *safeWriter) Commit(ctx context.Context, file m.CandidateFile, newText string) m.CommitOutcome {
	backup := file.BackupPath(w.suffix)
	outcome := m.CommitOutcome{State: m.StateUnmodified}

	exists, err := w.fs.Exists(ctx, backup)
	if err != nil {
		outcome.Err = fmt.Errorf("check backup %s: %w", backup, err)
		return outcome
	}

	if exists {
		slog.Warn("Backup path taken, leaving file untouched", "path", file.Path, "backup", backup)
		outcome.Err = fmt.Errorf("%s: %w", backup, ErrBackupExists)

		return outcome
	}

	if err := w.fs.Rename(ctx, file.Path, backup); err != nil {
		outcome.Err = fmt.Errorf("back up %s: %w", file.Path, err)
		return outcome
	}

	outcome.State = m.StateBackedUp
	outcome.Backup = backup
	slog.Debug("Backed up original", "path", file.Path, "backup", backup)

	mode := file.Mode.Perm()
	if mode == 0 {
		mode = defaultFileMode
	}

	if err := w.fs.WriteFileAtomic(ctx, file.Path, []byte(newText), mode); err != nil {
		slog.Error("Original backed up but rewritten content not written", "path", file.Path, "backup", backup, "error", err)
		outcome.Err = fmt.Errorf("write %s (original kept at %s): %w", file.Path, backup, err)

		return outcome
	}

	outcome.State = m.StateCommitted
	slog.Debug("Committed rewrite", "path", file.Path)

	return outcome
}
