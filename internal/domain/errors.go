package domain

import "errors"

var (
	// ErrDuplicateRule is returned when two rules share an identifier.
	ErrDuplicateRule = errors.New("duplicate rule identifier")
	// ErrInvalidRule is returned for identifiers or targets that cannot be
	// substituted into an import.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrBackupExists is returned when the backup location is already taken.
	ErrBackupExists = errors.New("backup already exists")
	// ErrNotText is returned for files whose content is not valid UTF-8.
	ErrNotText = errors.New("file is not valid UTF-8 text")
	// ErrRootNotDirectory is returned when the scan root is a file.
	ErrRootNotDirectory = errors.New("root is not a directory")
	// ErrRunHadFailures is returned by Run when at least one file failed.
	ErrRunHadFailures = errors.New("some files could not be rewritten")
)
