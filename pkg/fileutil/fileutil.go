// Package fileutil provides the directory/atomic-write helpers the
// persister and frontier snapshot rely on.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

type FileErrorCause string

const (
	ErrCausePathError  FileErrorCause = "path_error"
	ErrCauseWriteError FileErrorCause = "write_error"
)

type FileError struct {
	Path  string
	Cause FileErrorCause
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("fileutil: %s: %s: %v", e.Cause, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileError{Path: dir, Cause: ErrCausePathError, Err: err}
	}
	return nil
}

// WriteFileAtomic writes data to path by writing to a temp file in the same
// directory and renaming over the destination, so a crash mid-write never
// leaves a truncated snapshot or blob on disk.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &FileError{Path: path, Cause: ErrCauseWriteError, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &FileError{Path: path, Cause: ErrCauseWriteError, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &FileError{Path: path, Cause: ErrCauseWriteError, Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &FileError{Path: path, Cause: ErrCauseWriteError, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &FileError{Path: path, Cause: ErrCauseWriteError, Err: err}
	}
	return nil
}

// ReadFileIfExists returns (nil, false, nil) when path does not exist,
// rather than an error — used by frontier restore and blob lookups where
// "missing" is an expected, non-exceptional outcome.
func ReadFileIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &FileError{Path: path, Cause: ErrCausePathError, Err: err}
	}
	return data, true, nil
}
