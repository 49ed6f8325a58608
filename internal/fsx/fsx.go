// Package fsx holds the file writes shared by the batch jobs.
package fsx

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFile writes data to a temp file beside path and renames it into
// place. A failed write leaves nothing at path, so a later run still sees the
// output as missing.
func WriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer fs.Remove(tmpPath)

	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return replace(fs, tmpPath, path)
}

// replace falls back to remove-then-rename for filesystems that refuse to
// rename over an existing file.
func replace(fs afero.Fs, tmpPath, path string) error {
	if err := fs.Rename(tmpPath, path); err == nil {
		return nil
	}
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return fs.Rename(tmpPath, path)
}
