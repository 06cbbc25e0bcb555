// Package txn provides the transactional file-edit helper used by every
// mutating lifecycle operation: snapshot the target, apply a mutation,
// validate, then commit or restore the snapshot.
package txn

import (
	"fmt"
	"os"
)

// backupSuffix names the on-disk snapshot kept for the duration of an edit.
const backupSuffix = ".proxyup.bak"

// Edit rewrites the file at path through mutate, then runs validate.
// On any failure the original bytes and mode are restored, leaving the
// file byte-identical to its pre-edit state. The snapshot is discarded
// on success.
func Edit(path string, mutate func([]byte) ([]byte, error), validate func() error) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	mode := info.Mode().Perm()

	backup := path + backupSuffix
	if err := os.WriteFile(backup, original, mode); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	restore := func() error {
		if err := os.WriteFile(path, original, mode); err != nil {
			return fmt.Errorf("restore failed, backup kept at %s: %w", backup, err)
		}
		return os.Remove(backup)
	}

	mutated, err := mutate(original)
	if err != nil {
		_ = os.Remove(backup)
		return err
	}

	if err := os.WriteFile(path, mutated, mode); err != nil {
		if rbErr := restore(); rbErr != nil {
			return fmt.Errorf("write failed (%v) and %w", err, rbErr)
		}
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := validate(); err != nil {
		if rbErr := restore(); rbErr != nil {
			return fmt.Errorf("validation failed (%v) and %w", err, rbErr)
		}
		return err
	}

	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("edit applied but backup cleanup failed: %w", err)
	}
	return nil
}
