package sysfs

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Writer performs guarded, atomic writes of single-line sysfs attribute
// values. Every write target is checked against a PathGuard before the
// kernel ever sees it.
type Writer struct {
	guard *PathGuard
}

// NewWriter creates a Writer that only permits writes under the given
// roots (WritableRoots if empty).
func NewWriter(roots []string) *Writer {
	return &Writer{guard: NewPathGuard(roots)}
}

// WriteString writes a single line to a sysfs attribute. The write is a
// single open-truncate-write syscall sequence, so from the kernel's
// perspective it is atomic: no partial line is ever visible.
//
// Errnos are classified: EACCES -> ErrPermissionDenied,
// ENOENT/EOPNOTSUPP -> ErrUnsupported, EINVAL -> ErrInvalidValue.
func (w *Writer) WriteString(path, value string) error {
	if err := w.guard.Check(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return classifyWriteErr(path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(value); err != nil {
		return classifyWriteErr(path, err)
	}
	return nil
}

// WriteInt64 writes an integer value as a sysfs attribute.
func (w *Writer) WriteInt64(path string, value int64) error {
	return w.WriteString(path, fmt.Sprintf("%d", value))
}

func classifyWriteErr(path string, err error) error {
	switch {
	case errors.Is(err, syscall.EACCES), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%s: %w", path, ErrPermissionDenied)
	case errors.Is(err, syscall.ENOENT), errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.EOPNOTSUPP):
		return fmt.Errorf("%s: %w", path, ErrUnsupported)
	case errors.Is(err, syscall.EINVAL):
		return fmt.Errorf("%s: %w", path, ErrInvalidValue)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
