package sysfs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadString reads the trimmed contents of a sysfs attribute file.
// It returns ErrNotPresent if the file doesn't exist, ErrUnreadable for
// any other read failure.
func ReadString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotPresent)
		}
		return "", fmt.Errorf("%s: %w", path, ErrUnreadable)
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadInt64 reads a sysfs attribute as a base-10 integer.
func ReadInt64(path string) (int64, error) {
	s, err := ReadString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", path, ErrUnreadable, err)
	}
	return v, nil
}

// ReadFloat64 reads a sysfs attribute as a floating-point number.
func ReadFloat64(path string) (float64, error) {
	s, err := ReadString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", path, ErrUnreadable, err)
	}
	return v, nil
}

// ReadList reads a sysfs attribute holding a space-separated list of
// tokens, e.g. "scaling_available_governors" or an EPP preference list.
func ReadList(path string) ([]string, error) {
	s, err := ReadString(path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(s), nil
}

// ReadBracketed reads an attribute formatted as a space-separated list
// with the active choice surrounded by brackets, e.g.
// "performance [balanced] power" as used by platform_profile_choices on
// some firmware and by block-device I/O scheduler files. It returns the
// full token list and the bracketed (active) token.
func ReadBracketed(path string) (all []string, active string, err error) {
	s, err := ReadString(path)
	if err != nil {
		return nil, "", err
	}
	for _, tok := range strings.Fields(s) {
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			active = strings.Trim(tok, "[]")
			all = append(all, active)
		} else {
			all = append(all, tok)
		}
	}
	return all, active, nil
}

// Exists reports whether a sysfs attribute file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
