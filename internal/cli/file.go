package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"churchevents/internal/domain"

	"gopkg.in/yaml.v3"
)

// ProgramFile is the on-disk YAML form of one day program.
type ProgramFile struct {
	Day        string            `yaml:"day"`
	Activities []domain.Activity `yaml:"activities"`
}

// LoadProgramFile reads and decodes a day program. A missing file is reported as os.ErrNotExist.
func LoadProgramFile(path string) (*ProgramFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pf := &ProgramFile{}
	if err := yaml.Unmarshal(data, pf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, err := domain.ParseDay(pf.Day); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

// SaveProgramFile encodes pf and replaces path atomically.
func SaveProgramFile(path string, pf *ProgramFile) error {
	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("encode program: %w", err)
	}
	return atomicWrite(path, data, 0o644)
}

// atomicWrite writes to a temp file in the target directory and renames it over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".programctl-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	done = true
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
