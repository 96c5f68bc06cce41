package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager handles run artifact organization under a base output
// directory. Each PO gets its own run directory: <base>/<po>/.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// CreateRunDir creates (if needed) and returns the run directory for a PO.
func (om *OutputManager) CreateRunDir(po string) (string, error) {
	runDir := filepath.Join(om.BaseOutputDir, po)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return runDir, nil
}

// ArtifactPath returns the full path for a named artifact of a PO's run.
// The file name is cleaned so callers cannot escape the run directory.
func (om *OutputManager) ArtifactPath(po, fileName string) (string, error) {
	runDir, err := om.CreateRunDir(po)
	if err != nil {
		return "", err
	}
	return filepath.Join(runDir, filepath.Base(fileName)), nil
}

// ListArtifacts returns the artifact file names present in a PO's run
// directory, if any.
func (om *OutputManager) ListArtifacts(po string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(om.BaseOutputDir, po))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
