package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// InitConfig holds the parameters for initializing a workspace.
type InitConfig struct {
	BasePath string
}

// InitResult holds a summary of what was created vs. skipped.
type InitResult struct {
	Created []string
	Skipped []string
}

// ProjectInitializer defines the interface for initializing a workspace
// with the expected directory structure and starter files.
type ProjectInitializer interface {
	Init(config InitConfig) (*InitResult, error)
}

type projectInitializer struct{}

// NewProjectInitializer creates a new ProjectInitializer.
func NewProjectInitializer() ProjectInitializer {
	return &projectInitializer{}
}

// goalsTemplate seeds GOALS.md. The Current Focus heading is what the
// anticipate report looks for when checking goal alignment.
const goalsTemplate = `# Goals

## Current Focus
-

## This Quarter
-

## Someday
-
`

// Init creates the workspace directories, an empty backlog, a goals file,
// and a starter config.yaml holding the default settings. It is safe to run
// on existing workspaces: files and directories that already exist are
// skipped and never overwritten.
func (pi *projectInitializer) Init(config InitConfig) (*InitResult, error) {
	result := &InitResult{}

	dirs := []string{
		config.BasePath,
		filepath.Join(config.BasePath, "Tasks"),
		filepath.Join(config.BasePath, "CRM"),
		filepath.Join(config.BasePath, ".sift"),
	}
	for _, dir := range dirs {
		created, err := ensureDir(dir)
		if err != nil {
			return nil, fmt.Errorf("initializing workspace: creating directory %s: %w", dir, err)
		}
		if created {
			result.Created = append(result.Created, dir)
		} else {
			result.Skipped = append(result.Skipped, dir)
		}
	}

	backlogPath := filepath.Join(config.BasePath, "BACKLOG.md")
	if err := pi.writeFileIfNotExists(backlogPath, func() ([]byte, error) {
		return []byte("# Backlog\n\nAdd your unstructured notes here:\n\n"), nil
	}, result); err != nil {
		return nil, err
	}

	goalsPath := filepath.Join(config.BasePath, "GOALS.md")
	if err := pi.writeFileIfNotExists(goalsPath, func() ([]byte, error) {
		return []byte(goalsTemplate), nil
	}, result); err != nil {
		return nil, err
	}

	// Render the starter config from the actual defaults so the file never
	// drifts from what the code falls back to.
	configPath := filepath.Join(config.BasePath, "config.yaml")
	if err := pi.writeFileIfNotExists(configPath, func() ([]byte, error) {
		defaults := DefaultGlobalConfig()
		data, err := yaml.Marshal(defaults)
		if err != nil {
			return nil, err
		}
		header := "# sift settings. Every key is optional; missing keys use these defaults.\n"
		return append([]byte(header), data...), nil
	}, result); err != nil {
		return nil, err
	}

	return result, nil
}

// ensureDir creates a directory if it does not exist. Returns true if created.
func ensureDir(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return false, err
	}
	return true, nil
}

// writeFileIfNotExists writes content from contentFn if the file does not
// exist. It records created/skipped in the result.
func (pi *projectInitializer) writeFileIfNotExists(path string, contentFn func() ([]byte, error), result *InitResult) error {
	if _, err := os.Stat(path); err == nil {
		result.Skipped = append(result.Skipped, path)
		return nil
	}
	content, err := contentFn()
	if err != nil {
		return fmt.Errorf("initializing workspace: generating content for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("initializing workspace: writing %s: %w", path, err)
	}
	result.Created = append(result.Created, path)
	return nil
}
