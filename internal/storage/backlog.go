package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecrawford/sift/pkg/models"
)

// BacklogFileName is the quick-capture file at the root of the base path.
const BacklogFileName = "BACKLOG.md"

// BacklogSentinel is the content an empty backlog holds after clearing.
const BacklogSentinel = "all done!"

// BacklogContent is a parsed snapshot of the backlog file.
type BacklogContent struct {
	// Raw is the trimmed file content.
	Raw string
	// Items are the dash-prefixed entries. Indented dashes attach to the
	// preceding item as subitems.
	Items []models.BacklogItem
}

// IsClear reports whether the backlog holds no work: the file is empty or
// contains only the sentinel.
func (c *BacklogContent) IsClear() bool {
	return c.Raw == "" || c.Raw == BacklogSentinel
}

// BacklogManager defines the interface for the BACKLOG.md capture file.
type BacklogManager interface {
	// Read loads and parses the backlog. A missing file is an error;
	// callers that tolerate absence use Count.
	Read() (*BacklogContent, error)
	// Count returns the number of dash-prefixed lines, subitems included.
	// A missing file counts as zero.
	Count() (int, error)
	// Clear overwrites the backlog with the sentinel.
	Clear() error
	// Path returns the location of the backlog file.
	Path() string
}

type fileBacklogManager struct {
	basePath string
}

// NewBacklogManager creates a BacklogManager for the BACKLOG.md file under
// basePath.
func NewBacklogManager(basePath string) BacklogManager {
	return &fileBacklogManager{basePath: basePath}
}

func (m *fileBacklogManager) Path() string {
	return filepath.Join(m.basePath, BacklogFileName)
}

func (m *fileBacklogManager) Read() (*BacklogContent, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found", BacklogFileName)
		}
		return nil, fmt.Errorf("reading backlog: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	return &BacklogContent{
		Raw:   raw,
		Items: parseBacklogItems(raw),
	}, nil
}

// parseBacklogItems extracts "- " entries from the backlog text. A dash at
// the start of the line opens a new item; an indented dash attaches to the
// current item as a subitem. Anything else is ignored.
func parseBacklogItems(raw string) []models.BacklogItem {
	if raw == "" || raw == BacklogSentinel {
		return nil
	}

	var items []models.BacklogItem
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "- "):
			items = append(items, models.BacklogItem{Text: strings.TrimSpace(line[2:])})
		case strings.HasPrefix(trimmed, "- ") && len(items) > 0:
			last := &items[len(items)-1]
			last.Subitems = append(last.Subitems, strings.TrimSpace(trimmed[2:]))
		}
	}
	return items
}

func (m *fileBacklogManager) Count() (int, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading backlog: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == BacklogSentinel {
		return 0, nil
	}

	count := 0
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "-") {
			count++
		}
	}
	return count, nil
}

func (m *fileBacklogManager) Clear() error {
	if err := os.WriteFile(m.Path(), []byte(BacklogSentinel), 0o644); err != nil {
		return fmt.Errorf("clearing backlog: %w", err)
	}
	return nil
}
