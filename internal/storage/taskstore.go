package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ecrawford/sift/pkg/models"
)

// TasksDirName is the subdirectory of the base path holding task documents.
const TasksDirName = "Tasks"

// TaskStore defines the interface for reading and writing task documents in
// the Tasks directory. One markdown file is one task.
type TaskStore interface {
	// List returns every parseable task, sorted by filename. A missing
	// Tasks directory yields an empty list, not an error. Files without
	// usable frontmatter are skipped.
	List() ([]models.Task, error)
	// Get loads a single task by filename.
	Get(filename string) (*models.Task, error)
	// Create writes a new task document. It fails if the file exists.
	Create(filename string, meta models.TaskMeta, body string) error
	// UpdateStatus rewrites the status field of a task document, leaving
	// the body and any hand-added frontmatter keys untouched.
	UpdateStatus(filename string, status models.TaskStatus) error
	// Delete removes a task document.
	Delete(filename string) error
	// Malformed returns the names of markdown files in the Tasks directory
	// that List would skip.
	Malformed() ([]string, error)
}

type fileTaskStore struct {
	basePath string
}

// NewTaskStore creates a TaskStore rooted at the Tasks directory under
// basePath.
func NewTaskStore(basePath string) TaskStore {
	return &fileTaskStore{basePath: basePath}
}

func (s *fileTaskStore) dir() string {
	return filepath.Join(s.basePath, TasksDirName)
}

func (s *fileTaskStore) List() ([]models.Task, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		task, err := s.load(entry.Name())
		if err != nil {
			// Unreadable or malformed files are skipped, not fatal.
			continue
		}
		tasks = append(tasks, *task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Filename < tasks[j].Filename
	})
	return tasks, nil
}

func (s *fileTaskStore) Get(filename string) (*models.Task, error) {
	task, err := s.load(filename)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", filename, err)
	}
	return task, nil
}

// load reads and parses one task document. Documents without frontmatter,
// with unparseable frontmatter, or with an empty title are rejected.
func (s *fileTaskStore) load(filename string) (*models.Task, error) {
	path := filepath.Join(s.dir(), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rawMeta, body, ok := SplitFrontmatter(string(data))
	if !ok {
		return nil, fmt.Errorf("missing frontmatter")
	}

	var meta models.TaskMeta
	if err := yaml.Unmarshal([]byte(rawMeta), &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("frontmatter has no title")
	}

	// Hand-edited files may carry single-letter status aliases.
	if status, err := models.ParseStatus(string(meta.Status)); err == nil {
		meta.Status = status
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &models.Task{
		TaskMeta:    meta,
		Filename:    filename,
		BodyExcerpt: Excerpt(body),
		ModTime:     info.ModTime(),
	}, nil
}

func (s *fileTaskStore) Create(filename string, meta models.TaskMeta, body string) error {
	if err := os.MkdirAll(s.dir(), 0o750); err != nil {
		return fmt.Errorf("creating task %s: creating directory: %w", filename, err)
	}

	content, err := RenderDocument(meta, body)
	if err != nil {
		return fmt.Errorf("creating task %s: %w", filename, err)
	}

	path := filepath.Join(s.dir(), filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("creating task %s: task already exists", filename)
		}
		return fmt.Errorf("creating task %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("creating task %s: writing file: %w", filename, err)
	}
	return nil
}

func (s *fileTaskStore) UpdateStatus(filename string, status models.TaskStatus) error {
	path := filepath.Join(s.dir(), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("updating task %s: task not found", filename)
		}
		return fmt.Errorf("updating task %s: %w", filename, err)
	}

	rawMeta, body, ok := SplitFrontmatter(string(data))
	if !ok {
		return fmt.Errorf("updating task %s: missing frontmatter", filename)
	}

	var meta models.TaskMeta
	if err := yaml.Unmarshal([]byte(rawMeta), &meta); err != nil {
		return fmt.Errorf("updating task %s: parsing frontmatter: %w", filename, err)
	}
	meta.Status = status

	content, err := RenderDocument(meta, body)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", filename, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("updating task %s: writing file: %w", filename, err)
	}
	return nil
}

func (s *fileTaskStore) Delete(filename string) error {
	path := filepath.Join(s.dir(), filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("deleting task %s: task not found", filename)
		}
		return fmt.Errorf("deleting task %s: %w", filename, err)
	}
	return nil
}

func (s *fileTaskStore) Malformed() ([]string, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning tasks: %w", err)
	}

	var bad []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		if _, err := s.load(entry.Name()); err != nil {
			bad = append(bad, entry.Name())
		}
	}
	sort.Strings(bad)
	return bad, nil
}
