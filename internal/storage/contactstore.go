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

// CRMDirName is the subdirectory of the base path holding contact documents.
const CRMDirName = "CRM"

// ContactStore defines the interface for reading and writing contact
// documents in the CRM directory. One markdown file is one contact.
type ContactStore interface {
	// List returns every parseable contact, sorted by filename. A missing
	// CRM directory yields an empty list, not an error.
	List() ([]models.Contact, error)
	// Create writes a new contact document. It fails if the file exists.
	Create(filename string, meta models.ContactMeta, body string) error
	// Update rewrites the frontmatter of an existing contact document,
	// leaving the body untouched.
	Update(filename string, meta models.ContactMeta) error
}

type fileContactStore struct {
	basePath string
}

// NewContactStore creates a ContactStore rooted at the CRM directory under
// basePath.
func NewContactStore(basePath string) ContactStore {
	return &fileContactStore{basePath: basePath}
}

func (s *fileContactStore) dir() string {
	return filepath.Join(s.basePath, CRMDirName)
}

func (s *fileContactStore) List() ([]models.Contact, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Contact{}, nil
		}
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	contacts := make([]models.Contact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		contact, err := s.load(entry.Name())
		if err != nil {
			continue
		}
		contacts = append(contacts, *contact)
	}

	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].Filename < contacts[j].Filename
	})
	return contacts, nil
}

func (s *fileContactStore) load(filename string) (*models.Contact, error) {
	data, err := os.ReadFile(filepath.Join(s.dir(), filename))
	if err != nil {
		return nil, err
	}

	rawMeta, body, ok := SplitFrontmatter(string(data))
	if !ok {
		return nil, fmt.Errorf("missing frontmatter")
	}

	var meta models.ContactMeta
	if err := yaml.Unmarshal([]byte(rawMeta), &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("frontmatter has no name")
	}

	return &models.Contact{
		ContactMeta: meta,
		Filename:    filename,
		BodyExcerpt: Excerpt(body),
	}, nil
}

func (s *fileContactStore) Create(filename string, meta models.ContactMeta, body string) error {
	if err := os.MkdirAll(s.dir(), 0o750); err != nil {
		return fmt.Errorf("creating contact %s: creating directory: %w", filename, err)
	}

	content, err := RenderDocument(meta, body)
	if err != nil {
		return fmt.Errorf("creating contact %s: %w", filename, err)
	}

	path := filepath.Join(s.dir(), filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("creating contact %s: contact already exists", filename)
		}
		return fmt.Errorf("creating contact %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("creating contact %s: writing file: %w", filename, err)
	}
	return nil
}

func (s *fileContactStore) Update(filename string, meta models.ContactMeta) error {
	path := filepath.Join(s.dir(), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("updating contact %s: contact not found", filename)
		}
		return fmt.Errorf("updating contact %s: %w", filename, err)
	}

	_, body, ok := SplitFrontmatter(string(data))
	if !ok {
		return fmt.Errorf("updating contact %s: missing frontmatter", filename)
	}

	content, err := RenderDocument(meta, body)
	if err != nil {
		return fmt.Errorf("updating contact %s: %w", filename, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("updating contact %s: writing file: %w", filename, err)
	}
	return nil
}
