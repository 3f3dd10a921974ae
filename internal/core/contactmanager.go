package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecrawford/sift/pkg/models"
)

// ContactDocStore is the subset of storage.ContactStore that ContactManager
// needs. Defining it here keeps core independent of the storage package.
type ContactDocStore interface {
	List() ([]models.Contact, error)
	Create(filename string, meta models.ContactMeta, body string) error
	Update(filename string, meta models.ContactMeta) error
}

// ContactFilter selects contacts by location, company, and name. Location
// and company accept several values with OR logic; every comparison is a
// case-insensitive substring match.
type ContactFilter struct {
	Locations []string
	Companies []string
	Name      string
}

// ContactManager defines the interface for CRM operations.
type ContactManager interface {
	ListContacts(filter ContactFilter) ([]models.Contact, error)
	AddContact(meta models.ContactMeta) (string, error)
	UpdateField(name, field, value string) error
	SearchContacts(query string) ([]models.Contact, error)
	Summary() (*CRMSummary, error)
}

type contactManager struct {
	store ContactDocStore
	evt   EventLogger
}

// NewContactManager creates a ContactManager backed by the given store. The
// event logger may be nil.
func NewContactManager(store ContactDocStore, evt EventLogger) ContactManager {
	return &contactManager{store: store, evt: evt}
}

func (cm *contactManager) ListContacts(filter ContactFilter) ([]models.Contact, error) {
	contacts, err := cm.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	var result []models.Contact
	for _, c := range contacts {
		if matchesContactFilter(c, filter) {
			result = append(result, c)
		}
	}
	return result, nil
}

func matchesContactFilter(c models.Contact, filter ContactFilter) bool {
	if len(filter.Locations) > 0 && !containsAnySubstring(c.Location, filter.Locations) {
		return false
	}
	if len(filter.Companies) > 0 && !containsAnySubstring(c.Company, filter.Companies) {
		return false
	}
	if filter.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Name)) {
		return false
	}
	return true
}

func containsAnySubstring(value string, needles []string) bool {
	lower := strings.ToLower(value)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(strings.TrimSpace(n))) {
			return true
		}
	}
	return false
}

// ParseContactFilter builds a ContactFilter from comma-separated location
// and company lists plus a name fragment.
func ParseContactFilter(locations, companies, name string) ContactFilter {
	return ContactFilter{
		Locations: splitCommaList(locations),
		Companies: splitCommaList(companies),
		Name:      strings.TrimSpace(name),
	}
}

// AddContact writes a new contact document and returns its filename. The
// created date and relationship strength are stamped when absent.
func (cm *contactManager) AddContact(meta models.ContactMeta) (string, error) {
	if strings.TrimSpace(meta.Name) == "" {
		return "", fmt.Errorf("adding contact: name must not be empty")
	}

	if meta.CreatedDate == "" {
		meta.CreatedDate = time.Now().Format("2006-01-02")
	}
	if meta.RelationshipStrength == "" {
		meta.RelationshipStrength = "new"
	}

	filename := ContactFilename(meta.Name)
	body := fmt.Sprintf("\n\n# %s\n\n## Notes\n", meta.Name)
	if err := cm.store.Create(filename, meta, body); err != nil {
		return "", err
	}

	cm.logEvent("contact.added", map[string]any{
		"filename": filename,
		"name":     meta.Name,
	})
	return filename, nil
}

// UpdateField sets one frontmatter field of a contact found by
// case-insensitive name. Unknown fields are preserved as custom keys.
func (cm *contactManager) UpdateField(name, field, value string) error {
	contacts, err := cm.store.List()
	if err != nil {
		return fmt.Errorf("updating contact %s: %w", name, err)
	}

	var target *models.Contact
	for i := range contacts {
		if strings.EqualFold(contacts[i].Name, name) {
			target = &contacts[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("updating contact %s: contact not found", name)
	}

	meta := target.ContactMeta
	switch field {
	case "name":
		meta.Name = value
	case "email":
		meta.Email = value
	case "company":
		meta.Company = value
	case "location":
		meta.Location = value
	case "phone":
		meta.Phone = value
	case "linkedin":
		meta.LinkedIn = value
	case "last_contact":
		meta.LastContact = value
	case "relationship_strength":
		meta.RelationshipStrength = value
	case "created_date":
		meta.CreatedDate = value
	default:
		if meta.Extra == nil {
			meta.Extra = make(map[string]any)
		}
		meta.Extra[field] = value
	}

	if err := cm.store.Update(target.Filename, meta); err != nil {
		return err
	}

	cm.logEvent("contact.updated", map[string]any{
		"filename": target.Filename,
		"name":     name,
		"field":    field,
	})
	return nil
}

// SearchContacts matches the query against contact names, companies, emails,
// locations, and body text.
func (cm *contactManager) SearchContacts(query string) ([]models.Contact, error) {
	contacts, err := cm.store.List()
	if err != nil {
		return nil, fmt.Errorf("searching contacts: %w", err)
	}

	q := strings.ToLower(query)
	var matches []models.Contact
	for _, c := range contacts {
		haystacks := []string{c.Name, c.Company, c.Email, c.Location, c.BodyExcerpt}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), q) {
				matches = append(matches, c)
				break
			}
		}
	}
	return matches, nil
}

func (cm *contactManager) Summary() (*CRMSummary, error) {
	contacts, err := cm.store.List()
	if err != nil {
		return nil, fmt.Errorf("building CRM summary: %w", err)
	}
	return BuildCRMSummary(contacts), nil
}

func (cm *contactManager) logEvent(eventType string, data map[string]any) {
	if cm.evt == nil {
		return
	}
	_ = cm.evt.LogEvent(eventType, data)
}
