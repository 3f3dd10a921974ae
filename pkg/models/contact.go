package models

// ContactMeta is the YAML frontmatter of a contact document. Optional fields
// are omitted from the file when empty; Extra carries hand-added keys.
type ContactMeta struct {
	Name                 string         `yaml:"name"`
	CreatedDate          string         `yaml:"created_date,omitempty"`
	RelationshipStrength string         `yaml:"relationship_strength,omitempty"`
	Email                string         `yaml:"email,omitempty"`
	Company              string         `yaml:"company,omitempty"`
	Location             string         `yaml:"location,omitempty"`
	Phone                string         `yaml:"phone,omitempty"`
	LinkedIn             string         `yaml:"linkedin,omitempty"`
	LastContact          string         `yaml:"last_contact,omitempty"`
	Extra                map[string]any `yaml:",inline"`
}

// Contact is a contact document plus its storage coordinates.
type Contact struct {
	ContactMeta

	Filename    string
	BodyExcerpt string
}
