package domain

import (
	"strings"
	"time"
)

// Document represents a clinical evaluation report under validation.
// Checkers treat it as read-only; feedback integration works on a copy.
type Document struct {
	// ID is the unique identifier for the report.
	ID string `json:"id"`

	// Framework is the regulatory framework the report targets.
	Framework Framework `json:"framework"`

	// Title is the human-readable report title.
	Title string `json:"title,omitempty"`

	// Device is the name of the medical device under evaluation.
	Device string `json:"device,omitempty"`

	// Sections holds the report content in document order.
	Sections []Section `json:"sections"`

	// Revisions is the appended history of reviewer interventions.
	Revisions []RevisionEntry `json:"revisions,omitempty"`
}

// Section is one titled block of report content.
type Section struct {
	// ID is the section identifier, unique within the document.
	ID string `json:"id"`

	// Type tags the section role (e.g. "clinical-data", "reference-list").
	Type string `json:"type"`

	// Title is the section heading.
	Title string `json:"title"`

	// Content is the section body text.
	Content string `json:"content"`

	// Metadata contains arbitrary key-value pairs. The "section" key, when
	// present, acts as a matching hint for required-section detection. The
	// "provenance" key marks sections added after drafting.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RevisionEntry records one batch of reviewer corrections.
type RevisionEntry struct {
	// ID is the unique identifier for the revision.
	ID string `json:"id"`

	// Timestamp is when the corrections were applied.
	Timestamp time.Time `json:"timestamp"`

	// Reviewer identifies who supplied the corrections.
	Reviewer string `json:"reviewer"`

	// Changes is the number of corrections applied in the batch.
	Changes int `json:"changes"`

	// Summary describes the batch in one line.
	Summary string `json:"summary"`
}

// MetadataSectionProvenance is the metadata value marking reviewer-added sections.
const MetadataSectionProvenance = "human-added"

// Validate checks the mandatory document fields. A report without an ID,
// a framework tag, or at least one section cannot be validated.
func (d *Document) Validate() error {
	if d == nil {
		return ErrInvalidDocument
	}
	if strings.TrimSpace(d.ID) == "" {
		return ErrInvalidDocument
	}
	if d.Framework == "" {
		return ErrInvalidDocument
	}
	if len(d.Sections) == 0 {
		return ErrInvalidDocument
	}
	return nil
}

// SectionByID returns the section with the given ID.
func (d *Document) SectionByID(id string) (*Section, bool) {
	for i := range d.Sections {
		if strings.EqualFold(d.Sections[i].ID, id) {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// SectionsByType returns every section carrying the given type tag,
// in document order.
func (d *Document) SectionsByType(sectionType string) []*Section {
	var out []*Section
	for i := range d.Sections {
		if strings.EqualFold(d.Sections[i].Type, sectionType) {
			out = append(out, &d.Sections[i])
		}
	}
	return out
}

// FirstSectionOfType returns the first section with the given type tag.
func (d *Document) FirstSectionOfType(sectionType string) (*Section, bool) {
	for i := range d.Sections {
		if strings.EqualFold(d.Sections[i].Type, sectionType) {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// SectionByKey resolves a section by ID, then by type, then by the
// "section" metadata hint. This is the matching order used for
// required-section detection.
func (d *Document) SectionByKey(key string) (*Section, bool) {
	if s, ok := d.SectionByID(key); ok {
		return s, true
	}
	if s, ok := d.FirstSectionOfType(key); ok {
		return s, true
	}
	for i := range d.Sections {
		if hint, ok := d.Sections[i].Metadata["section"].(string); ok && strings.EqualFold(hint, key) {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// HasSection reports whether any section matches key by ID, type,
// or metadata hint.
func (d *Document) HasSection(key string) bool {
	_, ok := d.SectionByKey(key)
	return ok
}

// Clone returns a deep copy of the document. Feedback integration
// mutates the copy and never the original.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		ID:        d.ID,
		Framework: d.Framework,
		Title:     d.Title,
		Device:    d.Device,
	}
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i, s := range d.Sections {
			out.Sections[i] = s.clone()
		}
	}
	if d.Revisions != nil {
		out.Revisions = make([]RevisionEntry, len(d.Revisions))
		copy(out.Revisions, d.Revisions)
	}
	return out
}

func (s Section) clone() Section {
	out := s
	if s.Metadata != nil {
		out.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// IsHumanAdded reports whether the section was inserted by a reviewer
// rather than the drafting system.
func (s *Section) IsHumanAdded() bool {
	p, ok := s.Metadata["provenance"].(string)
	return ok && p == MetadataSectionProvenance
}
