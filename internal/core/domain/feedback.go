package domain

import (
	"encoding/json"
	"fmt"
)

// FeedbackKind discriminates serialized feedback items.
type FeedbackKind string

// Feedback kinds the integrator understands.
const (
	// FeedbackTextCorrection replaces text within one section.
	FeedbackTextCorrection FeedbackKind = "text_correction"

	// FeedbackSectionAddition appends a reviewer-authored section.
	FeedbackSectionAddition FeedbackKind = "section_addition"

	// FeedbackCitationCorrection rewrites a citation across the document.
	FeedbackCitationCorrection FeedbackKind = "citation_correction"

	// FeedbackDataCorrection replaces a stated value.
	FeedbackDataCorrection FeedbackKind = "data_correction"
)

// FeedbackItem is one reviewer correction. The concrete kinds form a
// closed set; unknown serialized kinds decode to UnknownFeedback so a
// batch is never rejected for a single unrecognised entry.
type FeedbackItem interface {
	// Kind discriminates the correction.
	Kind() FeedbackKind

	feedbackItem()
}

// TextCorrection replaces an exact text span within one section.
type TextCorrection struct {
	// SectionID names the section to correct.
	SectionID string `json:"section_id"`

	// Old is the incorrect text as it appears in the section.
	Old string `json:"old_text"`

	// New is the corrected text.
	New string `json:"new_text"`
}

// Kind implements FeedbackItem.
func (TextCorrection) Kind() FeedbackKind { return FeedbackTextCorrection }

func (TextCorrection) feedbackItem() {}

// SectionAddition appends a reviewer-authored section to the document.
type SectionAddition struct {
	// Section is the content to append. Integration stamps it with
	// reviewer provenance metadata.
	Section Section `json:"section"`
}

// Kind implements FeedbackItem.
func (SectionAddition) Kind() FeedbackKind { return FeedbackSectionAddition }

func (SectionAddition) feedbackItem() {}

// CitationCorrection rewrites a citation wherever it occurs.
type CitationCorrection struct {
	// Key is the citation key being corrected.
	Key string `json:"citation_key"`

	// Old is the citation text as it currently appears in the report.
	Old string `json:"old_text"`

	// New is the corrected citation text.
	New string `json:"new_text"`

	// Reference, when set, replaces the matching reference-list entry.
	Reference string `json:"reference_entry,omitempty"`
}

// Kind implements FeedbackItem.
func (CitationCorrection) Kind() FeedbackKind { return FeedbackCitationCorrection }

func (CitationCorrection) feedbackItem() {}

// DataCorrection replaces a stated value, scoped to one section or the
// whole document.
type DataCorrection struct {
	// SectionID scopes the replacement. Empty applies document-wide.
	SectionID string `json:"section_id,omitempty"`

	// Old is the incorrect value literal, e.g. "650 mg/dl".
	Old string `json:"old_value"`

	// New is the corrected value literal.
	New string `json:"new_value"`
}

// Kind implements FeedbackItem.
func (DataCorrection) Kind() FeedbackKind { return FeedbackDataCorrection }

func (DataCorrection) feedbackItem() {}

// UnknownFeedback preserves a serialized item of an unrecognised kind.
// Integration skips these with a warning instead of failing the batch.
type UnknownFeedback struct {
	// RawKind is the kind string as it appeared in the input.
	RawKind string `json:"kind"`

	// Raw is the full serialized item.
	Raw json.RawMessage `json:"-"`
}

// Kind implements FeedbackItem.
func (u UnknownFeedback) Kind() FeedbackKind { return FeedbackKind(u.RawKind) }

func (UnknownFeedback) feedbackItem() {}

// FeedbackBatch is an ordered list of feedback items with JSON support
// for the kind-tagged wire form.
type FeedbackBatch []FeedbackItem

type feedbackHeader struct {
	Kind FeedbackKind `json:"kind"`
}

// UnmarshalJSON decodes a JSON array of kind-tagged feedback items.
// Unrecognised kinds decode to UnknownFeedback; a missing kind is an error.
func (b *FeedbackBatch) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode feedback batch: %w", err)
	}

	items := make(FeedbackBatch, 0, len(raw))
	for i, entry := range raw {
		var head feedbackHeader
		if err := json.Unmarshal(entry, &head); err != nil {
			return fmt.Errorf("decode feedback item %d: %w", i, err)
		}
		if head.Kind == "" {
			return fmt.Errorf("feedback item %d: %w: missing kind", i, ErrInvalidFeedback)
		}

		item, err := decodeFeedbackItem(head.Kind, entry)
		if err != nil {
			return fmt.Errorf("decode feedback item %d: %w", i, err)
		}
		items = append(items, item)
	}

	*b = items
	return nil
}

func decodeFeedbackItem(kind FeedbackKind, data []byte) (FeedbackItem, error) {
	switch kind {
	case FeedbackTextCorrection:
		var item TextCorrection
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, err
		}
		return item, nil
	case FeedbackSectionAddition:
		var item SectionAddition
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, err
		}
		return item, nil
	case FeedbackCitationCorrection:
		var item CitationCorrection
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, err
		}
		return item, nil
	case FeedbackDataCorrection:
		var item DataCorrection
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, err
		}
		return item, nil
	default:
		return UnknownFeedback{RawKind: string(kind), Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

// MarshalJSON encodes the batch in the kind-tagged wire form.
func (b FeedbackBatch) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(b))
	for i, item := range b {
		entry, err := encodeFeedbackItem(item)
		if err != nil {
			return nil, fmt.Errorf("encode feedback item %d: %w", i, err)
		}
		raw = append(raw, entry)
	}
	return json.Marshal(raw)
}

func encodeFeedbackItem(item FeedbackItem) (json.RawMessage, error) {
	if u, ok := item.(UnknownFeedback); ok {
		if len(u.Raw) > 0 {
			return u.Raw, nil
		}
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{Kind: u.RawKind})
	}

	body, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(item.Kind())
	if err != nil {
		return nil, err
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}
