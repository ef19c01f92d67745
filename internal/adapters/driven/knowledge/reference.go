package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

//go:embed seed.json
var seedFS embed.FS

// Reference is one curated entry in the reference library.
type Reference struct {
	// Key is the citation key, e.g. "smith-2019". Keys are matched
	// case-insensitively.
	Key string `json:"key"`

	// Title is the source title.
	Title string `json:"title"`

	// Authors is the formatted author list.
	Authors string `json:"authors,omitempty"`

	// Year is the publication year.
	Year int `json:"year,omitempty"`

	// Summary is the finding the source reports, returned as the
	// actual content when a citation misrepresents it.
	Summary string `json:"summary,omitempty"`

	// Contradicts lists claim fragments the source is known not to
	// support. A citation whose context contains one of these
	// fragments is reported as a content mismatch.
	Contradicts []string `json:"contradicts,omitempty"`

	// Confidence is the curator's confidence in the entry, 0 to 1.
	// Zero is treated as full confidence.
	Confidence float64 `json:"confidence,omitempty"`

	// Values are the numeric values the source reports, by parameter.
	Values []domain.SourceValue `json:"values,omitempty"`
}

// NormalKey returns the lookup key for the entry.
func (r Reference) NormalKey() string {
	return NormalizeKey(r.Key)
}

// EffectiveConfidence returns the entry confidence with the zero value
// mapped to full confidence.
func (r Reference) EffectiveConfidence() float64 {
	if r.Confidence == 0 {
		return 1
	}
	return r.Confidence
}

// Verdict returns the library verdict for a citation of this entry,
// where cited is the statement the citation supports in the report.
func (r Reference) Verdict(cited string) domain.CitationRecord {
	record := domain.CitationRecord{
		Exists:     true,
		Confidence: r.EffectiveConfidence(),
	}
	if cited == "" {
		return record
	}

	lower := strings.ToLower(cited)
	for _, fragment := range r.Contradicts {
		fragment = strings.ToLower(strings.TrimSpace(fragment))
		if fragment != "" && strings.Contains(lower, fragment) {
			record.ContentMismatch = true
			record.ActualContent = r.Summary
			break
		}
	}
	return record
}

// NormalizeKey canonicalises a citation or source key for lookups.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// NormalizeParameter canonicalises a parameter name for lookups.
func NormalizeParameter(parameter string) string {
	return strings.ToLower(strings.TrimSpace(parameter))
}

// LoadFile reads a JSON reference file and validates its entries.
func LoadFile(path string) ([]Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON array of reference entries.
func Parse(data []byte) ([]Reference, error) {
	var refs []Reference
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("decoding reference file: %w", err)
	}
	if err := Validate(refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Seed returns the built-in starter library. It covers a handful of
// published device studies so development runs have sources to verify
// against before an organisation library is imported.
func Seed() []Reference {
	data, err := seedFS.ReadFile("seed.json")
	if err != nil {
		panic(fmt.Sprintf("knowledge: reading embedded seed: %v", err))
	}
	refs, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("knowledge: parsing embedded seed: %v", err))
	}
	return refs
}

// Validate checks a batch of reference entries for import.
func Validate(refs []Reference) error {
	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		key := ref.NormalKey()
		if key == "" {
			return fmt.Errorf("reference %d: key is required", i)
		}
		if seen[key] {
			return fmt.Errorf("reference %d: duplicate key %q", i, key)
		}
		seen[key] = true

		if strings.TrimSpace(ref.Title) == "" {
			return fmt.Errorf("reference %q: title is required", key)
		}
		if ref.Confidence < 0 || ref.Confidence > 1 {
			return fmt.Errorf("reference %q: confidence %v out of range", key, ref.Confidence)
		}

		params := make(map[string]bool, len(ref.Values))
		for _, value := range ref.Values {
			param := NormalizeParameter(value.Parameter)
			if param == "" {
				return fmt.Errorf("reference %q: value parameter is required", key)
			}
			if params[param] {
				return fmt.Errorf("reference %q: duplicate parameter %q", key, param)
			}
			params[param] = true
		}
	}
	return nil
}
