// Package frameworks loads the built-in regulatory rule registries.
//
// Each supported framework ships as an embedded YAML file describing
// its required sections, checklist, plausibility ranges and claim
// antonyms. The files are parsed and validated once at startup; the
// resulting registries are shared read-only.
package frameworks

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

//go:embed *.yaml
var registryFS embed.FS

// Ensure Provider implements the interface.
var _ driven.RegistryProvider = (*Provider)(nil)

// Provider resolves the embedded rule registries by framework.
type Provider struct {
	registries map[domain.Framework]*domain.Registry
}

// NewProvider parses and validates every embedded registry file.
func NewProvider() (*Provider, error) {
	entries, err := registryFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read embedded registries: %w", err)
	}

	registries := make(map[domain.Framework]*domain.Registry, len(entries))
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := registryFS.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read registry %s: %w", entry.Name(), err)
		}
		reg, err := parseRegistry(data)
		if err != nil {
			return nil, fmt.Errorf("registry %s: %w", entry.Name(), err)
		}
		if _, ok := registries[reg.Framework]; ok {
			return nil, fmt.Errorf("registry %s: framework %s defined twice", entry.Name(), reg.Framework)
		}
		registries[reg.Framework] = reg
	}

	return &Provider{registries: registries}, nil
}

// Registry returns the rule set for the framework.
func (p *Provider) Registry(framework domain.Framework) (*domain.Registry, error) {
	reg, ok := p.registries[framework]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFrameworkNotSupported, framework)
	}
	return reg, nil
}

// Frameworks lists the loaded frameworks. The list is sorted so command
// output stays stable.
func (p *Provider) Frameworks() []domain.Framework {
	out := make([]domain.Framework, 0, len(p.registries))
	for framework := range p.registries {
		out = append(out, framework)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type registryFile struct {
	Framework        string                 `yaml:"framework"`
	RequiredSections []requiredSectionEntry `yaml:"required_sections"`
	Checklist        []checklistEntry       `yaml:"checklist"`
	Ranges           []rangeEntry           `yaml:"plausibility_ranges"`
	AntonymPairs     []antonymEntry         `yaml:"antonym_pairs"`
	OverreachTerms   []string               `yaml:"overreach_terms"`
}

type requiredSectionEntry struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Criticality   string `yaml:"criticality"`
	RegulatoryRef string `yaml:"regulatory_ref"`
}

type checklistEntry struct {
	ID            string   `yaml:"id"`
	Description   string   `yaml:"description"`
	RegulatoryRef string   `yaml:"regulatory_ref"`
	Criticality   string   `yaml:"criticality"`
	SectionTypes  []string `yaml:"section_types"`
}

type rangeEntry struct {
	Parameter string   `yaml:"parameter"`
	Aliases   []string `yaml:"aliases"`
	Unit      string   `yaml:"unit"`
	Min       float64  `yaml:"min"`
	Max       float64  `yaml:"max"`
}

type antonymEntry struct {
	Term     string `yaml:"term"`
	Negation string `yaml:"negation"`
}

func parseRegistry(data []byte) (*domain.Registry, error) {
	var file registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	reg := &domain.Registry{
		Framework:      domain.Framework(file.Framework),
		OverreachTerms: file.OverreachTerms,
	}
	for _, e := range file.RequiredSections {
		reg.RequiredSections = append(reg.RequiredSections, domain.RequiredSection{
			ID:            e.ID,
			Name:          e.Name,
			Criticality:   domain.Severity(e.Criticality),
			RegulatoryRef: e.RegulatoryRef,
		})
	}
	for _, e := range file.Checklist {
		reg.Checklist = append(reg.Checklist, domain.ChecklistItem{
			ID:            e.ID,
			Description:   e.Description,
			RegulatoryRef: e.RegulatoryRef,
			Criticality:   domain.Severity(e.Criticality),
			SectionTypes:  e.SectionTypes,
		})
	}
	for _, e := range file.Ranges {
		reg.PlausibilityRanges = append(reg.PlausibilityRanges, domain.PlausibilityRange{
			Parameter: e.Parameter,
			Aliases:   e.Aliases,
			Unit:      e.Unit,
			Min:       e.Min,
			Max:       e.Max,
		})
	}
	for _, e := range file.AntonymPairs {
		reg.AntonymPairs = append(reg.AntonymPairs, domain.AntonymPair{
			Term:     e.Term,
			Negation: e.Negation,
		})
	}

	if err := validateRegistry(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// validateRegistry rejects registry files a checker could not act on.
func validateRegistry(reg *domain.Registry) error {
	if !reg.Framework.IsValid() {
		return fmt.Errorf("unknown framework %q", reg.Framework)
	}
	if len(reg.RequiredSections) == 0 {
		return fmt.Errorf("framework %s has no required sections", reg.Framework)
	}

	sections := make(map[string]bool)
	for i, section := range reg.RequiredSections {
		if strings.TrimSpace(section.ID) == "" {
			return fmt.Errorf("required section %d has no id", i)
		}
		if sections[section.ID] {
			return fmt.Errorf("required section %q defined twice", section.ID)
		}
		sections[section.ID] = true
		if section.Criticality != domain.SeverityCritical && section.Criticality != domain.SeverityMajor {
			return fmt.Errorf("required section %q: criticality must be critical or major, got %q", section.ID, section.Criticality)
		}
	}

	items := make(map[string]bool)
	for i, item := range reg.Checklist {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("checklist item %d has no id", i)
		}
		if items[item.ID] {
			return fmt.Errorf("checklist item %q defined twice", item.ID)
		}
		items[item.ID] = true
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("checklist item %q has no description", item.ID)
		}
		if !item.Criticality.IsValid() || item.Criticality == domain.SeveritySuggestion {
			return fmt.Errorf("checklist item %q: invalid criticality %q", item.ID, item.Criticality)
		}
	}

	for _, bounds := range reg.PlausibilityRanges {
		if strings.TrimSpace(bounds.Parameter) == "" {
			return fmt.Errorf("plausibility range without a parameter")
		}
		if bounds.Min > bounds.Max {
			return fmt.Errorf("plausibility range %q: min %v above max %v", bounds.Parameter, bounds.Min, bounds.Max)
		}
	}

	for _, pair := range reg.AntonymPairs {
		if strings.TrimSpace(pair.Term) == "" || strings.TrimSpace(pair.Negation) == "" {
			return fmt.Errorf("antonym pair %q/%q incomplete", pair.Term, pair.Negation)
		}
	}

	return nil
}
