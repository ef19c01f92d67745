package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/logger"
)

// Ensure ChecklistChecker implements the interface.
var _ Checker = (*ChecklistChecker)(nil)

// DefaultChecklistPassRatio is the fraction of an item's key terms the
// relevant content must contain. The bias is towards recall: failing a
// satisfied item costs reviewer time, passing an unsatisfied one costs
// a finding, so the threshold sits low.
const DefaultChecklistPassRatio = 0.5

var (
	quotedPhraseRe  = regexp.MustCompile(`"([^"]+)"`)
	checklistWordRe = regexp.MustCompile(`[a-z][a-z\-]{3,}`)
)

// checklistStopWords are filtered from item descriptions before matching.
var checklistStopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "must": true,
	"shall": true, "should": true, "have": true, "been": true, "being": true,
	"include": true, "includes": true, "including": true, "included": true,
	"each": true, "every": true, "such": true, "their": true, "there": true,
	"where": true, "when": true, "which": true, "will": true, "would": true,
	"could": true, "into": true, "upon": true, "based": true, "other": true,
	"than": true, "then": true, "against": true, "under": true, "over": true,
	"document": true, "documented": true, "report": true, "describe": true,
	"described": true, "describes": true, "provide": true, "provided": true,
	"demonstrate": true, "demonstrated": true, "address": true, "addressed": true,
}

// nounHeads promote a token pair to a phrase term, e.g. "risk analysis".
var nounHeads = map[string]bool{
	"analysis": true, "evaluation": true, "assessment": true, "plan": true,
	"criteria": true, "methodology": true, "surveillance": true, "strategy": true,
}

// ChecklistChecker evaluates the framework's regulatory checklist by
// matching item key terms against the relevant section content.
type ChecklistChecker struct {
	passRatio float64
}

// NewChecklistChecker creates a checklist checker. Ratios outside (0, 1]
// fall back to the default.
func NewChecklistChecker(passRatio float64) *ChecklistChecker {
	if passRatio <= 0 || passRatio > 1 {
		passRatio = DefaultChecklistPassRatio
	}
	return &ChecklistChecker{passRatio: passRatio}
}

// Name identifies the checker.
func (c *ChecklistChecker) Name() string { return "checklist" }

// Check evaluates every checklist item in registry order. An item passes
// when the relevant sections contain at least ceil(terms * ratio) of its
// key terms; failures raise issues at the item's declared criticality.
func (c *ChecklistChecker) Check(_ context.Context, doc *domain.Document, reg *domain.Registry) (CheckerReport, error) {
	var report CheckerReport
	summary := domain.ChecklistSummary{Total: len(reg.Checklist)}

	for _, item := range reg.Checklist {
		content := strings.ToLower(c.relevantContent(doc, item))
		terms := keyTerms(item.Description)

		var matched []string
		for _, term := range terms {
			if containsWord(content, term) {
				matched = append(matched, term)
			}
		}

		needed := int(math.Ceil(float64(len(terms)) * c.passRatio))
		passed := len(terms) == 0 || len(matched) >= needed

		summary.Items = append(summary.Items, domain.ChecklistItemResult{
			Item:         item,
			Passed:       passed,
			MatchedTerms: matched,
			TotalTerms:   len(terms),
		})

		if passed {
			summary.Passed++
			continue
		}
		summary.Failed++

		report.Issues = append(report.Issues, domain.Issue{
			Type:          domain.IssueChecklistFailure,
			Severity:      item.Criticality,
			Message:       fmt.Sprintf("checklist item %q is not addressed: %s", item.ID, item.Description),
			RegulatoryRef: item.RegulatoryRef,
			Details: map[string]string{
				"item":    item.ID,
				"matched": fmt.Sprintf("%d", len(matched)),
				"needed":  fmt.Sprintf("%d", needed),
				"total":   fmt.Sprintf("%d", len(terms)),
			},
		})
	}

	logger.Debug("Checklist: %d/%d items passed", summary.Passed, summary.Total)
	report.Checklist = &summary
	return report, nil
}

// relevantContent joins the sections an item consults. Items without a
// section-type mapping consult the whole document.
func (c *ChecklistChecker) relevantContent(doc *domain.Document, item domain.ChecklistItem) string {
	var parts []string
	if len(item.SectionTypes) == 0 {
		for i := range doc.Sections {
			parts = append(parts, doc.Sections[i].Content)
		}
		return strings.Join(parts, "\n")
	}

	for _, sectionType := range item.SectionTypes {
		for _, section := range doc.SectionsByType(sectionType) {
			parts = append(parts, section.Content)
		}
		// Fall back to ID and metadata matching for sections that are
		// present but typed loosely.
		if section, ok := doc.SectionByKey(sectionType); ok && !strings.EqualFold(section.Type, sectionType) {
			parts = append(parts, section.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// keyTerms derives the matchable terms of a checklist item description:
// quoted phrases verbatim, then stop-filtered words, with adjacent
// word pairs promoted to phrases when the second word is a noun head.
func keyTerms(description string) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for _, m := range quotedPhraseRe.FindAllStringSubmatch(description, -1) {
		add(strings.ToLower(strings.TrimSpace(m[1])))
	}
	unquoted := quotedPhraseRe.ReplaceAllString(description, " ")

	words := checklistWordRe.FindAllString(strings.ToLower(unquoted), -1)
	var kept []string
	for _, word := range words {
		if !checklistStopWords[word] {
			kept = append(kept, word)
		}
	}

	for i, word := range kept {
		if i > 0 && nounHeads[word] {
			add(kept[i-1] + " " + word)
			continue
		}
		add(word)
	}

	return terms
}
