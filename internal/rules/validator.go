// Package rules applies the deterministic compliance checks: required
// sections, prohibited jurisdiction references, weak language, and signatory
// completeness. All checks are driven by rulebook data and are independent of
// retrieval; findings carry full confidence.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/rulebook"
)

// leadSectionBlocks bounds how deep into the document lead-only section cues
// (company name suffixes in the title zone) are accepted
const leadSectionBlocks = 5

// Validator runs the rule checks for one document type
type Validator struct {
	rb        *rulebook.Rulebook
	weakTerms []compiledWeakTerm
}

type compiledWeakTerm struct {
	term        string
	replacement string
	pattern     *regexp.Regexp
}

// Result carries the rule findings plus the section-completeness signal the
// scorer consumes
type Result struct {
	Issues          []model.Issue
	MissingSections []string
	PresentSections []string
	TotalRequired   int
}

// NewValidator compiles the rulebook's weak-term patterns and returns a
// validator
func NewValidator(rb *rulebook.Rulebook) *Validator {
	v := &Validator{rb: rb}
	for _, wt := range rb.Language.WeakTerms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(wt.Term) + `\b`)
		if err != nil {
			continue
		}
		v.weakTerms = append(v.weakTerms, compiledWeakTerm{
			term:        wt.Term,
			replacement: wt.Replacement,
			pattern:     re,
		})
	}
	return v
}

// Validate runs all checks against the document. The only error condition is
// an empty document; every other outcome is a finding, not a failure.
func (v *Validator) Validate(doc *model.ParsedDocument, docType model.DocumentType) (*Result, error) {
	if doc.IsEmpty() {
		return nil, fmt.Errorf("%w: document has no analyzable text", model.ErrInputDocument)
	}

	result := &Result{}

	result.Issues = append(result.Issues, v.checkJurisdiction(doc, docType)...)
	result.Issues = append(result.Issues, v.checkWeakLanguage(doc)...)
	result.Issues = append(result.Issues, v.checkRequiredSections(doc, docType, result)...)
	result.Issues = append(result.Issues, v.checkSignatory(doc, docType)...)

	return result, nil
}

// checkJurisdiction flags prohibited jurisdiction references per block and a
// missing local-jurisdiction reference for types that must carry one
func (v *Validator) checkJurisdiction(doc *model.ParsedDocument, docType model.DocumentType) []model.Issue {
	var issues []model.Issue

	for _, block := range doc.Blocks {
		blockLower := strings.ToLower(block.Text)
		for _, p := range v.rb.Jurisdiction.Prohibited {
			if !strings.Contains(blockLower, strings.ToLower(p.Phrase)) {
				continue
			}
			issues = append(issues, model.Issue{
				ID:          uuid.NewString(),
				SourceKind:  model.SourceRuleBased,
				Severity:    model.SeverityCritical,
				Topic:       "jurisdiction:" + strings.ToLower(p.Phrase),
				Description: fmt.Sprintf("Incorrect jurisdiction reference: '%s'", p.Phrase),
				Suggestion:  p.Correction,
				Regulation:  p.Regulation,
				BlockIndex:  block.Index,
				Confidence:  1.0,
			})
		}
	}

	if v.rb.RequiresJurisdictionRef(docType) {
		text := doc.LowerText()
		found := false
		for _, ref := range v.rb.Jurisdiction.RequiredRefs {
			if strings.Contains(text, ref) {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, model.Issue{
				ID:          uuid.NewString(),
				SourceKind:  model.SourceRuleBased,
				Severity:    model.SeverityHigh,
				Topic:       "jurisdiction:missing_ref",
				Description: "Missing ADGM jurisdiction reference",
				Suggestion:  v.rb.Jurisdiction.MissingRefNote,
				Regulation:  v.rb.Jurisdiction.Regulation,
				BlockIndex:  0,
				Confidence:  1.0,
			})
		}
	}

	return issues
}

// checkWeakLanguage flags permissive modals outside the acceptable contexts
func (v *Validator) checkWeakLanguage(doc *model.ParsedDocument) []model.Issue {
	var issues []model.Issue

	for _, block := range doc.Blocks {
		blockLower := strings.ToLower(block.Text)

		if containsAny(blockLower, v.rb.Language.AcceptableContexts) {
			continue
		}

		for _, wt := range v.weakTerms {
			if !wt.pattern.MatchString(block.Text) {
				continue
			}
			issues = append(issues, model.Issue{
				ID:          uuid.NewString(),
				SourceKind:  model.SourceRuleBased,
				Severity:    model.SeverityMedium,
				Topic:       "language:" + wt.term,
				Description: fmt.Sprintf("Weak language detected: '%s'", wt.term),
				Suggestion:  fmt.Sprintf("Replace '%s' with '%s'", wt.term, wt.replacement),
				Regulation:  "ADGM legal drafting standards",
				BlockIndex:  block.Index,
				Confidence:  1.0,
			})
		}
	}

	return issues
}

// checkRequiredSections scans for each section the type requires and records
// presence for the completeness signal
func (v *Validator) checkRequiredSections(doc *model.ParsedDocument, docType model.DocumentType, result *Result) []model.Issue {
	rules := v.rb.SectionsFor(docType)
	result.TotalRequired = len(rules)
	if len(rules) == 0 {
		return nil
	}

	text := doc.LowerText()
	lead := doc.LeadingText(leadSectionBlocks)

	var issues []model.Issue
	for _, rule := range rules {
		if sectionPresent(text, lead, rule) {
			result.PresentSections = append(result.PresentSections, rule.Key)
			continue
		}
		result.MissingSections = append(result.MissingSections, rule.Key)
		issues = append(issues, model.Issue{
			ID:          uuid.NewString(),
			SourceKind:  model.SourceRuleBased,
			Severity:    rule.Severity,
			Topic:       "section:" + rule.Key,
			Description: fmt.Sprintf("Missing required section: '%s'", rule.Key),
			Suggestion:  fmt.Sprintf("Add a section covering '%s'", rule.Key),
			Regulation:  rule.Regulation,
			BlockIndex:  -1,
			Confidence:  1.0,
		})
	}

	return issues
}

// sectionPresent matches the section key, its collapsed form, any synonym,
// or a lead-zone synonym
func sectionPresent(text, lead string, rule rulebook.SectionRule) bool {
	if strings.Contains(text, rule.Key) {
		return true
	}
	if collapsed := strings.ReplaceAll(rule.Key, " ", ""); collapsed != rule.Key && strings.Contains(text, collapsed) {
		return true
	}
	if containsAny(text, rule.Synonyms) {
		return true
	}
	return containsAny(lead, rule.LeadSynonyms)
}

// checkSignatory verifies the signature section exists and its blocks carry
// name and date fields
func (v *Validator) checkSignatory(doc *model.ParsedDocument, docType model.DocumentType) []model.Issue {
	if v.rb.SkipsSignatureCheck(docType) {
		return nil
	}

	text := doc.LowerText()
	if !containsAny(text, lowerAll(v.rb.Signatory.Indicators)) {
		return []model.Issue{{
			ID:          uuid.NewString(),
			SourceKind:  model.SourceRuleBased,
			Severity:    model.SeverityHigh,
			Topic:       "signatory:block",
			Description: "Missing signature section",
			Suggestion:  "Add proper signature blocks with name, title, and date fields",
			Regulation:  "ADGM execution requirements",
			BlockIndex:  maxBlockIndex(doc),
			Confidence:  1.0,
		}}
	}

	var issues []model.Issue
	for i, block := range doc.Blocks {
		if !strings.Contains(block.Text, "____") {
			continue
		}
		blockLower := strings.ToLower(block.Text)
		if containsAny(blockLower, lowerAll(v.rb.Signatory.NameCues)) {
			continue
		}

		// Look at the surrounding blocks as one signature unit
		neighborhood := signatureNeighborhood(doc, i)

		var missing []string
		if !containsAny(neighborhood, lowerAll(v.rb.Signatory.NameCues)) {
			missing = append(missing, "signatory name")
		}
		if !containsAny(neighborhood, lowerAll(v.rb.Signatory.DateCues)) {
			missing = append(missing, "date field")
		}
		if len(missing) == 0 {
			continue
		}

		issues = append(issues, model.Issue{
			ID:          uuid.NewString(),
			SourceKind:  model.SourceRuleBased,
			Severity:    model.SeverityMedium,
			Topic:       "signatory:fields",
			Description: fmt.Sprintf("Incomplete signature block - missing %s", strings.Join(missing, ", ")),
			Suggestion:  "Complete all signature fields with name, title, and date",
			Regulation:  "ADGM documentation standards",
			BlockIndex:  block.Index,
			Confidence:  1.0,
		})
	}

	return issues
}

// signatureNeighborhood joins the blocks around index i (two before, two
// after), lowercased
func signatureNeighborhood(doc *model.ParsedDocument, i int) string {
	start := i - 2
	if start < 0 {
		start = 0
	}
	end := i + 3
	if end > len(doc.Blocks) {
		end = len(doc.Blocks)
	}
	var parts []string
	for _, b := range doc.Blocks[start:end] {
		parts = append(parts, strings.ToLower(b.Text))
	}
	return strings.Join(parts, " ")
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func maxBlockIndex(doc *model.ParsedDocument) int {
	if len(doc.Blocks) == 0 {
		return -1
	}
	return doc.Blocks[len(doc.Blocks)-1].Index
}
