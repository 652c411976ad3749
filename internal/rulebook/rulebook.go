// Package rulebook holds the declarative compliance rule tables: document
// type cues, required-section checklists, prohibited jurisdiction phrases,
// weak-language terms, signatory requirements, and process checklists. The
// rule engine and classifier are generic; all jurisdiction knowledge lives
// here as data and can be overridden from a YAML file.
package rulebook

import (
	"fmt"
	"os"

	"github.com/ppiankov/clausula/internal/model"
	"gopkg.in/yaml.v3"
)

// Rulebook is the complete rule table set for one jurisdiction
type Rulebook struct {
	TypeCues     []TypeCue                            `yaml:"type_cues"`
	Sections     map[model.DocumentType][]SectionRule `yaml:"sections"`
	Jurisdiction JurisdictionRules                    `yaml:"jurisdiction"`
	Language     LanguageRules                        `yaml:"language"`
	Signatory    SignatoryRules                       `yaml:"signatory"`
	Checklists   map[string]ProcessChecklist          `yaml:"checklists"`
}

// TypeCue is one classification cue entry. A document matches the entry when:
// at least one of Phrases appears in the full text or one of LeadPhrases in
// the opening blocks (vacuously true when both lists are empty), every AllOf
// term appears, and, if Indicators is non-empty, at least one indicator
// appears. Entries are priority-ordered; several entries may target the same
// type.
type TypeCue struct {
	Type        model.DocumentType `yaml:"type"`
	Phrases     []string           `yaml:"phrases,omitempty"`      // Strong cues anywhere in the text
	LeadPhrases []string           `yaml:"lead_phrases,omitempty"` // Strong cues in the title zone
	AllOf       []string           `yaml:"all_of,omitempty"`       // Terms that must all appear
	Indicators  []string           `yaml:"indicators,omitempty"`   // Corroborating terms, one required when set
}

// SectionRule describes one required section for a document type
type SectionRule struct {
	Key          string         `yaml:"key"`                     // Canonical section name, also the dedup topic
	Synonyms     []string       `yaml:"synonyms,omitempty"`      // Alternate cues anywhere in the text
	LeadSynonyms []string       `yaml:"lead_synonyms,omitempty"` // Cues accepted only in the opening blocks
	Severity     model.Severity `yaml:"severity"`                // critical or high, per section weight
	Regulation   string         `yaml:"regulation"`              // Why the section is required
}

// ProhibitedPhrase maps a disallowed jurisdiction reference to its correction
type ProhibitedPhrase struct {
	Phrase     string `yaml:"phrase"`
	Correction string `yaml:"correction"`
	Regulation string `yaml:"regulation"`
}

// JurisdictionRules covers prohibited references and the required local one
type JurisdictionRules struct {
	Prohibited []ProhibitedPhrase `yaml:"prohibited"`
	// RequiredRefs are the phrases that satisfy the local-jurisdiction
	// requirement; RequiredForTypes lists the types that must carry one.
	RequiredRefs     []string             `yaml:"required_refs"`
	RequiredForTypes []model.DocumentType `yaml:"required_for_types"`
	MissingRefNote   string               `yaml:"missing_ref_note"`
	Regulation       string               `yaml:"regulation"`
}

// WeakTerm is one permissive modal with its mandatory-language replacement
type WeakTerm struct {
	Term        string `yaml:"term"`
	Replacement string `yaml:"replacement"`
	Note        string `yaml:"note"`
}

// LanguageRules covers the weak-language check
type LanguageRules struct {
	WeakTerms          []WeakTerm `yaml:"weak_terms"`
	AcceptableContexts []string   `yaml:"acceptable_contexts"` // Phrases that exempt a block from the check
}

// SignatoryRules covers signature block detection
type SignatoryRules struct {
	Indicators []string             `yaml:"indicators"` // Any of these marks a signature section
	NameCues   []string             `yaml:"name_cues"`  // Evidence that the signatory name is filled in
	DateCues   []string             `yaml:"date_cues"`  // Evidence that the date field is filled in
	SkipTypes  []model.DocumentType `yaml:"skip_types"` // Types that legitimately carry no signatures
}

// ProcessChecklist lists the documents one regulatory process requires
type ProcessChecklist struct {
	Required []string `yaml:"required"` // Canonical display names
	Optional []string `yaml:"optional,omitempty"`
}

// SectionsFor returns the required-section rules for a type. Types without a
// checklist (registers, declarations, general documents) get nil: no
// completeness signal applies to them.
func (rb *Rulebook) SectionsFor(t model.DocumentType) []SectionRule {
	return rb.Sections[t]
}

// SkipsSignatureCheck reports whether the type is exempt from the signatory
// completeness check
func (rb *Rulebook) SkipsSignatureCheck(t model.DocumentType) bool {
	for _, s := range rb.Signatory.SkipTypes {
		if s == t {
			return true
		}
	}
	return false
}

// RequiresJurisdictionRef reports whether the type must name the local
// jurisdiction explicitly
func (rb *Rulebook) RequiresJurisdictionRef(t model.DocumentType) bool {
	for _, r := range rb.Jurisdiction.RequiredForTypes {
		if r == t {
			return true
		}
	}
	return false
}

// Validate rejects rule tables the engine cannot run on
func (rb *Rulebook) Validate() error {
	if len(rb.TypeCues) == 0 {
		return fmt.Errorf("%w: rulebook has no type cues", model.ErrConfiguration)
	}
	for t, rules := range rb.Sections {
		for _, r := range rules {
			if r.Key == "" {
				return fmt.Errorf("%w: empty section key for type %q", model.ErrConfiguration, t)
			}
			if r.Severity != model.SeverityCritical && r.Severity != model.SeverityHigh {
				return fmt.Errorf("%w: section %q for type %q must be critical or high, got %q",
					model.ErrConfiguration, r.Key, t, r.Severity)
			}
		}
	}
	for _, p := range rb.Jurisdiction.Prohibited {
		if p.Phrase == "" {
			return fmt.Errorf("%w: empty prohibited jurisdiction phrase", model.ErrConfiguration)
		}
	}
	for _, wt := range rb.Language.WeakTerms {
		if wt.Term == "" || wt.Replacement == "" {
			return fmt.Errorf("%w: weak term entries need both term and replacement", model.ErrConfiguration)
		}
	}
	return nil
}

// Load returns the built-in rulebook, with any section present in the YAML
// file at path replacing its built-in counterpart wholesale. An empty path
// returns the defaults unchanged.
func Load(path string) (*Rulebook, error) {
	rb := Default()
	if path == "" {
		return rb, rb.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rulebook: %w", err)
	}

	var override Rulebook
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("%w: parse rulebook %s: %v", model.ErrConfiguration, path, err)
	}

	if len(override.TypeCues) > 0 {
		rb.TypeCues = override.TypeCues
	}
	if len(override.Sections) > 0 {
		rb.Sections = override.Sections
	}
	if len(override.Jurisdiction.Prohibited) > 0 || len(override.Jurisdiction.RequiredRefs) > 0 {
		rb.Jurisdiction = override.Jurisdiction
	}
	if len(override.Language.WeakTerms) > 0 {
		rb.Language = override.Language
	}
	if len(override.Signatory.Indicators) > 0 {
		rb.Signatory = override.Signatory
	}
	if len(override.Checklists) > 0 {
		rb.Checklists = override.Checklists
	}

	return rb, rb.Validate()
}
