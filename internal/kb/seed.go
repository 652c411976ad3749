package kb

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/clausula/internal/model"
	"gopkg.in/yaml.v3"
)

// Seed returns the built-in ADGM regulatory passages. These summarize the
// Registration Authority's published requirements and ship with the binary so
// analysis works before any corpus import.
func Seed() []model.Passage {
	return []model.Passage{
		{
			ID:              "adgm-core-requirements",
			SourceTitle:     "ADGM Registration Authority Official Requirements",
			JurisdictionTag: "ADGM",
			Text: `Core ADGM Requirements:
JURISDICTION: All documents must reference "Abu Dhabi Global Market" or "ADGM" as jurisdiction.
GOVERNING LAW: Must specify "ADGM Laws and Regulations" as governing law.
DISPUTE RESOLUTION: Disputes resolved through "ADGM Courts" or "ADGM Arbitration Centre".
REGISTERED OFFICE: Must be maintained within ADGM at all times.
COMPANY NAME: Must include appropriate suffix (Limited, Ltd, LLC, Inc).
DIRECTORS: Minimum one director required, must be natural person 18+ years.
SHARE CAPITAL: Must be specified in authorized currency.
SIGNATURES: All documents require proper signatures with dates.`,
		},
		{
			ID:              "adgm-incorporation-requirements",
			SourceTitle:     "ADGM Company Registration and Incorporation Requirements",
			JurisdictionTag: "ADGM",
			Text: `ADGM Company Registration and Incorporation Requirements:
Companies must be registered with the ADGM Registration Authority.
Required documents include Articles of Association, Board Resolutions, Shareholder Resolutions.
All companies must maintain a registered office in ADGM jurisdiction.
Minimum one director required (natural person, 18+ years).
Share capital must be specified in authorized currencies (USD, AED, GBP, EUR).
Company name must include appropriate suffix (Limited, Ltd, LLC).
All documents must reference ADGM jurisdiction and laws.`,
		},
		{
			ID:              "adgm-template-requirements",
			SourceTitle:     "ADGM Registration Authority Templates",
			JurisdictionTag: "ADGM",
			Text: `Document Template Requirements (Per ADGM Official Templates):

ARTICLES OF ASSOCIATION:
Company name with appropriate suffix; registered office in ADGM; objects and
powers clause; share capital details; directors and shareholders provisions;
meeting procedures; governing law (ADGM); dispute resolution (ADGM Courts).

BOARD RESOLUTION:
Company name and registration number; date, time, venue of meeting; directors
present and absent; quorum confirmation; resolution language ("IT WAS
RESOLVED"); directors' signatures with dates.

SHAREHOLDER RESOLUTION:
Company name; date of resolution; shareholder details and holdings; clear
resolution language; all shareholders' signatures.`,
		},
		{
			ID:              "adgm-compliance-rules",
			SourceTitle:     "ADGM Compliance Guidelines",
			JurisdictionTag: "ADGM",
			Text: `ADGM Compliance Requirements:

LANGUAGE REQUIREMENTS:
Use binding terms: shall, must, will, is required to.
Avoid weak language: may, might, could, possibly.
Resolution language: IT WAS RESOLVED, RESOLVED THAT.

JURISDICTION COMPLIANCE:
Must NOT reference UAE Federal Courts, Dubai Courts, DIFC.
Must reference ADGM or Abu Dhabi Global Market.
Governing law must be ADGM Laws and Regulations.

SIGNATURE REQUIREMENTS:
All documents must have complete signature sections.
Include full name, title, and date for each signatory.
Electronic signatures acceptable with authentication.`,
		},
		{
			ID:              "adgm-employment-regulations",
			SourceTitle:     "ADGM Employment Regulations 2019",
			JurisdictionTag: "ADGM",
			Text: `ADGM Employment Regulations:
All employment contracts must comply with ADGM Employment Regulations 2019.
Required elements: job title, duties, salary, working hours, leave entitlements.
Minimum notice periods based on employment duration.
Maximum 48 hours per week unless opt-out signed.
Minimum 20 days annual leave plus ADGM public holidays.
Contracts must specify ADGM as jurisdiction.`,
		},
		{
			ID:              "adgm-data-protection",
			SourceTitle:     "ADGM Data Protection Regulations 2021",
			JurisdictionTag: "ADGM",
			Text: `ADGM Data Protection Regulations 2021:
Lawful basis required for processing personal data.
Data subject rights include access, rectification, erasure, portability.
72-hour breach notification requirement.
Data Protection Officer required for certain organizations.
Appropriate policy documents must be maintained.`,
		},
		{
			ID:              "adgm-setup-checklist",
			SourceTitle:     "ADGM Company Setup Checklist",
			JurisdictionTag: "ADGM",
			Text: `ADGM Company Setup Checklist:
Verify company name availability.
Prepare Articles of Association.
Draft Board and Shareholder Resolutions.
Complete incorporation application forms.
Establish registered office in ADGM.
Appoint directors and secretary (if required).
Define share capital structure.
Submit all documents to the Registration Authority.`,
		},
	}
}

type seedFile struct {
	Passages []seedPassage `yaml:"passages"`
}

type seedPassage struct {
	ID              string `yaml:"id"`
	SourceTitle     string `yaml:"source_title"`
	JurisdictionTag string `yaml:"jurisdiction_tag"`
	Text            string `yaml:"text"`
}

// LoadSeedFile reads additional passages from a YAML file. Entries with an
// empty id or empty text are rejected.
func LoadSeedFile(path string) ([]model.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	var out []model.Passage
	for i, sp := range f.Passages {
		if sp.ID == "" {
			return nil, fmt.Errorf("seed file: passage %d has no id", i)
		}
		if sp.Text == "" {
			return nil, fmt.Errorf("seed file: passage %q has no text", sp.ID)
		}
		out = append(out, model.Passage{
			ID:              sp.ID,
			SourceTitle:     sp.SourceTitle,
			JurisdictionTag: sp.JurisdictionTag,
			Text:            sp.Text,
		})
	}
	return out, nil
}

// EnsureSeeded writes the built-in passages into an empty corpus. A corpus
// that already holds passages is left untouched.
func EnsureSeeded(ctx context.Context, c *Corpus) (int, error) {
	n, err := c.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	seeds := Seed()
	if err := c.UpsertBatch(ctx, seeds); err != nil {
		return 0, fmt.Errorf("seed corpus: %w", err)
	}
	return len(seeds), nil
}
