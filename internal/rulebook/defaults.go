package rulebook

import "github.com/ppiankov/clausula/internal/model"

const regCompanies2020Art6 = "ADGM Companies Regulations 2020, Art. 6"

// Default returns the built-in ADGM rulebook
func Default() *Rulebook {
	return &Rulebook{
		TypeCues:     defaultTypeCues(),
		Sections:     defaultSections(),
		Jurisdiction: defaultJurisdiction(),
		Language:     defaultLanguage(),
		Signatory:    defaultSignatory(),
		Checklists:   defaultChecklists(),
	}
}

// defaultTypeCues lists classification cues in priority order. Articles of
// association outrank resolutions because resolutions routinely quote them;
// the generic agreement entry sits last so specific types win.
func defaultTypeCues() []TypeCue {
	return []TypeCue{
		{
			Type: model.TypeArticlesOfAssociation,
			Phrases: []string{
				"articles of association",
				"article 1:",
				"article i:",
				"article 1 interpretation",
				"article 2: registered office",
			},
			LeadPhrases: []string{"articles of association", "article 1:", "article i:"},
			Indicators: []string{
				"company name", "registered office", "share capital",
				"directors", "governing law", "interpretation",
			},
		},
		{
			Type: model.TypeBoardResolution,
			Phrases: []string{
				"board resolution",
				"resolution of the board",
				"board of directors",
				"directors present",
				"it was resolved",
				"be it resolved",
			},
			Indicators: []string{"meeting", "directors", "resolved", "quorum"},
		},
		{
			Type: model.TypeShareholderResolution,
			Phrases: []string{
				"shareholder resolution",
				"resolution of shareholders",
				"shareholders resolution",
				"resolution of incorporating shareholders",
				"incorporating shareholders",
			},
		},
		{
			Type:       model.TypeShareholderResolution,
			AllOf:      []string{"shareholder", "resolution"},
			Indicators: []string{"shares", "shareholding", "shareholders present"},
		},
		{
			Type: model.TypeIncorporationApplication,
			Phrases: []string{
				"adgm registration authority",
				"application for incorporation",
				"incorporation application",
				"application to incorporate",
				"company incorporation application",
				"registration authority",
				"name reservation number",
			},
			AllOf: []string{"application"},
		},
		{
			Type: model.TypeEmploymentContract,
			Phrases: []string{
				"employment agreement",
				"employment contract",
				"contract of employment",
			},
		},
		{
			Type:       model.TypeEmploymentContract,
			AllOf:      []string{"employment"},
			Indicators: []string{"employee", "employer", "salary", "working hours"},
		},
		{
			Type: model.TypeRegister,
			Phrases: []string{
				"register of members",
				"register of directors",
				"members register",
				"directors register",
				"part a: register",
				"part b: register",
			},
		},
		{
			Type: model.TypeUBODeclaration,
			Phrases: []string{
				"ubo declaration",
				"beneficial ownership",
				"ultimate beneficial owner",
				"declaration of beneficial ownership",
			},
		},
		{
			Type:        model.TypeMemorandum,
			Phrases:     []string{"memorandum of association", "memorandum and articles"},
			LeadPhrases: []string{"memorandum"},
			Indicators: []string{
				"name", "registered office", "objects",
				"liability", "share capital", "subscribers",
			},
		},
		{
			Type: model.TypeCommercialAgreement,
			Phrases: []string{
				"this agreement",
				"this contract",
				"between party a",
				"between party b",
			},
			Indicators: []string{"terms and conditions", "governing law"},
		},
	}
}

func defaultSections() map[model.DocumentType][]SectionRule {
	return map[model.DocumentType][]SectionRule{
		model.TypeArticlesOfAssociation: {
			{
				Key:      "company name",
				Synonyms: []string{"company name", "company:", "entity name", "\"company\" means"},
				LeadSynonyms: []string{
					"limited", "ltd", "llc", "inc", "corporation", "corp", "company",
				},
				Severity:   model.SeverityHigh,
				Regulation: "Per ADGM Companies Regulations 2020, Art. 30: Company name required",
			},
			{
				Key:        "registered office",
				Severity:   model.SeverityCritical,
				Regulation: "Per ADGM Companies Regulations 2020, Art. 25: Registered office must be specified",
			},
			{
				Key:        "share capital",
				Severity:   model.SeverityHigh,
				Regulation: "Per ADGM Companies Regulations 2020, Art. 12: Share capital details required",
			},
			{
				Key:        "directors",
				Severity:   model.SeverityHigh,
				Regulation: "Per ADGM Companies Regulations 2020, Art. 15: Director provisions required",
			},
			{
				Key:        "governing law",
				Severity:   model.SeverityCritical,
				Regulation: "Per ADGM Companies Regulations 2020, Art. 6: Governing law clause required",
			},
			{
				Key:        "interpretation",
				Severity:   model.SeverityHigh,
				Regulation: "Definitions section required for clarity",
			},
		},
		model.TypeBoardResolution: {
			{
				Key: "date",
				Synonyms: []string{
					"dated", "date:", "on this day",
					"january", "february", "march", "april", "may", "june", "july",
					"august", "september", "october", "november", "december",
					"2024", "2025", "2026",
				},
				Severity:   model.SeverityHigh,
				Regulation: "Date of resolution required",
			},
			{
				Key:        "present",
				Synonyms:   []string{"present:", "attendance", "directors present", "in attendance"},
				Severity:   model.SeverityHigh,
				Regulation: "Attendance record required",
			},
			{
				Key:        "resolved",
				Synonyms:   []string{"resolved", "resolution", "it was resolved", "be it resolved"},
				Severity:   model.SeverityCritical,
				Regulation: "Resolution language required",
			},
			{
				Key:        "signature",
				Synonyms:   []string{"signature", "signed", "____", "authorized signatory", "signatory"},
				Severity:   model.SeverityHigh,
				Regulation: "Director signatures required",
			},
		},
		model.TypeShareholderResolution: {
			{
				Key:        "shareholder",
				Synonyms:   []string{"shareholder", "member", "shares", "shareholding"},
				Severity:   model.SeverityHigh,
				Regulation: "Shareholder details required",
			},
			{
				Key:        "resolved",
				Synonyms:   []string{"resolved", "resolution", "it was resolved", "be it resolved"},
				Severity:   model.SeverityCritical,
				Regulation: "Resolution language required",
			},
			{
				Key:        "signature",
				Synonyms:   []string{"signature", "signed", "____", "authorized signatory", "signatory"},
				Severity:   model.SeverityHigh,
				Regulation: "Shareholder signatures required",
			},
		},
		model.TypeMemorandum: {
			{
				Key:        "name",
				Severity:   model.SeverityHigh,
				Regulation: "Company name required",
			},
			{
				Key:        "registered office",
				Severity:   model.SeverityCritical,
				Regulation: "Registered office required",
			},
			{
				Key:        "objects",
				Severity:   model.SeverityHigh,
				Regulation: "Objects of the company required",
			},
			{
				Key:        "liability",
				Severity:   model.SeverityHigh,
				Regulation: "Liability of members required",
			},
			{
				Key:        "share capital",
				Severity:   model.SeverityHigh,
				Regulation: "Share capital required",
			},
			{
				Key:        "subscriber",
				Severity:   model.SeverityHigh,
				Regulation: "Subscriber details required",
			},
		},
		model.TypeIncorporationApplication: {
			{
				Key:        "company details",
				Synonyms:   []string{"company details", "company information", "proposed company"},
				Severity:   model.SeverityHigh,
				Regulation: "Company information section required",
			},
			{
				Key:        "registered office",
				Severity:   model.SeverityCritical,
				Regulation: "ADGM registered office address required",
			},
			{
				Key:        "share capital",
				Severity:   model.SeverityHigh,
				Regulation: "Share capital structure required",
			},
			{
				Key:        "directors",
				Severity:   model.SeverityHigh,
				Regulation: "Director information required",
			},
			{
				Key:        "shareholders",
				Synonyms:   []string{"shareholder", "member", "shares", "shareholding"},
				Severity:   model.SeverityHigh,
				Regulation: "Shareholder details required",
			},
		},
		model.TypeEmploymentContract: {
			{
				Key:        "employee",
				Synonyms:   []string{"employee", "employment", "employer"},
				Severity:   model.SeverityHigh,
				Regulation: "Employee details required",
			},
			{
				Key:        "position",
				Synonyms:   []string{"position", "job title", "role", "designation"},
				Severity:   model.SeverityHigh,
				Regulation: "Job position/title required",
			},
			{
				Key:        "salary",
				Synonyms:   []string{"salary", "compensation", "remuneration", "aed", "usd"},
				Severity:   model.SeverityHigh,
				Regulation: "Compensation details required",
			},
			{
				Key:        "working hours",
				Synonyms:   []string{"working hours", "hours of work", "working time"},
				Severity:   model.SeverityHigh,
				Regulation: "Working hours specification required",
			},
			{
				Key:        "termination",
				Synonyms:   []string{"termination", "notice period", "end of employment"},
				Severity:   model.SeverityHigh,
				Regulation: "Termination provisions required",
			},
		},
	}
}

func defaultJurisdiction() JurisdictionRules {
	return JurisdictionRules{
		Prohibited: []ProhibitedPhrase{
			{
				Phrase:     "UAE Federal Courts",
				Correction: "Per ADGM Companies Regulations 2020, Art. 6: Replace with 'ADGM Courts'",
				Regulation: regCompanies2020Art6,
			},
			{
				Phrase:     "Dubai Courts",
				Correction: "Per ADGM Companies Regulations 2020, Art. 6: Use 'ADGM Courts' instead",
				Regulation: regCompanies2020Art6,
			},
			{
				Phrase:     "Abu Dhabi Courts",
				Correction: "Per ADGM Companies Regulations 2020, Art. 6: Should be 'ADGM Courts'",
				Regulation: regCompanies2020Art6,
			},
			{
				Phrase:     "Dubai International Financial Centre",
				Correction: "Wrong jurisdiction - use 'Abu Dhabi Global Market'",
				Regulation: regCompanies2020Art6,
			},
			{
				Phrase:     "DIFC",
				Correction: "Incorrect jurisdiction - must specify 'Abu Dhabi Global Market (ADGM)'",
				Regulation: regCompanies2020Art6,
			},
			{
				Phrase:     "mainland UAE",
				Correction: "Specify 'Abu Dhabi Global Market' for ADGM entities",
				Regulation: regCompanies2020Art6,
			},
			{
				Phrase:     "onshore UAE",
				Correction: "ADGM entities must reference 'Abu Dhabi Global Market'",
				Regulation: regCompanies2020Art6,
			},
		},
		RequiredRefs: []string{"abu dhabi global market", "adgm"},
		RequiredForTypes: []model.DocumentType{
			model.TypeArticlesOfAssociation,
			model.TypeBoardResolution,
			model.TypeShareholderResolution,
			model.TypeMemorandum,
			model.TypeIncorporationApplication,
			model.TypeEmploymentContract,
		},
		MissingRefNote: "Add explicit reference to 'Abu Dhabi Global Market (ADGM)' jurisdiction",
		Regulation:     regCompanies2020Art6,
	}
}

func defaultLanguage() LanguageRules {
	return LanguageRules{
		WeakTerms: []WeakTerm{
			{Term: "may", Replacement: "shall", Note: "Per ADGM legal drafting standards: Use 'shall' for mandatory obligations"},
			{Term: "might", Replacement: "shall", Note: "Per ADGM legal drafting standards: Replace with 'shall' for binding effect"},
			{Term: "could", Replacement: "shall", Note: "Per ADGM legal drafting standards: Use 'shall' for mandatory provisions"},
			{Term: "possibly", Replacement: "shall", Note: "Ambiguous language - use 'shall' for clarity"},
			{Term: "perhaps", Replacement: "shall", Note: "Uncertain language - replace with 'shall'"},
			{Term: "should", Replacement: "shall", Note: "Weak obligation - use 'shall' for binding requirements"},
		},
		AcceptableContexts: []string{
			"may be called",
			"as may be",
			"may from time to time",
			"shall have the power",
			"may terminate",
			"may be amended",
		},
	}
}

func defaultSignatory() SignatoryRules {
	return SignatoryRules{
		Indicators: []string{"signature", "signed", "authorized signatory", "_______", "____"},
		NameCues:   []string{"name:"},
		DateCues:   []string{"date:", "dated"},
		SkipTypes:  []model.DocumentType{model.TypeGeneralDocument, model.TypeRegister},
	}
}

func defaultChecklists() map[string]ProcessChecklist {
	return map[string]ProcessChecklist{
		"company_incorporation": {
			Required: []string{
				"Articles of Association",
				"Board Resolution",
				"Shareholder Resolution",
				"Incorporation Application Form",
				"Register of Members and Directors",
			},
			Optional: []string{
				"UBO Declaration Form",
				"Memorandum of Association",
				"Power of Attorney",
			},
		},
		"licensing": {
			Required: []string{
				"License Application Form",
				"Business Plan",
				"Compliance Manual",
				"Board Resolution for License",
				"Financial Projections",
			},
			Optional: []string{
				"Reference Letters",
				"CV of Key Personnel",
			},
		},
		"employment": {
			Required: []string{
				"Employment Contract",
				"Job Description",
				"Salary Certificate",
			},
			Optional: []string{
				"Offer Letter",
				"Non-Disclosure Agreement",
			},
		},
	}
}
