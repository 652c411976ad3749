package model

import "strings"

// ParsedDocument is the structural text representation produced by a document
// reader. It is immutable once built; the engine only reads it.
type ParsedDocument struct {
	Name      string      `json:"name,omitempty"`       // Display name (usually the file name)
	Blocks    []TextBlock `json:"blocks"`               // Ordered text blocks with structural roles
	RawText   string      `json:"-"`                    // Full text, block texts joined by newlines
	ByteLen   int         `json:"byte_len"`             // Length of the original input in bytes
	SourceExt string      `json:"source_ext,omitempty"` // Original file extension (".txt", ".html", ...)
}

// TextBlock is one unit of document text with its structural role
type TextBlock struct {
	Index int       `json:"index"` // Position in the document (0-based)
	Role  BlockRole `json:"role"`  // heading, paragraph, signature_line, table_row
	Text  string    `json:"text"`  // Block text, trimmed
}

// BlockRole classifies the structural role of a text block
type BlockRole string

const (
	RoleHeading       BlockRole = "heading"
	RoleParagraph     BlockRole = "paragraph"
	RoleSignatureLine BlockRole = "signature_line"
	RoleTableRow      BlockRole = "table_row"
)

// IsEmpty reports whether the document carries no analyzable text
func (d *ParsedDocument) IsEmpty() bool {
	return d == nil || strings.TrimSpace(d.RawText) == ""
}

// LowerText returns the full text lowercased for pattern scans
func (d *ParsedDocument) LowerText() string {
	return strings.ToLower(d.RawText)
}

// LeadingText returns the first n non-empty blocks joined, lowercased.
// Type cues in titles and openings weigh more than body mentions.
func (d *ParsedDocument) LeadingText(n int) string {
	var parts []string
	for _, b := range d.Blocks {
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		parts = append(parts, strings.ToLower(b.Text))
		if len(parts) >= n {
			break
		}
	}
	return strings.Join(parts, "\n")
}

// DocumentType labels a document with one of the fixed recognized types
type DocumentType string

const (
	TypeArticlesOfAssociation    DocumentType = "articles_of_association"
	TypeBoardResolution          DocumentType = "board_resolution"
	TypeShareholderResolution    DocumentType = "shareholder_resolution"
	TypeIncorporationApplication DocumentType = "incorporation_application"
	TypeEmploymentContract       DocumentType = "employment_contract"
	TypeRegister                 DocumentType = "register"
	TypeUBODeclaration           DocumentType = "ubo_declaration"
	TypeMemorandum               DocumentType = "memorandum"
	TypeCommercialAgreement      DocumentType = "commercial_agreement"
	TypeGeneralDocument          DocumentType = "general_document"
	TypeUnknown                  DocumentType = "unknown"
)

// AllDocumentTypes lists the recognized types in classification priority order
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		TypeArticlesOfAssociation,
		TypeBoardResolution,
		TypeShareholderResolution,
		TypeIncorporationApplication,
		TypeEmploymentContract,
		TypeRegister,
		TypeUBODeclaration,
		TypeMemorandum,
		TypeCommercialAgreement,
		TypeGeneralDocument,
	}
}

// DisplayName returns the human-readable name for a document type
func (t DocumentType) DisplayName() string {
	switch t {
	case TypeArticlesOfAssociation:
		return "Articles of Association"
	case TypeBoardResolution:
		return "Board Resolution"
	case TypeShareholderResolution:
		return "Shareholder Resolution"
	case TypeIncorporationApplication:
		return "Incorporation Application Form"
	case TypeEmploymentContract:
		return "Employment Contract"
	case TypeRegister:
		return "Register of Members and Directors"
	case TypeUBODeclaration:
		return "UBO Declaration Form"
	case TypeMemorandum:
		return "Memorandum of Association"
	case TypeCommercialAgreement:
		return "Commercial Agreement"
	case TypeGeneralDocument:
		return "General Document"
	default:
		return "Unknown"
	}
}
