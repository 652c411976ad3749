package reader

import (
	"strings"
	"unicode"

	"github.com/ppiankov/clausula/internal/model"
)

// TextReader parses plain text and markdown-style documents
type TextReader struct{}

// NewTextReader creates a plain-text reader
func NewTextReader() *TextReader {
	return &TextReader{}
}

// Name returns the reader name
func (t *TextReader) Name() string {
	return "text"
}

// CanHandle checks for plain text extensions
func (t *TextReader) CanHandle(filename string, contentType string) bool {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".md") {
		return true
	}
	return strings.HasPrefix(contentType, "text/plain") || strings.HasPrefix(contentType, "text/markdown")
}

// Parse splits the text into blocks and assigns structural roles
func (t *TextReader) Parse(data []byte, name string) (*model.ParsedDocument, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var blocks []model.TextBlock
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		blocks = append(blocks, model.TextBlock{
			Index: len(blocks),
			Role:  classifyLine(trimmed),
			Text:  trimmed,
		})
	}

	return &model.ParsedDocument{
		Name:    name,
		Blocks:  blocks,
		RawText: text,
		ByteLen: len(data),
	}, nil
}

// signatureCues mark a line as part of a signature block
var signatureCues = []string{"signature", "signed", "authorized signatory", "name:", "date:", "title:"}

// classifyLine assigns a structural role to one trimmed line
func classifyLine(line string) model.BlockRole {
	lower := strings.ToLower(line)

	if strings.Contains(line, "____") {
		return model.RoleSignatureLine
	}
	for _, cue := range signatureCues {
		if strings.HasPrefix(lower, cue) {
			return model.RoleSignatureLine
		}
	}

	if strings.Count(line, "|") >= 2 || strings.Contains(line, "\t") {
		return model.RoleTableRow
	}

	if isHeading(line, lower) {
		return model.RoleHeading
	}

	return model.RoleParagraph
}

// isHeading detects markdown headings, ALL-CAPS titles, and numbered
// article/clause headings
func isHeading(line, lower string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	if len(line) <= 80 && isAllCaps(line) {
		return true
	}
	// "Article 3: Share Capital", "3. Share Capital", "3.1 Directors"
	if len(line) <= 80 {
		if strings.HasPrefix(lower, "article ") || strings.HasPrefix(lower, "clause ") ||
			strings.HasPrefix(lower, "schedule ") || strings.HasPrefix(lower, "part ") {
			return true
		}
		if startsWithClauseNumber(line) {
			return true
		}
	}
	return false
}

// isAllCaps reports whether a line has letters and none of them lowercase
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// startsWithClauseNumber matches "1.", "2.3", "10.1.2" prefixes followed by text
func startsWithClauseNumber(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return false
	}
	rest := strings.TrimLeft(line[i+1:], "0123456789.")
	return strings.HasPrefix(rest, " ")
}
