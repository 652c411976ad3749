package reader

import (
	"strings"

	"github.com/ppiankov/clausula/internal/model"
	"golang.org/x/net/html"
)

// HTMLReader parses HTML documents into text blocks
type HTMLReader struct{}

// NewHTMLReader creates an HTML reader
func NewHTMLReader() *HTMLReader {
	return &HTMLReader{}
}

// Name returns the reader name
func (h *HTMLReader) Name() string {
	return "html"
}

// CanHandle checks for HTML extensions and content types
func (h *HTMLReader) CanHandle(filename string, contentType string) bool {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return true
	}
	return strings.Contains(contentType, "text/html")
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Parse walks the HTML tree and emits one block per content element
func (h *HTMLReader) Parse(data []byte, name string) (*model.ParsedDocument, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	var blocks []model.TextBlock
	appendBlock := func(role model.BlockRole, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		// Signature cues override the element-derived role
		if lineRole := classifyLine(text); lineRole == model.RoleSignatureLine {
			role = lineRole
		}
		blocks = append(blocks, model.TextBlock{
			Index: len(blocks),
			Role:  role,
			Text:  text,
		})
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case headingTags[n.Data]:
				appendBlock(model.RoleHeading, extractText(n))
				return
			case n.Data == "p" || n.Data == "li":
				appendBlock(model.RoleParagraph, extractText(n))
				return
			case n.Data == "tr":
				appendBlock(model.RoleTableRow, extractRow(n))
				return
			case n.Data == "script" || n.Data == "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Documents without block markup still need their text
	if len(blocks) == 0 {
		appendBlock(model.RoleParagraph, extractText(doc))
	}

	var texts []string
	for _, b := range blocks {
		texts = append(texts, b.Text)
	}

	return &model.ParsedDocument{
		Name:    name,
		Blocks:  blocks,
		RawText: strings.Join(texts, "\n"),
		ByteLen: len(data),
	}, nil
}

// extractText extracts the text content of a node tree
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		part := extractText(c)
		if part == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(part)
	}
	return buf.String()
}

// extractRow joins a table row's cells with a pipe so downstream scans see
// the row as one unit
func extractRow(n *html.Node) string {
	var cells []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "td" || node.Data == "th") {
			if text := extractText(node); text != "" {
				cells = append(cells, text)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(cells, " | ")
}
