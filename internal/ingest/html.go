package ingest

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Clause is a candidate requirement clause lifted from a regulation document
type Clause struct {
	Text      string `json:"text" yaml:"text"`
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"` // section marker, e.g. "1020.320(a)"
	Paragraph int    `json:"paragraph" yaml:"paragraph"`                     // 0-based position in document
}

// sectionRe matches CFR-style section references in clause text
var sectionRe = regexp.MustCompile(`\b\d{3,4}\.\d{3}(?:\([a-z0-9]+\))*`)

// obligationCueRe marks text that reads like a duty rather than commentary
var obligationCueRe = regexp.MustCompile(`(?i)\b(shall|must|is required to|are required to|prohibited)\b`)

// DocumentParser extracts candidate requirement clauses from HTML
// regulation documents so new requirements can be drafted from source text.
type DocumentParser struct {
	minLength int
	maxLength int
}

// NewDocumentParser creates a parser with the standard clause length bounds
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{
		minLength: 40,
		maxLength: 2000,
	}
}

// ParseFile parses an HTML regulation document from disk
func (p *DocumentParser) ParseFile(path string) ([]Clause, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse extracts clauses from an HTML document. Paragraph-level text blocks
// that carry obligation language ("shall", "must", ...) become clauses;
// boilerplate and navigation text is dropped.
func (p *DocumentParser) Parse(r io.Reader) ([]Clause, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var clauses []Clause
	for i, block := range textBlocks(doc) {
		text := strings.Join(strings.Fields(block), " ")
		if len(text) < p.minLength || len(text) > p.maxLength {
			continue
		}
		if !obligationCueRe.MatchString(text) {
			continue
		}
		clauses = append(clauses, Clause{
			Text:      text,
			Reference: sectionRe.FindString(text),
			Paragraph: i,
		})
	}

	return clauses, nil
}

// textBlocks walks the document and returns visible text grouped by block
// element, skipping script, style, and navigation subtrees.
func textBlocks(doc *html.Node) []string {
	var blocks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			blocks = append(blocks, s)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "header", "footer":
				return
			case "p", "li", "div", "section", "article", "td", "blockquote":
				flush()
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				current.WriteString(text)
				current.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	flush()
	return blocks
}
