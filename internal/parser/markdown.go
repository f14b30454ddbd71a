package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
}

// Structure summarizes the body signals the quality scorer consumes.
type Structure struct {
	WordCount    int
	Headings     []Heading
	SectionCount int // headings of level >= 2 with at least some following prose
}

// AnalyzeBody extracts structural signals from markdown body content using
// goldmark. Code blocks count toward words (they are content), but their
// text is not scanned for headings.
func AnalyzeBody(body string) Structure {
	s := Structure{
		WordCount: len(strings.Fields(body)),
		Headings:  ExtractHeadings(body),
	}
	for _, h := range s.Headings {
		if h.Level >= 2 {
			s.SectionCount++
		}
	}
	// A single top-level heading with prose still counts as one section.
	if s.SectionCount == 0 && len(s.Headings) > 0 {
		s.SectionCount = 1
	}
	return s
}

// ExtractHeadings extracts headings from markdown content using goldmark.
func ExtractHeadings(content string) []Heading {
	var headings []Heading

	md := goldmark.New()
	reader := text.NewReader([]byte(content))
	doc := md.Parser().Parse(reader)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok {
			var textBuilder strings.Builder
			for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					textBuilder.Write(textNode.Segment.Value([]byte(content)))
				}
			}

			headingText := strings.TrimSpace(textBuilder.String())
			if headingText == "" {
				return ast.WalkContinue, nil
			}

			headings = append(headings, Heading{
				Level: heading.Level,
				Text:  headingText,
			})
		}

		return ast.WalkContinue, nil
	})

	return headings
}
