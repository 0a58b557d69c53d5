package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
	"github.com/WangYihang/domain-triage/pkg/domain/service"
)

// hiddenTags never contribute to the visible text of a page
const hiddenTags = "script, style, noscript, template"

// Parser implements service.HTMLParser
type Parser struct{}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements service.HTMLParser
func (p *Parser) Parse(body string) (*service.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &entity.ParseAnomaly{Err: err}
	}

	tagCounts := make(map[string]int)
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		tagCounts[goquery.NodeName(s)]++
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(hiddenTags).Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")

	return &service.Document{
		Title:     title,
		Text:      text,
		TagCounts: tagCounts,
	}, nil
}
