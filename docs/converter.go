package docs

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"

	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// DefaultLinkBase is where [[Label]] references point.
const DefaultLinkBase = "https://schema.org/"

var (
	wikiLinkRe       = regexp.MustCompile(`\[\[([A-Za-z0-9_]+)\]\]`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Converter converts comment HTML to markdown.
type Converter struct {
	converter *md.Converter
	linkBase  string
}

// NewConverter creates a converter whose [[Label]] links resolve against
// linkBase. An empty linkBase uses DefaultLinkBase.
func NewConverter(linkBase string) *Converter {
	if linkBase == "" {
		linkBase = DefaultLinkBase
	}
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Converter{
		converter: converter,
		linkBase:  linkBase,
	}
}

// Convert returns comment as markdown. Plain text is returned trimmed, with
// [[Label]] references turned into links.
func (c *Converter) Convert(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", nil
	}

	if !containsMarkup(comment) {
		return wikiLinkRe.ReplaceAllStringFunc(comment, func(m string) string {
			label := wikiLinkRe.FindStringSubmatch(m)[1]
			return fmt.Sprintf("[%s](%s%s)", label, c.linkBase, label)
		}), nil
	}

	withAnchors := wikiLinkRe.ReplaceAllString(comment, `<a href="`+c.linkBase+`$1">$1</a>`)
	markdown, err := c.converter.ConvertString(withAnchors)
	if err != nil {
		return "", fmt.Errorf("convert comment: %w", err)
	}
	return cleanMarkdown(markdown), nil
}

// containsMarkup reports whether s has at least one HTML tag.
func containsMarkup(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

func cleanMarkdown(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	markdown = strings.Join(lines, "\n")
	markdown = excessiveLinesRe.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

// Descriptions maps the label of every item carrying an rdfs:comment to its
// markdown rendering. Items without a label are skipped.
func Descriptions(items []jsonld.Item, conv *Converter) (map[string]string, error) {
	out := make(map[string]string)
	for _, it := range items {
		comment := it.Text(schemaorg.Comment)
		if comment == "" {
			continue
		}
		label, err := jsonld.ExtractLabel(it)
		if err != nil {
			continue
		}
		markdown, err := conv.Convert(comment)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", label, err)
		}
		out[label] = markdown
	}
	return out, nil
}
