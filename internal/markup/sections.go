package markup

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/PAIR-code/lumi/internal/lumidoc"
)

// SectionsFromHTML converts a block-structured HTML string into the section
// forest. Headings open sections on a level stack: the stack pops while its
// top is at the new heading's level or deeper, so an equal-level heading
// closes its predecessor instead of nesting under it. Content appearing
// before any heading lands in a synthetic level-0 section. Placeholder
// tokens found inside text blocks are resolved through table; tokens missing
// from the table are dropped.
func (c *Compiler) SectionsFromHTML(htmlStr string, table map[string]lumidoc.Content) []*lumidoc.Section {
	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		// html.Parse recovers from malformed input; a hard error means no
		// usable tree, which degrades to an empty document.
		return nil
	}

	b := &sectionBuilder{compiler: c, table: table}
	b.walk(root)
	return b.roots
}

type sectionBuilder struct {
	compiler *Compiler
	table    map[string]lumidoc.Content

	roots []*lumidoc.Section
	stack []*lumidoc.Section
}

// walk visits the tree in document order. Heading and content elements are
// handled without descending, so a node and its descendants are consumed
// exactly once.
func (b *sectionBuilder) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			b.openSection(level, directText(n))
			return
		}
		switch n.Data {
		case "p", "code", "pre":
			b.addContents(b.compiler.textBlocks(innerHTML(n), n.Data, b.table))
			return
		case "ul", "ol":
			list := b.compiler.listContent(n)
			b.addContents([]lumidoc.Content{{
				ID:   b.compiler.IDs.NewID(),
				List: list,
			}})
			return
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.walk(child)
	}
}

func (b *sectionBuilder) openSection(level int, text string) {
	section := &lumidoc.Section{
		ID:          b.compiler.IDs.NewID(),
		Heading:     lumidoc.Heading{Level: level, Text: text},
		Contents:    []lumidoc.Content{},
		Subsections: []*lumidoc.Section{},
	}

	for len(b.stack) > 0 && b.stack[len(b.stack)-1].Heading.Level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}

	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		parent.Subsections = append(parent.Subsections, section)
	} else {
		b.roots = append(b.roots, section)
	}
	b.stack = append(b.stack, section)
}

func (b *sectionBuilder) addContents(contents []lumidoc.Content) {
	if len(contents) == 0 {
		return
	}
	if len(b.stack) == 0 {
		// Content before any heading: synthesize a level-0 holder section.
		section := &lumidoc.Section{
			ID:          b.compiler.IDs.NewID(),
			Heading:     lumidoc.Heading{Level: 0, Text: ""},
			Contents:    []lumidoc.Content{},
			Subsections: []*lumidoc.Section{},
		}
		b.stack = append(b.stack, section)
		b.roots = append(b.roots, section)
	}
	current := b.stack[len(b.stack)-1]
	current.Contents = append(current.Contents, contents...)
}

// textBlocks splits a block's raw inner HTML on placeholder tokens and
// interleaves parsed text runs with the resolved content nodes, preserving
// document order.
func (c *Compiler) textBlocks(inner, sourceTag string, table map[string]lumidoc.Content) []lumidoc.Content {
	if strings.TrimSpace(inner) == "" {
		return nil
	}

	var out []lumidoc.Content
	appendText := func(segment string) {
		if strings.TrimSpace(segment) == "" {
			return
		}
		cleaned, annotations := ParseInline(segment)
		spans := c.BuildSpans(cleaned, annotations, false)
		if len(spans) == 0 {
			return
		}
		out = append(out, lumidoc.Content{
			ID: c.IDs.NewID(),
			Text: &lumidoc.TextContent{
				SourceTagName: sourceTag,
				Spans:         spans,
			},
		})
	}

	last := 0
	for _, loc := range placeholderPattern.FindAllStringIndex(inner, -1) {
		if loc[0] > last {
			appendText(inner[last:loc[0]])
		}
		if content, ok := table[inner[loc[0]:loc[1]]]; ok {
			out = append(out, content)
		}
		last = loc[1]
	}
	if last < len(inner) {
		appendText(inner[last:])
	}
	return out
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// directText concatenates a node's immediate text children, skipping nested
// elements. Heading text keeps only the heading's own literal text.
func directText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// innerHTML renders a node's children back to markup, preserving inline
// tags and markers for the inline parser.
func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render into a bytes.Buffer cannot fail.
		_ = html.Render(&buf, c)
	}
	return buf.String()
}
