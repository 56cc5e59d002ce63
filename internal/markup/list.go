package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/PAIR-code/lumi/internal/lumidoc"
)

// listContent recursively converts a ul/ol element. Each item's non-list
// children contribute their visible text to the item's own spans; the first
// nested list becomes the item's sublist. Additional nested lists in the
// same item are dropped — a known limitation kept for compatibility with
// existing consumers.
func (c *Compiler) listContent(n *html.Node) *lumidoc.ListContent {
	var items []lumidoc.ListItem

	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}

		var subList *lumidoc.ListContent
		var raw strings.Builder
		for child := li.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.Data == "ul" || child.Data == "ol") {
				if subList == nil {
					subList = c.listContent(child)
				}
				continue
			}
			raw.WriteString(visibleText(child))
		}

		cleaned, annotations := ParseInline(raw.String())
		var spans []lumidoc.Span
		if strings.TrimSpace(cleaned) != "" || len(annotations) > 0 {
			spans = c.BuildSpans(cleaned, annotations, false)
		}

		items = append(items, lumidoc.ListItem{
			Spans:   spans,
			SubList: subList,
		})
	}

	return &lumidoc.ListContent{
		IsOrdered: n.Data == "ol",
		Items:     items,
	}
}

// visibleText flattens a node to its text content without trimming, so
// whitespace between item fragments survives concatenation.
func visibleText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(visibleText(c))
	}
	return b.String()
}
