package markup

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// markdownConverter renders markdown to HTML. Raw inline HTML must pass
// through unescaped so formatting tags reach the inline parser intact.
var markdownConverter = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// MarkdownToHTML converts markdown to an HTML string.
func MarkdownToHTML(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}

// Envelope is the marker-delimited regions of one model output document.
type Envelope struct {
	Title      string
	Authors    string
	Abstract   string
	Content    string
	References []ReferenceItem
}

// ReferenceItem is one raw bibliography entry.
type ReferenceItem struct {
	ID      string
	Content string
}

var (
	titleRegion      = envelopeRegion(TitleStart, TitleEnd)
	authorsRegion    = envelopeRegion(AuthorsStart, AuthorsEnd)
	abstractRegion   = envelopeRegion(AbstractStart, AbstractEnd)
	contentRegion    = envelopeRegion(ContentStart, ContentEnd)
	referencesRegion = envelopeRegion(ReferencesStart, ReferencesEnd)

	refItemPattern = regexp.MustCompile(
		`(?s)\[\[l-ref-item_(?P<id>[^\]]+)\]\](?P<content>.*?)\[\[l-ref-item-end\]\]`)
)

func envelopeRegion(start, end string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(start) + `(.*?)` + regexp.QuoteMeta(end))
}

// SplitEnvelope extracts the document regions from marked-up model output.
// Missing regions yield empty fields; nothing here errors.
func SplitEnvelope(text string) Envelope {
	env := Envelope{
		Title:    regionText(titleRegion, text),
		Authors:  regionText(authorsRegion, text),
		Abstract: regionText(abstractRegion, text),
		Content:  regionText(contentRegion, text),
	}

	refsBlock := regionText(referencesRegion, text)
	for _, m := range refItemPattern.FindAllStringSubmatch(refsBlock, -1) {
		env.References = append(env.References, ReferenceItem{
			ID:      strings.TrimSpace(subGroup(refItemPattern, m, "id")),
			Content: strings.TrimSpace(subGroup(refItemPattern, m, "content")),
		})
	}
	return env
}

func regionText(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
