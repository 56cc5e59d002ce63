package markup

import (
	"regexp"
	"strings"

	"github.com/PAIR-code/lumi/internal/lumidoc"
)

// Marker vocabulary. Block markers delimit document regions in the raw
// model output; inline markers annotate runs of text and survive the
// markdown-to-HTML conversion as plain text.
const (
	TitleStart      = "[[l-title-start]]"
	TitleEnd        = "[[l-title-end]]"
	AuthorsStart    = "[[l-authors-start]]"
	AuthorsEnd      = "[[l-authors-end]]"
	AbstractStart   = "[[l-abstract-start]]"
	AbstractEnd     = "[[l-abstract-end]]"
	ContentStart    = "[[l-content-start]]"
	ContentEnd      = "[[l-content-end]]"
	ReferencesStart = "[[l-references-start]]"
	ReferencesEnd   = "[[l-references-end]]"

	RefItemStartPrefix = "[[l-ref-item_"
	RefItemStartEnd    = "]]"
	RefItemEnd         = "[[l-ref-item-end]]"

	ImageStartPrefix = "[[l-image_"
	ImageEnd         = "]]"

	FigureStart   = "[[l-figure-start]]"
	FigureCaption = "[[l-figure-caption]]"
	FigureEnd     = "[[l-figure-end]]"

	HTMLFigureStartPrefix        = "[[l-html-start_"
	HTMLFigureEndPrefix          = "[[l-html-end_"
	HTMLFigureCaptionStartPrefix = "[[l-html-caption-start_"
	HTMLFigureCaptionEndPrefix   = "[[l-html-caption-end_"

	CitationPrefix     = "[l-cite_"
	ConceptPrefix      = "[l-conc_"
	SpanRefStartPrefix = "[l-span-ref_"
	SpanRefEnd         = "[l-span-end]"
	MarkerSuffix       = "]"

	PlaceholderPrefix = "[[LUMI_PLACEHOLDER_"
	PlaceholderSuffix = "]]"
)

// Definition describes one inline tag syntax. When Closer is nil, Pattern
// matches the whole tag and the group named "content" captures its inner
// text. When Closer is set, Pattern matches only the opening token and the
// tag's extent runs to the first occurrence of the literal closing token
// Closer derives from the opener; an opener with no closer is not a match.
type Definition struct {
	Name    string
	Pattern *regexp.Regexp
	Closer  func(groups map[string]string) string
	Meta    func(groups map[string]string) map[string]string
}

// tagMatch locates one inline tag in raw text. All offsets are into the
// scanned string; Content is the raw inner text still to be parsed.
type tagMatch struct {
	start   int
	end     int
	content string
	meta    map[string]string
}

// find returns the first match of d at or after from, or nil.
func (d *Definition) find(text string, from int) *tagMatch {
	for from <= len(text) {
		loc := d.Pattern.FindStringSubmatchIndex(text[from:])
		if loc == nil {
			return nil
		}
		groups := groupMap(d.Pattern, text[from:], loc)
		start, end := from+loc[0], from+loc[1]

		if d.Closer == nil {
			return &tagMatch{
				start:   start,
				end:     end,
				content: groups["content"],
				meta:    d.metadata(groups),
			}
		}

		closer := d.Closer(groups)
		rel := strings.Index(text[end:], closer)
		if rel < 0 {
			// Opener with no closer: skip it and keep scanning. The
			// opener's text stays in the output verbatim.
			from = end
			continue
		}
		return &tagMatch{
			start:   start,
			end:     end + rel + len(closer),
			content: text[end : end+rel],
			meta:    d.metadata(groups),
		}
	}
	return nil
}

func (d *Definition) metadata(groups map[string]string) map[string]string {
	if d.Meta == nil {
		return map[string]string{}
	}
	return d.Meta(groups)
}

// groupMap extracts named subexpressions from a FindStringSubmatchIndex
// result. Unmatched optional groups are absent from the map.
func groupMap(re *regexp.Regexp, s string, loc []int) map[string]string {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || 2*i >= len(loc) || loc[2*i] < 0 {
			continue
		}
		groups[name] = s[loc[2*i]:loc[2*i+1]]
	}
	return groups
}

func idMeta(groups map[string]string) map[string]string {
	return map[string]string{"id": groups["id"]}
}

// pairedCloser reproduces the opening token so that id-keyed tags close with
// the same marker they opened with.
func pairedCloser(prefix string) func(map[string]string) string {
	return func(groups map[string]string) string {
		return prefix + groups["id"] + MarkerSuffix
	}
}

// TagDefinitions is the ordered inline tag table. The inline parser scans
// every entry and takes the earliest match; patterns are mutually exclusive
// at any given start position.
var TagDefinitions = []Definition{
	{
		Name:    lumidoc.AnnotationCitation,
		Pattern: regexp.MustCompile(`\[l-cite_(?P<id>[^\]]+)\]`),
		Closer:  pairedCloser(CitationPrefix),
		Meta:    idMeta,
	},
	{
		Name:    lumidoc.AnnotationConcept,
		Pattern: regexp.MustCompile(`\[l-conc_(?P<id>[^\]]+)\]`),
		Closer:  pairedCloser(ConceptPrefix),
		Meta:    idMeta,
	},
	{
		Name:    lumidoc.AnnotationSpanReference,
		Pattern: regexp.MustCompile(`\[l-span-ref_(?P<id>[^\]]+)\]`),
		Closer:  func(map[string]string) string { return SpanRefEnd },
		Meta:    idMeta,
	},
	{
		Name:    lumidoc.AnnotationBold,
		Pattern: regexp.MustCompile(`(?s)<b>(?P<content>.*?)</b>`),
	},
	{
		Name:    lumidoc.AnnotationBold,
		Pattern: regexp.MustCompile(`(?s)<strong>(?P<content>.*?)</strong>`),
	},
	{
		Name:    lumidoc.AnnotationItalic,
		Pattern: regexp.MustCompile(`(?s)<i>(?P<content>.*?)</i>`),
	},
	{
		Name:    lumidoc.AnnotationItalic,
		Pattern: regexp.MustCompile(`(?s)<em>(?P<content>.*?)</em>`),
	},
	{
		Name:    lumidoc.AnnotationUnderline,
		Pattern: regexp.MustCompile(`(?s)<u>(?P<content>.*?)</u>`),
	},
	{
		Name:    lumidoc.AnnotationCode,
		Pattern: regexp.MustCompile(`(?s)<code>(?P<content>.*?)</code>`),
	},
	{
		Name:    lumidoc.AnnotationLink,
		Pattern: regexp.MustCompile(`(?s)<a href="(?P<href>[^"]*)"[^>]*>(?P<content>.*?)</a>`),
		Meta: func(groups map[string]string) map[string]string {
			return map[string]string{"href": groups["href"]}
		},
	},
	{
		Name:    lumidoc.AnnotationMath,
		Pattern: regexp.MustCompile(`\$(?P<content>[^$]*)\$`),
	},
}

// Block-level patterns consumed by the placeholder extractor and the block
// structure builder.
var (
	// figurePattern: multi-image container with an optional trailing caption.
	figurePattern = regexp.MustCompile(
		`(?s)\[\[l-figure-start\]\](?P<body>.*?)(?:\[\[l-figure-caption\]\](?P<caption>.*?))?\[\[l-figure-end\]\]`)

	// htmlFigurePattern: literal-HTML container with an optional caption pair.
	htmlFigurePattern = regexp.MustCompile(
		`(?s)\[\[l-html-start_(?P<id>[^\]]+)\]\](?P<body>.*?)\[\[l-html-end_[^\]]+\]\]` +
			`(?:\s*\[\[l-html-caption-start_[^\]]+\]\](?P<caption>.*?)\[\[l-html-caption-end_[^\]]+\]\])?`)

	// imagePattern: bare image marker, optionally captioned by the next line.
	imagePattern = regexp.MustCompile(
		`\[\[l-image_(?P<path>[^\]]+)\]\](?:\n(?P<caption>[^\n]+))?`)

	placeholderPattern = regexp.MustCompile(`\[\[LUMI_PLACEHOLDER_[^\]]*\]\]`)
)
