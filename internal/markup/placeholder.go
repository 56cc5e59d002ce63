package markup

import (
	"regexp"
	"strings"

	"github.com/PAIR-code/lumi/internal/lumidoc"
)

const storagePathDelimiter = "__"

// ExtractPlaceholders replaces every figure, HTML-figure and bare-image
// block in raw with an opaque placeholder token and records the parsed
// content node in table, keyed by the full token. Containers are replaced
// before bare images so that image markers inside a figure body are consumed
// as sub-images rather than re-matched at top level. Malformed markers are
// left in the text verbatim.
func (c *Compiler) ExtractPlaceholders(raw, fileID string, table map[string]lumidoc.Content) string {
	out := replaceAll(figurePattern, raw, func(groups map[string]string) string {
		id := c.IDs.NewID()
		token := PlaceholderPrefix + id + PlaceholderSuffix

		var images []lumidoc.ImageContent
		for _, sub := range imagePattern.FindAllStringSubmatch(groups["body"], -1) {
			images = append(images, c.imageContent(subGroup(imagePattern, sub, "path"), subGroup(imagePattern, sub, "caption"), fileID))
		}

		table[token] = lumidoc.Content{
			ID: id,
			Figure: &lumidoc.FigureContent{
				Images:  images,
				Caption: c.captionSpan(groups["caption"]),
			},
		}
		return token
	})

	out = replaceAll(htmlFigurePattern, out, func(groups map[string]string) string {
		id := c.IDs.NewID()
		token := PlaceholderPrefix + id + PlaceholderSuffix
		table[token] = lumidoc.Content{
			ID: id,
			HTMLFigure: &lumidoc.HTMLFigureContent{
				RawHTML: strings.TrimSpace(groups["body"]),
				Caption: c.captionSpan(groups["caption"]),
			},
		}
		return token
	})

	out = replaceAll(imagePattern, out, func(groups map[string]string) string {
		id := c.IDs.NewID()
		token := PlaceholderPrefix + id + PlaceholderSuffix
		table[token] = lumidoc.Content{
			ID:    id,
			Image: ptr(c.imageContent(groups["path"], groups["caption"], fileID)),
		}
		return token
	})

	return out
}

// imageContent builds an ImageContent for a source path and optional caption.
// Width and height stay zero; an external extraction step fills them in.
func (c *Compiler) imageContent(path, caption, fileID string) lumidoc.ImageContent {
	flattened := strings.ReplaceAll(path, "/", storagePathDelimiter)
	return lumidoc.ImageContent{
		SourcePath:  path,
		StoragePath: fileID + "/images/" + flattened,
		AltText:     "",
		Caption:     c.captionSpan(caption),
	}
}

// captionSpan parses caption markup into a single span. Captions are never
// sentence-split.
func (c *Compiler) captionSpan(caption string) *lumidoc.Span {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil
	}
	cleaned, annotations := ParseInline(caption)
	spans := c.BuildSpans(cleaned, annotations, true)
	if len(spans) == 0 {
		return nil
	}
	return &spans[0]
}

// replaceAll substitutes every match of re in s with the value of repl,
// invoked with the match's named groups.
func replaceAll(re *regexp.Regexp, s string, repl func(groups map[string]string) string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		b.WriteString(repl(groupMap(re, s, loc)))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// subGroup reads a named group out of a FindAllStringSubmatch entry.
func subGroup(re *regexp.Regexp, match []string, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name && i < len(match) {
			return match[i]
		}
	}
	return ""
}

func ptr[T any](v T) *T {
	return &v
}
