package markup

import (
	"strings"

	"github.com/PAIR-code/lumi/internal/lumidoc"
)

// ParseInline extracts plain text and annotations from a raw text fragment.
// The scan repeatedly takes the earliest match across the whole tag table,
// copies the literal text before it into the cleaned output, and recurses
// into the tag's inner content; the recursive result's annotations become
// the new annotation's children, with offsets relative to the inner text's
// own start. Annotation offsets in the returned list are byte offsets into
// the returned cleaned text. Unmatched markers remain in the text verbatim;
// the function never fails.
func ParseInline(text string) (string, []lumidoc.Annotation) {
	var cleaned strings.Builder
	var annotations []lumidoc.Annotation

	pos := 0
	for pos < len(text) {
		match, def := earliestTag(text, pos)
		if match == nil {
			cleaned.WriteString(text[pos:])
			break
		}

		cleaned.WriteString(text[pos:match.start])
		start := cleaned.Len()

		innerText, children := ParseInline(match.content)
		cleaned.WriteString(innerText)
		end := cleaned.Len()

		annotations = append(annotations, lumidoc.Annotation{
			Name:     def.Name,
			Metadata: match.meta,
			Start:    start,
			End:      end,
			Children: children,
		})

		pos = match.end
	}

	return cleaned.String(), annotations
}

// earliestTag scans every definition from pos and returns the match with the
// smallest start offset.
func earliestTag(text string, pos int) (*tagMatch, *Definition) {
	var best *tagMatch
	var bestDef *Definition
	for i := range TagDefinitions {
		def := &TagDefinitions[i]
		m := def.find(text, pos)
		if m != nil && (best == nil || m.start < best.start) {
			best = m
			bestDef = def
		}
	}
	return best, bestDef
}
