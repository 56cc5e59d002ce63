package markup

import (
	"strings"

	"github.com/PAIR-code/lumi/internal/lumidoc"
)

// BuildSpans splits cleaned text into sentence spans and redistributes the
// annotations to them. With noSplit set, or when the segmenter yields no
// sentences for non-empty input, the whole text becomes a single span
// carrying every annotation unmodified. An annotation overlapping several
// sentences is copied into each, clamped to that sentence's coordinates;
// children ride along untouched since their offsets are parent-relative.
func (c *Compiler) BuildSpans(cleaned string, annotations []lumidoc.Annotation, noSplit bool) []lumidoc.Span {
	if strings.TrimSpace(cleaned) == "" && len(annotations) == 0 {
		return nil
	}

	var sents []string
	if !noSplit {
		sents = c.Segmenter.Sentences(cleaned)
	}
	if len(sents) == 0 {
		return []lumidoc.Span{{
			ID:          c.IDs.NewID(),
			Text:        cleaned,
			Annotations: annotations,
		}}
	}

	spans := make([]lumidoc.Span, 0, len(sents))
	searchFrom := 0
	for _, sent := range sents {
		rel := strings.Index(cleaned[searchFrom:], sent)
		if rel < 0 {
			// Segmenter output not found in the source text; skip.
			continue
		}
		sentStart := searchFrom + rel
		sentEnd := sentStart + len(sent)

		var local []lumidoc.Annotation
		for _, ann := range annotations {
			// Inclusive on both bounds so zero-width annotations sitting
			// exactly on a sentence boundary still attach.
			if ann.Start <= sentEnd && ann.End >= sentStart {
				local = append(local, lumidoc.Annotation{
					Name:     ann.Name,
					Metadata: copyMetadata(ann.Metadata),
					Start:    max(0, ann.Start-sentStart),
					End:      min(len(sent), ann.End-sentStart),
					Children: ann.Children,
				})
			}
		}

		spans = append(spans, lumidoc.Span{
			ID:          c.IDs.NewID(),
			Text:        sent,
			Annotations: local,
		})
		searchFrom = sentEnd
	}
	return spans
}

func copyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
