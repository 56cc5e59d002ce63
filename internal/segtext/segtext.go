// Package segtext provides sentence-boundary segmentation behind a small
// interface so the compiler can treat it as a black box and tests can inject
// fixed segmentations.
package segtext

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// Segmenter splits text into ordered, non-overlapping sentences. Sentences
// appear in source order; boundary whitespace is not part of any sentence.
type Segmenter interface {
	Sentences(text string) []string
}

// Func adapts a plain function to the Segmenter interface.
type Func func(text string) []string

func (f Func) Sentences(text string) []string {
	return f(text)
}

// UAX29 segments text per Unicode Standard Annex #29 sentence boundaries.
// The zero value is ready to use.
type UAX29 struct{}

func (UAX29) Sentences(text string) []string {
	var out []string
	segs := sentences.FromString(text)
	for segs.Next() {
		s := strings.TrimSpace(segs.Value())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
