package markup

import (
	"strings"
	"testing"

	"github.com/PAIR-code/lumi/internal/lumidoc"
	"github.com/PAIR-code/lumi/internal/segtext"
)

const testPaper = `[[l-title-start]]
Paper Title
[[l-title-end]]
[[l-authors-start]]
Ada Lovelace, Alan Turing
[[l-authors-end]]
[[l-abstract-start]]
This paper explores **compilers**.
[[l-abstract-end]]
[[l-content-start]]
## Introduction

First sentence. Second sentence cites [l-cite_r1]prior work[l-cite_r1].

[[l-image_fig1.png]]
Figure one caption.

[[l-content-end]]
[[l-references-start]]
[[l-ref-item_r1]]A. Author, <i>Prior Work</i>, 2020.[[l-ref-item-end]]
[[l-references-end]]
`

func TestCompileFullPaper(t *testing.T) {
	c := newTestCompiler(segtext.UAX29{})

	compiled := c.Compile(testPaper, "paper1")

	if compiled.Title != "Paper Title" {
		t.Errorf("Title = %q", compiled.Title)
	}
	if compiled.Authors != "Ada Lovelace, Alan Turing" {
		t.Errorf("Authors = %q", compiled.Authors)
	}

	doc := compiled.Document
	if doc.Abstract == nil {
		t.Fatalf("Abstract is nil")
	}
	if len(doc.Abstract.Contents) != 1 || doc.Abstract.Contents[0].Text == nil {
		t.Fatalf("abstract contents = %+v", doc.Abstract.Contents)
	}
	abSpan := doc.Abstract.Contents[0].Text.Spans[0]
	if abSpan.Text != "This paper explores compilers." {
		t.Errorf("abstract span = %q", abSpan.Text)
	}
	if len(abSpan.Annotations) != 1 || abSpan.Annotations[0].Name != lumidoc.AnnotationBold ||
		abSpan.Annotations[0].Start != 20 || abSpan.Annotations[0].End != 29 {
		t.Errorf("abstract annotations = %+v, want bold [20,29)", abSpan.Annotations)
	}

	if len(doc.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(doc.Sections))
	}
	intro := doc.Sections[0]
	if intro.Heading.Level != 2 || intro.Heading.Text != "Introduction" {
		t.Errorf("heading = %+v", intro.Heading)
	}
	if len(intro.Contents) != 2 {
		t.Fatalf("got %d contents, want text then image", len(intro.Contents))
	}

	text := intro.Contents[0].Text
	if text == nil || len(text.Spans) != 2 {
		t.Fatalf("text content = %+v, want 2 sentence spans", text)
	}
	if text.Spans[0].Text != "First sentence." {
		t.Errorf("first span = %q", text.Spans[0].Text)
	}
	second := text.Spans[1]
	if second.Text != "Second sentence cites prior work." {
		t.Errorf("second span = %q", second.Text)
	}
	if len(second.Annotations) != 1 {
		t.Fatalf("second span annotations = %+v", second.Annotations)
	}
	cite := second.Annotations[0]
	if cite.Name != lumidoc.AnnotationCitation || cite.Metadata["id"] != "r1" ||
		cite.Start != 22 || cite.End != 32 {
		t.Errorf("citation = %+v, want id r1 at [22,32)", cite)
	}
	if got := second.Text[cite.Start:cite.End]; got != "prior work" {
		t.Errorf("cited text = %q", got)
	}

	img := intro.Contents[1].Image
	if img == nil {
		t.Fatalf("contents[1].Image is nil: %+v", intro.Contents[1])
	}
	if img.SourcePath != "fig1.png" || img.StoragePath != "paper1/images/fig1.png" {
		t.Errorf("image paths = %q / %q", img.SourcePath, img.StoragePath)
	}
	if img.Caption == nil || img.Caption.Text != "Figure one caption." {
		t.Errorf("image caption = %+v", img.Caption)
	}

	if len(doc.References) != 1 {
		t.Fatalf("got %d references, want 1", len(doc.References))
	}
	ref := doc.References[0]
	if ref.ID != "r1" {
		t.Errorf("reference id = %q", ref.ID)
	}
	if ref.Span.Text != "A. Author, Prior Work, 2020." {
		t.Errorf("reference span = %q", ref.Span.Text)
	}
	if len(ref.Span.Annotations) != 1 || ref.Span.Annotations[0].Name != lumidoc.AnnotationItalic ||
		ref.Span.Annotations[0].Start != 11 || ref.Span.Annotations[0].End != 21 {
		t.Errorf("reference annotations = %+v, want italic [11,21)", ref.Span.Annotations)
	}
}

func TestCompileEmptyInput(t *testing.T) {
	c := newTestCompiler(segtext.UAX29{})

	compiled := c.Compile("", "f")

	if compiled.Title != "" || compiled.Authors != "" {
		t.Errorf("metadata = %q / %q, want empty", compiled.Title, compiled.Authors)
	}
	doc := compiled.Document
	if doc == nil {
		t.Fatalf("Document is nil")
	}
	if doc.Abstract != nil || len(doc.Sections) != 0 || len(doc.References) != 0 {
		t.Errorf("document = %+v, want empty", doc)
	}
}

func TestCompileContentOnly(t *testing.T) {
	c := newTestCompiler(segtext.UAX29{})
	markup := "[[l-content-start]]\n# Only Section\n\nSome text.\n[[l-content-end]]"

	compiled := c.Compile(markup, "f")

	if compiled.Document.Abstract != nil {
		t.Errorf("Abstract = %+v, want nil", compiled.Document.Abstract)
	}
	if len(compiled.Document.Sections) != 1 {
		t.Fatalf("sections = %+v", compiled.Document.Sections)
	}
	if compiled.Document.Sections[0].Heading.Text != "Only Section" {
		t.Errorf("heading = %+v", compiled.Document.Sections[0].Heading)
	}
}

func TestCompileUnmatchedMarkersStayLiteral(t *testing.T) {
	c := newTestCompiler(segtext.UAX29{})
	markup := "[[l-content-start]]\nText with a [l-cite_x]stray opener\n[[l-content-end]]"

	compiled := c.Compile(markup, "f")

	if len(compiled.Document.Sections) != 1 {
		t.Fatalf("sections = %+v", compiled.Document.Sections)
	}
	contents := compiled.Document.Sections[0].Contents
	if len(contents) != 1 || contents[0].Text == nil {
		t.Fatalf("contents = %+v", contents)
	}
	span := contents[0].Text.Spans[0]
	if !strings.Contains(span.Text, "[l-cite_x]") {
		t.Errorf("span text = %q, want the stray marker kept verbatim", span.Text)
	}
	if len(span.Annotations) != 0 {
		t.Errorf("annotations = %+v, want none", span.Annotations)
	}
}

func TestCompileHTMLFigureInContent(t *testing.T) {
	c := newTestCompiler(segtext.UAX29{})
	markup := "[[l-content-start]]\n# S\n\nBefore table.\n\n" +
		"[[l-html-start_T1]]\n<table><tr><td>1</td></tr></table>\n[[l-html-end_T1]]\n" +
		"[[l-html-caption-start_T1]]Table 1.[[l-html-caption-end_T1]]\n\n" +
		"After table.\n[[l-content-end]]"

	compiled := c.Compile(markup, "f")

	contents := compiled.Document.Sections[0].Contents
	if len(contents) != 3 {
		t.Fatalf("got %d contents, want text, html figure, text", len(contents))
	}
	hf := contents[1].HTMLFigure
	if hf == nil {
		t.Fatalf("contents[1] = %+v, want html figure", contents[1])
	}
	if !strings.Contains(hf.RawHTML, "<table>") {
		t.Errorf("RawHTML = %q", hf.RawHTML)
	}
	if hf.Caption == nil || hf.Caption.Text != "Table 1." {
		t.Errorf("caption = %+v", hf.Caption)
	}
}
