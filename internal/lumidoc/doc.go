// Package lumidoc defines the compiled document tree: a hierarchy of
// sections whose text is split into sentence-level spans carrying
// offset-addressed annotations. The tree is created in one pass by the
// markup compiler and is read-only afterward.
package lumidoc

// Annotation names recognized by the compiler.
const (
	AnnotationCitation      = "citation"
	AnnotationConcept       = "concept"
	AnnotationSpanReference = "spanReference"
	AnnotationBold          = "b"
	AnnotationItalic        = "i"
	AnnotationUnderline     = "u"
	AnnotationCode          = "code"
	AnnotationLink          = "a"
	AnnotationMath          = "math"
)

// Document is the root of a compiled document.
type Document struct {
	Abstract   *Abstract   `json:"abstract,omitempty"`
	Sections   []*Section  `json:"sections"`
	References []Reference `json:"references"`
}

// Abstract holds the content blocks preceding the main body.
type Abstract struct {
	Contents []Content `json:"contents"`
}

// Section is a heading-rooted node in the document outline. Every section
// in Subsections has a strictly greater heading level than its parent.
type Section struct {
	ID          string     `json:"id"`
	Heading     Heading    `json:"heading"`
	Contents    []Content  `json:"contents"`
	Subsections []*Section `json:"subsections"`
}

// Heading labels a section. Level 0 marks the synthetic section that holds
// content appearing before any real heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Content is a tagged union: exactly one of the variant pointers is set.
type Content struct {
	ID         string             `json:"id"`
	Text       *TextContent       `json:"textContent,omitempty"`
	List       *ListContent       `json:"listContent,omitempty"`
	Image      *ImageContent      `json:"imageContent,omitempty"`
	Figure     *FigureContent     `json:"figureContent,omitempty"`
	HTMLFigure *HTMLFigureContent `json:"htmlFigureContent,omitempty"`
}

// TextContent is a run of sentence spans from a single source block.
type TextContent struct {
	SourceTagName string `json:"sourceTagName"`
	Spans         []Span `json:"spans"`
}

// ListContent is an ordered or unordered list.
type ListContent struct {
	IsOrdered bool       `json:"isOrdered"`
	Items     []ListItem `json:"items"`
}

// ListItem carries the item's own spans and at most one nested list.
type ListItem struct {
	Spans   []Span       `json:"spans"`
	SubList *ListContent `json:"subList,omitempty"`
}

// ImageContent references a single image. Width and height are filled in by
// an external image-extraction step, not by the compiler.
type ImageContent struct {
	SourcePath  string  `json:"sourcePath"`
	StoragePath string  `json:"storagePath"`
	AltText     string  `json:"altText"`
	Caption     *Span   `json:"caption,omitempty"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// FigureContent groups multiple images under one caption.
type FigureContent struct {
	Images  []ImageContent `json:"images"`
	Caption *Span          `json:"caption,omitempty"`
}

// HTMLFigureContent carries a literal HTML fragment, e.g. a table.
type HTMLFigureContent struct {
	RawHTML string `json:"rawHtml"`
	Caption *Span  `json:"caption,omitempty"`
}

// Span is a sentence-granularity unit of text. Annotation offsets are
// relative to Text.
type Span struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations"`
}

// Annotation decorates the half-open byte range [Start,End) of its enclosing
// scope: the span text for top-level annotations, the parent annotation's
// inner text for children. Child offsets are never rebased into the outer
// coordinate space.
type Annotation struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Children []Annotation      `json:"children"`
}

// Reference is a bibliography entry. The whole entry is one span; reference
// text is never sentence-split.
type Reference struct {
	ID   string `json:"id"`
	Span Span   `json:"span"`
}
