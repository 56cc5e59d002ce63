// Package markup compiles marker-annotated model output into the lumidoc
// document tree. The compilation is a pure, synchronous transformation:
// malformed markup degrades to literal text and nothing in this package
// returns an error. Independent documents may be compiled concurrently as
// long as each call gets its own placeholder table; a single compilation is
// strictly sequential.
package markup

import (
	"github.com/PAIR-code/lumi/internal/ids"
	"github.com/PAIR-code/lumi/internal/lumidoc"
	"github.com/PAIR-code/lumi/internal/segtext"
)

// Compiler turns marked-up text into a Document. Both collaborators are
// injectable; tests pin ids and sentence boundaries through them.
type Compiler struct {
	IDs       ids.Generator
	Segmenter segtext.Segmenter
}

// New returns a Compiler with the default id and segmentation collaborators.
func New() *Compiler {
	return &Compiler{
		IDs:       ids.UUID{},
		Segmenter: segtext.UAX29{},
	}
}

// Compiled is the result of one compilation. Title and authors come from the
// envelope markers; they are document metadata, not part of the tree.
type Compiled struct {
	Title    string
	Authors  string
	Document *lumidoc.Document
}

// Compile runs the full pipeline: figure placeholder substitution, envelope
// splitting, markdown structuring, section assembly, and reference parsing.
// fileID namespaces image storage paths.
func (c *Compiler) Compile(markup, fileID string) Compiled {
	placeholders := make(map[string]lumidoc.Content)
	processed := c.ExtractPlaceholders(markup, fileID, placeholders)

	env := SplitEnvelope(processed)

	var abstract *lumidoc.Abstract
	if env.Abstract != "" {
		abstractSections := c.SectionsFromHTML(MarkdownToHTML(env.Abstract), placeholders)
		if len(abstractSections) > 0 {
			abstract = &lumidoc.Abstract{Contents: abstractSections[0].Contents}
		}
	}

	var sections []*lumidoc.Section
	if env.Content != "" {
		sections = c.SectionsFromHTML(MarkdownToHTML(env.Content), placeholders)
	}

	references := make([]lumidoc.Reference, 0, len(env.References))
	for _, item := range env.References {
		// Reference entries are one un-tokenized span each.
		cleaned, annotations := ParseInline(item.Content)
		references = append(references, lumidoc.Reference{
			ID: item.ID,
			Span: lumidoc.Span{
				ID:          c.IDs.NewID(),
				Text:        cleaned,
				Annotations: annotations,
			},
		})
	}

	return Compiled{
		Title:   env.Title,
		Authors: env.Authors,
		Document: &lumidoc.Document{
			Abstract:   abstract,
			Sections:   sections,
			References: references,
		},
	}
}
