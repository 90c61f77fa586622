package patch

import (
	"strings"

	"tailor/internal/latex"
)

// Applier mutates a document according to a typed edit operation. Every
// operation either fully succeeds or leaves the document untouched.
type Applier struct {
	matcher *Matcher
}

func NewApplier(m *Matcher) *Applier {
	if m == nil {
		m = NewMatcher(nil)
	}
	return &Applier{matcher: m}
}

// Apply dispatches edit by kind and mutates doc in place. For every kind
// except AddNewSection a missing target header fails with SectionNotFoundError.
func (a *Applier) Apply(doc *latex.Document, edit EditProposal) error {
	switch edit.Kind {
	case AddItemToSection:
		return a.addItem(doc, edit)
	case ReplaceSection:
		return a.replaceSection(doc, edit)
	case UpdateItemInSection:
		return a.updateItem(doc, edit)
	case AddNewSection:
		return a.addSection(doc, edit)
	default:
		return &UnknownKindError{Kind: edit.Kind}
	}
}

// addItem inserts a new item immediately after the block matched by
// contextBefore, falling back to contextAfter. With no anchor match the item
// is appended at the section end; that is a successful append, not an error.
func (a *Applier) addItem(doc *latex.Document, edit EditProposal) error {
	sec := doc.SectionByHeader(edit.TargetSectionHeader)
	if sec == nil {
		return &SectionNotFoundError{Header: edit.TargetSectionHeader}
	}
	item := latex.Block{Kind: latex.BlockItem, Content: edit.SuggestedSnippet}

	idx, ok := a.matcher.Locate(sec, edit.ContextBefore)
	if !ok {
		idx, ok = a.matcher.Locate(sec, edit.ContextAfter)
	}
	if !ok {
		sec.Blocks = append(sec.Blocks, item)
		return nil
	}
	sec.Blocks = append(sec.Blocks, latex.Block{})
	copy(sec.Blocks[idx+2:], sec.Blocks[idx+1:])
	sec.Blocks[idx+1] = item
	return nil
}

// replaceSection discards the target section's blocks and leaves a single
// raw block holding the suggested snippet.
func (a *Applier) replaceSection(doc *latex.Document, edit EditProposal) error {
	sec := doc.SectionByHeader(edit.TargetSectionHeader)
	if sec == nil {
		return &SectionNotFoundError{Header: edit.TargetSectionHeader}
	}
	sec.Blocks = []latex.Block{{Kind: latex.BlockRaw, Content: edit.SuggestedSnippet}}
	return nil
}

// updateItem rewrites the first item whose trimmed content exactly equals the
// original snippet. There is no fuzzy fallback: a near-miss reports
// ErrMatchNotFound and changes nothing.
func (a *Applier) updateItem(doc *latex.Document, edit EditProposal) error {
	sec := doc.SectionByHeader(edit.TargetSectionHeader)
	if sec == nil {
		return &SectionNotFoundError{Header: edit.TargetSectionHeader}
	}
	want := strings.TrimSpace(edit.OriginalSnippet)
	if want == "" {
		return ErrMatchNotFound
	}
	for i := range sec.Blocks {
		if sec.Blocks[i].Kind != latex.BlockItem {
			continue
		}
		if strings.TrimSpace(sec.Blocks[i].Content) == want {
			sec.Blocks[i].Content = edit.SuggestedSnippet
			return nil
		}
	}
	return ErrMatchNotFound
}

// addSection appends a new section holding one raw block. Headers are not
// deduplicated; callers wanting replace-or-create must check existence first.
func (a *Applier) addSection(doc *latex.Document, edit EditProposal) error {
	doc.Sections = append(doc.Sections, latex.Section{
		Header: edit.TargetSectionHeader,
		Blocks: []latex.Block{{Kind: latex.BlockRaw, Content: edit.SuggestedSnippet}},
	})
	return nil
}
