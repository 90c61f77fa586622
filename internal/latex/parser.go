package latex

import "strings"

// Skipped is a diagnostic for a non-blank line inside a section that matched
// no recognized construct and was dropped from the document.
type Skipped struct {
	Line int
	Text string
}

// Parse builds a Document from resume markup. A section's content runs from
// the line after its marker to the line before the next section marker or end
// of input. Unrecognized in-section lines are dropped from the structure and
// reported as diagnostics; preamble lines before the first section are
// dropped silently. Malformed markers are treated as plain text rather than
// raised as errors.
func Parse(src string) (*Document, []Skipped) {
	doc := &Document{}
	var skipped []Skipped
	cur := -1

	for _, tok := range Lex(src) {
		switch tok.Kind {
		case TokenSection:
			doc.Sections = append(doc.Sections, Section{
				Header:    tok.Args[0],
				StartLine: tok.Line,
				EndLine:   tok.Line,
			})
			cur = len(doc.Sections) - 1

		case TokenSubheading:
			if cur < 0 {
				continue
			}
			sec := &doc.Sections[cur]
			sec.Blocks = append(sec.Blocks, Block{
				Kind:     BlockSubheading,
				Title:    tok.Args[0],
				Location: tok.Args[1],
				Role:     tok.Args[2],
				Dates:    tok.Args[3],
				Line:     tok.Line,
			})
			sec.EndLine = tok.Line

		case TokenItem:
			if cur < 0 {
				continue
			}
			sec := &doc.Sections[cur]
			sec.Blocks = append(sec.Blocks, Block{
				Kind:    BlockItem,
				Content: tok.Args[0],
				Line:    tok.Line,
			})
			sec.EndLine = tok.Line

		case TokenText:
			if cur < 0 {
				continue
			}
			if text := strings.TrimSpace(tok.Raw); text != "" {
				skipped = append(skipped, Skipped{Line: tok.Line, Text: text})
			}
		}
	}
	return doc, skipped
}
