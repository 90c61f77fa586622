package latex

import (
	"fmt"
	"strings"
)

// Serialize renders the document in canonical form: one section marker line
// per section followed by its blocks. Subheadings and items are emitted as
// marker lines; raw content is emitted verbatim. The output is the sole
// source of truth for a session's stored resume text after an edit; content
// dropped at parse time is not reproduced.
func Serialize(doc *Document) string {
	var sb strings.Builder
	for i, sec := range doc.Sections {
		fmt.Fprintf(&sb, "\\section{%s}\n", sec.Header)
		for _, b := range sec.Blocks {
			switch b.Kind {
			case BlockSubheading:
				fmt.Fprintf(&sb, "  \\resumeSubheading{%s}{%s}{%s}{%s}\n",
					b.Title, b.Location, b.Role, b.Dates)
			case BlockItem:
				fmt.Fprintf(&sb, "  \\resumeItem{%s}\n", b.Content)
			case BlockRaw:
				sb.WriteString(strings.TrimRight(b.Content, "\n") + "\n")
			}
		}
		if i < len(doc.Sections)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
