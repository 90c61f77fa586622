package latex

import "strings"

// BlockKind discriminates the closed set of block variants.
type BlockKind int

const (
	// BlockSubheading is an entry header with title, location, role and dates.
	BlockSubheading BlockKind = iota
	// BlockItem is a single bullet line.
	BlockItem
	// BlockRaw is an opaque line injected by an edit. It is emitted verbatim
	// and carries no structure.
	BlockRaw
)

func (k BlockKind) String() string {
	switch k {
	case BlockSubheading:
		return "subheading"
	case BlockItem:
		return "item"
	case BlockRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Block is the atomic editable unit of a resume. Kind selects which fields
// are meaningful: Title/Location/Role/Dates for subheadings, Content for
// items and raw lines.
type Block struct {
	Kind     BlockKind
	Title    string
	Location string
	Role     string
	Dates    string
	Content  string
	// Line is the source line the block was parsed from. Advisory only;
	// it is not renumbered after edits.
	Line int
}

// Text returns the matchable text of the block, used for anchor location.
func (b Block) Text() string {
	if b.Kind == BlockSubheading {
		parts := make([]string, 0, 4)
		for _, s := range []string{b.Title, b.Location, b.Role, b.Dates} {
			if strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return b.Content
}

// Section is a named region holding an ordered block sequence.
type Section struct {
	Header string
	// StartLine and EndLine record original source offsets. Advisory only.
	StartLine int
	EndLine   int
	Blocks    []Block
}

// Document is the parsed structural form of a resume. Sections are addressed
// by index; duplicate headers are legal but ambiguous for targeting.
type Document struct {
	Sections []Section
}

// SectionByHeader returns the first section whose header equals h after
// trimming, or nil. With duplicate headers the earliest one wins.
func (d *Document) SectionByHeader(h string) *Section {
	want := strings.TrimSpace(h)
	for i := range d.Sections {
		if strings.TrimSpace(d.Sections[i].Header) == want {
			return &d.Sections[i]
		}
	}
	return nil
}

// EqualStructure reports whether two documents have the same sections and
// blocks, ignoring advisory line numbers.
func (d *Document) EqualStructure(other *Document) bool {
	if len(d.Sections) != len(other.Sections) {
		return false
	}
	for i := range d.Sections {
		a, b := d.Sections[i], other.Sections[i]
		if a.Header != b.Header || len(a.Blocks) != len(b.Blocks) {
			return false
		}
		for j := range a.Blocks {
			if !sameBlock(a.Blocks[j], b.Blocks[j]) {
				return false
			}
		}
	}
	return true
}

func sameBlock(a, b Block) bool {
	return a.Kind == b.Kind &&
		a.Title == b.Title &&
		a.Location == b.Location &&
		a.Role == b.Role &&
		a.Dates == b.Dates &&
		a.Content == b.Content
}
