package patch

// Kind enumerates the typed edit operations. The string values are part of
// the wire format exchanged with the edit generator and must stay stable.
type Kind string

const (
	ReplaceSection      Kind = "ReplaceSection"
	AddItemToSection    Kind = "AddItemToSection"
	UpdateItemInSection Kind = "UpdateItemInSection"
	AddNewSection       Kind = "AddNewSection"
)

// Valid reports whether k is one of the four known operations.
func (k Kind) Valid() bool {
	switch k {
	case ReplaceSection, AddItemToSection, UpdateItemInSection, AddNewSection:
		return true
	}
	return false
}

// EditProposal is a machine-proposed change with anchor snippets describing
// where to apply it. Field names follow the edit exchange schema.
type EditProposal struct {
	ID                  string `json:"id"`
	Kind                Kind   `json:"kind"`
	TargetSectionHeader string `json:"targetSectionHeader"`
	ContextBefore       string `json:"contextBefore"`
	ContextAfter        string `json:"contextAfter"`
	// OriginalSnippet is required for UpdateItemInSection and unused otherwise.
	OriginalSnippet  string `json:"originalSnippet,omitempty"`
	SuggestedSnippet string `json:"suggestedSnippet"`
	Description      string `json:"description"`
}
