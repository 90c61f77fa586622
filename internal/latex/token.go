package latex

import "strings"

// TokenKind classifies one source line.
type TokenKind int

const (
	// TokenText is any line that is not a recognized marker, including
	// malformed markers with unbalanced braces or missing arguments.
	TokenText TokenKind = iota
	TokenSection
	TokenSubheading
	TokenItem
)

// Token is the typed form of one source line.
type Token struct {
	Kind TokenKind
	// Args holds the marker arguments in source order: one header for
	// sections, four fields for subheadings, one content string for items.
	Args []string
	// Raw is the original line without its trailing newline.
	Raw string
	// Line is the 1-based source line number.
	Line int
}

const (
	sectionMarker    = `\section`
	subheadingMarker = `\resumeSubheading`
	itemMarker       = `\resumeItem`
)

// Lex scans src line by line and emits exactly one token per line. Only the
// three resume markers are recognized; everything else lexes as TokenText.
func Lex(src string) []Token {
	lines := strings.Split(src, "\n")
	tokens := make([]Token, 0, len(lines))
	for i, line := range lines {
		tokens = append(tokens, lexLine(line, i+1))
	}
	return tokens
}

func lexLine(line string, n int) Token {
	trimmed := strings.TrimSpace(line)
	text := Token{Kind: TokenText, Raw: line, Line: n}

	// Order matters: \resumeItem is a prefix of nothing here, but a marker
	// only counts when its argument list starts right after the command.
	if rest, ok := matchMarker(trimmed, subheadingMarker); ok {
		args, ok := readArgs(rest, 4)
		if !ok {
			return text
		}
		return Token{Kind: TokenSubheading, Args: args, Raw: line, Line: n}
	}
	if rest, ok := matchMarker(trimmed, itemMarker); ok {
		args, ok := readArgs(rest, 1)
		if !ok {
			return text
		}
		return Token{Kind: TokenItem, Args: args, Raw: line, Line: n}
	}
	if rest, ok := matchMarker(trimmed, sectionMarker); ok {
		args, ok := readArgs(rest, 1)
		if !ok {
			return text
		}
		return Token{Kind: TokenSection, Args: args, Raw: line, Line: n}
	}
	return text
}

// matchMarker reports whether s begins with the given command immediately
// followed by a brace group, and returns the remainder starting at the brace.
// This keeps \resumeItemListStart and friends from matching \resumeItem.
func matchMarker(s, marker string) (string, bool) {
	if !strings.HasPrefix(s, marker) {
		return "", false
	}
	rest := strings.TrimLeft(s[len(marker):], " \t")
	if !strings.HasPrefix(rest, "{") {
		return "", false
	}
	return rest, true
}

// readArgs consumes n consecutive brace groups, honoring nested braces.
// It fails on unbalanced braces or missing groups.
func readArgs(s string, n int) ([]string, bool) {
	args := make([]string, 0, n)
	rest := s
	for i := 0; i < n; i++ {
		rest = strings.TrimLeft(rest, " \t")
		arg, remainder, ok := readBraceGroup(rest)
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		rest = remainder
	}
	return args, true
}

func readBraceGroup(s string) (arg, rest string, ok bool) {
	if !strings.HasPrefix(s, "{") {
		return "", "", false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
