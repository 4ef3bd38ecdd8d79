// Package chunker splits long text into ordered, size-bounded chunks
// aligned on natural boundaries.
package chunker

import "strings"

// Boundary selects the unit a chunk boundary may fall on.
type Boundary int

const (
	// ByParagraph splits on blank-line-delimited paragraphs.
	ByParagraph Boundary = iota
	// ByLine splits on single newlines.
	ByLine
)

func (b Boundary) separator() string {
	if b == ByLine {
		return "\n"
	}
	return "\n\n"
}

// Chunk greedily accumulates units (paragraphs or lines) into chunks of at
// most maxChars characters. A single unit longer than maxChars is emitted as
// its own chunk rather than split further. Chunks are returned in input
// order; whitespace-only input yields no chunks.
func Chunk(text string, maxChars int, boundary Boundary) []string {
	if maxChars <= 0 {
		maxChars = 1
	}

	sep := boundary.separator()
	units := splitUnits(text, boundary)

	var chunks []string
	var buf strings.Builder

	for _, unit := range units {
		if buf.Len() == 0 {
			buf.WriteString(unit)
			continue
		}
		if buf.Len()+len(sep)+len(unit) > maxChars {
			chunks = append(chunks, buf.String())
			buf.Reset()
			buf.WriteString(unit)
			continue
		}
		buf.WriteString(sep)
		buf.WriteString(unit)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// splitUnits breaks text into non-empty trimmed units for the given boundary.
func splitUnits(text string, boundary Boundary) []string {
	var raw []string
	switch boundary {
	case ByLine:
		raw = strings.Split(text, "\n")
	default:
		raw = splitParagraphs(text)
	}

	units := make([]string, 0, len(raw))
	for _, u := range raw {
		u = strings.TrimSpace(u)
		if u != "" {
			units = append(units, u)
		}
	}
	return units
}

// splitParagraphs splits on runs of one blank line. Windows line endings are
// normalized first so "\r\n\r\n" counts as a paragraph break.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n\n")
}
