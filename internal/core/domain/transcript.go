package domain

import "strings"

// Transcript is the ordered text produced from each audio chunk.
type Transcript struct {
	// Segments holds one entry per chunk in chunk order. Entries may be empty.
	Segments []string
}

// Text joins the segments with single spaces. Empty segments are kept,
// so a silent chunk still contributes its separator.
func (t *Transcript) Text() string {
	if t == nil {
		return ""
	}
	return strings.Join(t.Segments, " ")
}

// IsBlank reports whether the transcript carries no non-whitespace text.
func (t *Transcript) IsBlank() bool {
	return strings.TrimSpace(t.Text()) == ""
}
