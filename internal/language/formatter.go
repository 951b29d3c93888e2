package language

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/specialistvlad/asmtree/internal/metadata"
)

// IconID names an icon in the viewer's image set.
type IconID string

const (
	IconAssembly              IconID = "Assembly"
	IconAssemblyReference     IconID = "AssemblyReference"
	IconAssemblyWarning       IconID = "AssemblyWarning"
	IconAssemblyList          IconID = "AssemblyList"
	IconReferenceFolderClosed IconID = "ReferenceFolderClosed"
	IconReferenceFolderOpened IconID = "ReferenceFolderOpened"
	IconBaseTypeClosed        IconID = "BaseTypeClosed"
	IconBaseTypeOpened        IconID = "BaseTypeOpened"
	IconClass                 IconID = "Class"
	IconInterface             IconID = "Interface"
)

// Formatter renders subjects for display. Implementations must be pure:
// the same subject always yields the same output for a given formatter state.
type Formatter interface {
	// Name identifies the formatter, e.g. "plain".
	Name() string
	// Text returns the display text of a subject.
	Text(s metadata.Subject) string
	// Icon returns the icon of a subject.
	Icon(s metadata.Subject, expanded bool) IconID
	// WriteCommentLine writes text as a single comment line.
	WriteCommentLine(w io.Writer, text string) error
}

// CleanUpName makes a metadata name safe for single-line display: the name
// is cut at the first NUL, control characters become spaces and the result
// is NFC-normalised.
func CleanUpName(name string) string {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	return norm.NFC.String(name)
}
