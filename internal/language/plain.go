package language

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/specialistvlad/asmtree/internal/metadata"
)

// Plain is the default formatter: simple names, C#-style line comments.
type Plain struct {
	display  *DisplaySettings
	colorize bool
	comment  *color.Color
}

// NewPlain creates the plain formatter. Comment lines are colored when
// colorize is set and the display settings enable syntax highlighting.
// A nil display behaves as highlighting enabled.
func NewPlain(display *DisplaySettings, colorize bool) *Plain {
	p := &Plain{display: display, colorize: colorize, comment: color.New(color.FgGreen)}
	if colorize {
		// The caller already decided; don't let color's own tty check override it.
		p.comment.EnableColor()
	}
	return p
}

// Name implements Formatter.
func (p *Plain) Name() string {
	return "plain"
}

// Text implements Formatter.
func (p *Plain) Text(s metadata.Subject) string {
	switch s := s.(type) {
	case *metadata.Assembly:
		return CleanUpName(s.Name)
	case metadata.AssemblyRef:
		return CleanUpName(s.Name)
	case *metadata.TypeDef:
		return CleanUpName(s.FullName())
	case metadata.TypeRef:
		return CleanUpName(s.FullName())
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Icon implements Formatter.
func (p *Plain) Icon(s metadata.Subject, expanded bool) IconID {
	switch s := s.(type) {
	case *metadata.Assembly:
		return IconAssembly
	case metadata.AssemblyRef:
		return IconAssemblyReference
	case *metadata.TypeDef:
		if s.Interface {
			return IconInterface
		}
		return IconClass
	case metadata.TypeRef:
		return IconClass
	default:
		return IconAssemblyWarning
	}
}

// WriteCommentLine implements Formatter.
func (p *Plain) WriteCommentLine(w io.Writer, text string) error {
	line := "// " + text
	if p.highlight() {
		line = p.comment.Sprint(line)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func (p *Plain) highlight() bool {
	if !p.colorize {
		return false
	}
	return p.display == nil || p.display.SyntaxHighlight()
}
