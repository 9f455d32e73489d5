package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cool/internal/diag"
	"cool/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	code, path, gutter    *color.Color
	mark                  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		mark:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.mark} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for humans. The bag is expected to be sorted.
// Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with the span underlined ^~~~, and then its
// notes in the same shape when ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	for i := range n {
		d := items[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(location(fs, d.Primary, opts)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		excerpt(w, fs, d.Primary, p, p.mark)
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			fmt.Fprintf(w, "%s: %s: %s\n",
				p.path.Sprint(location(fs, note.Span, opts)),
				p.note.Sprint("note"),
				note.Msg)
			excerpt(w, fs, note.Span, p, p.note)
		}
	}
	if hidden := len(items) - n + bag.Dropped(); hidden > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", hidden)
	}
}

func location(fs *source.FileSet, span source.Span, opts PrettyOpts) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// excerpt prints the first line of span with a marker underneath.
func excerpt(w io.Writer, fs *source.FileSet, span source.Span, p palette, mark *color.Color) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	line := f.LineSpan(int(start.Line))
	if line.End < line.Start || int(line.End) > len(f.Content) {
		return
	}
	text := string(f.Content[line.Start:line.End])

	from := int(start.Col) - 1
	to := len(text)
	if end.Line == start.Line {
		to = int(end.Col) - 1
	}
	from = min(max(from, 0), len(text))
	to = min(max(to, from), len(text))

	num := strconv.FormatUint(uint64(start.Line), 10)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), text)
	fmt.Fprintf(w, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), indent(text[:from]), mark.Sprint(underline(text[from:to])))
}

// indent mirrors prefix as whitespace so the marker lines up under tabs and
// wide runes.
func indent(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(marked string) string {
	width := runewidth.StringWidth(marked)
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}
