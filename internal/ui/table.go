package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cool/internal/driver"
)

// TableOptions controls RenderLayoutTable.
type TableOptions struct {
	Width  int  // 0 means unlimited
	Color  bool // style headers and errors with lipgloss
	Fields bool // list struct fields under their item
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type row struct {
	cells []string
	err   bool
	field bool
}

// RenderLayoutTable renders rep as an aligned text table. Widths are
// measured in display cells so wide characters line up.
func RenderLayoutTable(rep *driver.Report, opts TableOptions) string {
	if rep == nil {
		return ""
	}
	head := []string{"ITEM", "KIND", "SIZE", "ALIGN", "TYPE"}
	rows := []row{{cells: head}}
	for _, it := range rep.Items {
		if it.Error != "" {
			rows = append(rows, row{cells: []string{it.Path, it.Kind, "-", "-", it.Error}, err: true})
			continue
		}
		typ := it.Type
		if it.Union != nil {
			typ += fmt.Sprintf("  [%s, tag@%d]", it.Union.Strategy, it.Union.DiscriminantOffset)
		}
		rows = append(rows, row{cells: []string{it.Path, it.Kind, strconv.Itoa(it.Size), strconv.Itoa(it.Align), typ}})
		if opts.Fields {
			for _, f := range it.Fields {
				rows = append(rows, row{
					cells: []string{"  ." + f.Name, "field", strconv.Itoa(f.Size), "@" + strconv.Itoa(f.Offset), f.Type},
					field: true,
				})
			}
		}
	}

	widths := make([]int, len(head))
	for _, r := range rows {
		for i, c := range r.cells {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var b strings.Builder
	for n, r := range rows {
		var line strings.Builder
		for i, c := range r.cells {
			if i > 0 {
				line.WriteString("  ")
			}
			if i == len(r.cells)-1 {
				line.WriteString(c)
				break
			}
			if i == 2 || i == 3 {
				line.WriteString(runewidth.FillLeft(c, widths[i]))
			} else {
				line.WriteString(runewidth.FillRight(c, widths[i]))
			}
		}
		text := line.String()
		if opts.Width > 0 {
			text = Truncate(text, opts.Width)
		}
		if opts.Color {
			switch {
			case n == 0:
				text = headerStyle.Render(text)
			case r.err:
				text = errorStyle.Render(text)
			case r.field:
				text = dimStyle.Render(text)
			}
		}
		b.WriteString(strings.TrimRight(text, " "))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "target %s, %d items\n", rep.Target, len(rep.Items))
	return b.String()
}
