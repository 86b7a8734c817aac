package doctree

import (
	"strings"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/rewrite"
)

const summaryTitle = "summary"

// ExtractSummaryCells returns the cells of the section headed "Summary".
//
// The section starts after the first markdown cell whose first line is a
// header titled "Summary" (any case, optional trailing colon) and ends before
// the next markdown cell headed at the same or a shallower level. Without
// such a header the result is empty.
func ExtractSummaryCells(cells []cell.Cell) []cell.Cell {
	fold := cases.Fold()
	level := 0
	var out []cell.Cell
	for _, c := range cells {
		header, isHeader := cellHeader(c)
		if level == 0 {
			if isHeader && fold.String(strings.TrimRight(strings.TrimSpace(header.Title), ":")) == summaryTitle {
				level = header.Level
			}
			continue
		}
		if isHeader && header.Level <= level {
			break
		}
		out = append(out, c.Clone())
	}
	return out
}

func cellHeader(c cell.Cell) (rewrite.HeaderLine, bool) {
	if !c.IsMarkdown() {
		return rewrite.HeaderLine{}, false
	}
	return rewrite.ParseHeaderLine(c.FirstLine())
}
