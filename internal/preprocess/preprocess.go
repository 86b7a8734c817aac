// Package preprocess filters and rewrites cell sequences before export.
//
// Every preprocessor is a value transform: it returns a new slice and never
// modifies the cells it was given.
package preprocess

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/rewrite"
)

// Func transforms a cell sequence.
type Func func([]cell.Cell) []cell.Cell

// Preprocessor is a named Func.
type Preprocessor struct {
	Name string
	Run  Func
}

// Chain runs preprocessors in order.
type Chain []Preprocessor

// Apply runs the chain on a copy of cells.
func (c Chain) Apply(cells []cell.Cell) []cell.Cell {
	out := cell.CloneAll(cells)
	for _, p := range c {
		out = p.Run(out)
	}
	return out
}

// Names lists the preprocessors in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name
	}
	return names
}

const (
	javascriptMime = "application/javascript"
	newPageSource  = `\newpage`
	continuation   = "    "
)

// RemoveInitializationCell drops every cell up to and including the first
// one whose source contains marker. An empty marker matches nothing.
func RemoveInitializationCell(marker string) Preprocessor {
	return Preprocessor{Name: "remove_initialization_cell", Run: func(cells []cell.Cell) []cell.Cell {
		if marker == "" {
			return cell.CloneAll(cells)
		}
		for k, c := range cells {
			if strings.Contains(c.Source, marker) {
				return cell.CloneAll(cells[k+1:])
			}
		}
		return cell.CloneAll(cells)
	}}
}

// RemoveBeforeSummary drops the cells preceding the first markdown cell that
// starts with a "# Summary" header.
func RemoveBeforeSummary() Preprocessor {
	return Preprocessor{Name: "remove_before_summary", Run: func(cells []cell.Cell) []cell.Cell {
		fold := cases.Fold()
		for k, c := range cells {
			if !c.IsMarkdown() {
				continue
			}
			h, ok := rewrite.ParseHeaderLine(c.FirstLine())
			if ok && h.Level == 1 && strings.HasPrefix(fold.String(h.Title), "summary") {
				return cell.CloneAll(cells[k:])
			}
		}
		return cell.CloneAll(cells)
	}}
}

// RemoveJavaScriptOutputs drops code outputs carrying application/javascript data.
func RemoveJavaScriptOutputs() Preprocessor {
	return Preprocessor{Name: "remove_javascript_outputs", Run: filterOutputs(func(o cell.Output) bool {
		data, _ := o["data"].(map[string]any)
		_, js := data[javascriptMime]
		return !js
	})}
}

// RemoveWarnings drops stderr stream outputs.
func RemoveWarnings() Preprocessor {
	return Preprocessor{Name: "remove_warnings", Run: filterOutputs(func(o cell.Output) bool {
		return o["name"] != "stderr"
	})}
}

func filterOutputs(keep func(cell.Output) bool) Func {
	return func(cells []cell.Cell) []cell.Cell {
		out := make([]cell.Cell, 0, len(cells))
		for _, c := range cells {
			c = c.Clone()
			if c.IsCode() && c.Outputs != nil {
				kept := make([]cell.Output, 0, len(c.Outputs))
				for _, o := range c.Outputs {
					if keep(o) {
						kept = append(kept, o)
					}
				}
				c.Outputs = kept
			}
			out = append(out, c)
		}
		return out
	}
}

// WrapPrint wraps every line of textual code output longer than width at
// word boundaries, breaking words that do not fit. Continuation lines are
// indented by four spaces.
func WrapPrint(width int) Preprocessor {
	return Preprocessor{Name: "wrap_print", Run: func(cells []cell.Cell) []cell.Cell {
		out := make([]cell.Cell, 0, len(cells))
		for _, c := range cells {
			c = c.Clone()
			if c.IsCode() {
				for i, o := range c.Outputs {
					text, ok := o["text"].(string)
					if !ok {
						continue
					}
					wrapped := make(cell.Output, len(o))
					for k, v := range o {
						wrapped[k] = v
					}
					wrapped["text"] = wrapText(text, width)
					c.Outputs[i] = wrapped
				}
			}
			out = append(out, c)
		}
		return out
	}}
}

func wrapText(text string, width int) string {
	limit := max(width-len(continuation), 1)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if len(line) <= width {
			continue
		}
		lines[i] = strings.Join(strings.Split(wrap.String(wordwrap.String(line, limit), limit), "\n"), "\n"+continuation)
	}
	return strings.Join(lines, "\n")
}

// NewPage inserts a raw page break before every top-level header cell and
// before second-level header cells that do not directly follow a header.
// The first cell never gets one.
func NewPage() Preprocessor {
	return Preprocessor{Name: "new_page", Run: func(cells []cell.Cell) []cell.Cell {
		out := make([]cell.Cell, 0, len(cells))
		afterHeader := false
		for k, c := range cells {
			if k > 0 && c.IsMarkdown() {
				switch {
				case strings.HasPrefix(c.Source, "# "):
					out = append(out, cell.NewRaw(newPageSource))
					afterHeader = true
				case strings.HasPrefix(c.Source, "## ") && !afterHeader:
					out = append(out, cell.NewRaw(newPageSource))
					afterHeader = false
				default:
					afterHeader = false
				}
			}
			out = append(out, c.Clone())
		}
		return out
	}}
}
