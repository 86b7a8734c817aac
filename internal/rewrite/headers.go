// Package rewrite transforms markdown cells so content taken from one
// document renders correctly once spliced into another: header levels are
// rescaled and in-document links are rerouted.
//
// Every function returns a new cell sequence; inputs are never modified.
package rewrite

import (
	stderrors "errors"
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/logfields"
)

var headerPattern = regexp.MustCompile(`^(#+) (.+)$`)

// ErrNoRescaleMode is returned when RescaleOptions select no mode or more than one.
var ErrNoRescaleMode = stderrors.New("rescale needs exactly one of min level or scale amount")

// HeaderLine describes a markdown header line.
type HeaderLine struct {
	Level int
	Title string
}

// ParseHeaderLine reports whether line is a markdown header and returns its parts.
func ParseHeaderLine(line string) (HeaderLine, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return HeaderLine{}, false
	}
	return HeaderLine{Level: len(m[1]), Title: m[2]}, true
}

// String renders the header back to markdown.
func (h HeaderLine) String() string {
	return strings.Repeat("#", h.Level) + " " + h.Title
}

// MinimumHeaderLevel returns the lowest header level found in any markdown cell.
func MinimumHeaderLevel(cells []cell.Cell) (int, bool) {
	minimum, found := 0, false
	for _, c := range cells {
		if !c.IsMarkdown() {
			continue
		}
		for _, line := range strings.Split(c.Source, "\n") {
			h, ok := ParseHeaderLine(line)
			if ok && (!found || h.Level < minimum) {
				minimum, found = h.Level, true
			}
		}
	}
	return minimum, found
}

// RescaleOptions selects how header levels change.
//
//   - ScaleAll shifts every header by that amount (never below level 1).
//   - MinLevel alone raises headers shallower than MinLevel up to MinLevel.
//   - MinLevel with ScaleToMin shifts every header so the shallowest one lands
//     on MinLevel. Levels are never reduced in this mode.
type RescaleOptions struct {
	MinLevel   int
	ScaleAll   int
	ScaleToMin bool
}

func (o RescaleOptions) validate() error {
	switch {
	case o.ScaleToMin && o.MinLevel <= 0:
		return ErrNoRescaleMode
	case o.MinLevel > 0 && o.ScaleAll != 0:
		return ErrNoRescaleMode
	case o.MinLevel <= 0 && o.ScaleAll == 0:
		return ErrNoRescaleMode
	}
	return nil
}

// Rescale returns a copy of cells with markdown header levels changed per opts.
func Rescale(cells []cell.Cell, opts RescaleOptions) ([]cell.Cell, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	minLevel, scaleAll := opts.MinLevel, opts.ScaleAll
	if opts.ScaleToMin {
		current, ok := MinimumHeaderLevel(cells)
		if !ok {
			slog.Debug("MissingHeaderLevelWarning: no markdown header to rescale", logfields.Level(opts.MinLevel))
			return cell.CloneAll(cells), nil
		}
		delta := opts.MinLevel - current
		if delta <= 0 {
			slog.Debug("No header level increase necessary", logfields.Level(current))
			return cell.CloneAll(cells), nil
		}
		minLevel, scaleAll = 0, delta
	}

	out := make([]cell.Cell, 0, len(cells))
	for _, c := range cells {
		c = c.Clone()
		if c.IsMarkdown() {
			c.Source = rescaleSource(c.Source, minLevel, scaleAll)
		}
		out = append(out, c)
	}
	return out, nil
}

func rescaleSource(source string, minLevel, scaleAll int) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		h, ok := ParseHeaderLine(line)
		if !ok {
			continue
		}
		switch {
		case minLevel > 0 && h.Level < minLevel:
			h.Level = minLevel
		case scaleAll != 0:
			h.Level = max(h.Level+scaleAll, 1)
		}
		lines[i] = h.String()
	}
	return strings.Join(lines, "\n")
}
