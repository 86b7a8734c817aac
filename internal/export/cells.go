package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Output MIME types in order of preference.
var mimePreference = []string{
	"text/html",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"text/markdown",
	"text/latex",
	"text/plain",
}

// pageBreak replaces raw LaTeX page breaks in HTML output.
const pageBreak = `<div class="newpage" style="break-after: page"></div>`

func (e *HTMLExporter) renderCell(c cell.Cell, hideInput bool) (string, error) {
	switch c.Kind {
	case cell.KindMarkdown:
		body, err := e.md.Render(c.Source)
		if err != nil {
			return "", err
		}
		return `<div class="cell markdown">` + body + `</div>`, nil
	case cell.KindRaw:
		if strings.TrimSpace(c.Source) == `\newpage` {
			return pageBreak, nil
		}
		return c.Source, nil
	default:
		var b strings.Builder
		b.WriteString(`<div class="cell code">`)
		if !hideInput {
			b.WriteString(`<div class="input"><pre><code>`)
			b.WriteString(html.EscapeString(c.Source))
			b.WriteString(`</code></pre></div>`)
		}
		if len(c.Outputs) > 0 {
			b.WriteString(`<div class="outputs">`)
			for _, o := range c.Outputs {
				out, err := e.renderOutput(o)
				if err != nil {
					return "", err
				}
				b.WriteString(out)
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
		return b.String(), nil
	}
}

func (e *HTMLExporter) renderOutput(o cell.Output) (string, error) {
	switch o["output_type"] {
	case "stream":
		name, _ := o["name"].(string)
		return fmt.Sprintf(`<pre class="output stream %s">%s</pre>`, html.EscapeString(name), html.EscapeString(stringField(o, "text"))), nil
	case "error":
		return renderError(o), nil
	}

	data, _ := o["data"].(map[string]any)
	for _, mime := range mimePreference {
		value, ok := data[mime].(string)
		if !ok {
			continue
		}
		switch mime {
		case "text/html", "image/svg+xml":
			return `<div class="output html">` + value + `</div>`, nil
		case "image/png", "image/jpeg":
			return fmt.Sprintf(`<div class="output image"><img src="data:%s;base64,%s"></div>`, mime, strings.Join(strings.Fields(value), "")), nil
		case "text/markdown":
			body, err := e.md.Render(value)
			if err != nil {
				return "", err
			}
			return `<div class="output markdown">` + body + `</div>`, nil
		case "text/latex":
			return `<div class="output latex">` + html.EscapeString(value) + `</div>`, nil
		default:
			return `<pre class="output text">` + html.EscapeString(value) + `</pre>`, nil
		}
	}
	return "", nil
}

func renderError(o cell.Output) string {
	var lines []string
	if tb, ok := o["traceback"].([]any); ok {
		for _, line := range tb {
			if s, ok := line.(string); ok {
				lines = append(lines, ansiEscape.ReplaceAllString(s, ""))
			}
		}
	}
	if len(lines) == 0 {
		lines = append(lines, fmt.Sprintf("%s: %s", stringField(o, "ename"), stringField(o, "evalue")))
	}
	return `<pre class="output error">` + html.EscapeString(strings.Join(lines, "\n")) + `</pre>`
}

func stringField(o cell.Output, key string) string {
	s, _ := o[key].(string)
	return s
}
