// Package notebook reads and writes Jupyter notebooks (nbformat 4) as cell sequences.
package notebook

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

// Extension is the file extension of notebook documents.
const Extension = ".ipynb"

// ErrInvalidNotebook indicates the file is not a decodable nbformat document.
var ErrInvalidNotebook = stderrors.New("invalid notebook")

// Notebook is a decoded notebook file.
type Notebook struct {
	Cells         []cell.Cell
	Metadata      map[string]any
	Format        int
	FormatMinor   int
	executionKeys map[int]any
}

// New returns an empty nbformat 4 notebook.
func New(cells ...cell.Cell) *Notebook {
	return &Notebook{Cells: cells, Metadata: map[string]any{}, Format: 4, FormatMinor: 2}
}

type rawNotebook struct {
	Cells         []rawCell      `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

type rawCell struct {
	CellType       string          `json:"cell_type"`
	Source         multilineString `json:"source"`
	Metadata       map[string]any  `json:"metadata"`
	Outputs        *[]cell.Output  `json:"outputs,omitempty"`
	ExecutionCount any             `json:"execution_count,omitempty"`
}

// multilineString accepts nbformat's "string or list of strings" encoding.
type multilineString string

func (m *multilineString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = multilineString(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("source must be a string or list of strings: %w", err)
	}
	*m = multilineString(strings.Join(parts, ""))
	return nil
}

func (m multilineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(splitLines(string(m)))
}

// splitLines splits keeping line terminators, the way nbformat stores sources.
func splitLines(s string) []string {
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// Parse decodes notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNotebook, err)
	}
	if raw.NBFormat != 0 && raw.NBFormat < 4 {
		return nil, fmt.Errorf("%w: unsupported nbformat %d", ErrInvalidNotebook, raw.NBFormat)
	}

	nb := &Notebook{
		Cells:         make([]cell.Cell, 0, len(raw.Cells)),
		Metadata:      raw.Metadata,
		Format:        raw.NBFormat,
		FormatMinor:   raw.NBFormatMinor,
		executionKeys: map[int]any{},
	}
	for i, rc := range raw.Cells {
		kind := cell.Kind(rc.CellType)
		switch kind {
		case cell.KindMarkdown, cell.KindCode, cell.KindRaw:
		default:
			return nil, fmt.Errorf("%w: cell %d has unknown type %q", ErrInvalidNotebook, i, rc.CellType)
		}
		var outputs []cell.Output
		if rc.Outputs != nil {
			outputs = normalizeOutputs(*rc.Outputs)
		}
		nb.Cells = append(nb.Cells, cell.Cell{
			Kind:     kind,
			Source:   string(rc.Source),
			Outputs:  outputs,
			Metadata: rc.Metadata,
		})
		if rc.ExecutionCount != nil {
			nb.executionKeys[i] = rc.ExecutionCount
		}
	}
	return nb, nil
}

// normalizeOutputs joins list-encoded text fields so consumers see plain strings.
func normalizeOutputs(outputs []cell.Output) []cell.Output {
	for _, o := range outputs {
		if text, ok := o["text"].([]any); ok {
			o["text"] = joinAny(text)
		}
		if data, ok := o["data"].(map[string]any); ok {
			for mime, v := range data {
				if parts, ok := v.([]any); ok {
					data[mime] = joinAny(parts)
				}
			}
		}
	}
	return outputs
}

func joinAny(parts []any) string {
	var b strings.Builder
	for _, p := range parts {
		if s, ok := p.(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// Read loads a notebook from disk. Read failures keep the underlying error in
// the chain, so errors.Is(err, fs.ErrNotExist) still holds.
func Read(path string) (*Notebook, error) {
	// #nosec G304 -- paths come from the tree builder walking the configured base dir.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read notebook").
			WithContext("path", path).
			Build()
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, errors.NotebookError("failed to parse notebook").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nb, nil
}

// ReadCells is Read for callers that only need the cell sequence.
func ReadCells(path string) ([]cell.Cell, error) {
	nb, err := Read(path)
	if err != nil {
		return nil, err
	}
	return nb.Cells, nil
}

// Marshal encodes the notebook as nbformat 4 JSON.
func (nb *Notebook) Marshal() ([]byte, error) {
	raw := rawNotebook{
		Cells:         make([]rawCell, 0, len(nb.Cells)),
		Metadata:      nb.Metadata,
		NBFormat:      nb.Format,
		NBFormatMinor: nb.FormatMinor,
	}
	if raw.Metadata == nil {
		raw.Metadata = map[string]any{}
	}
	if raw.NBFormat == 0 {
		raw.NBFormat, raw.NBFormatMinor = 4, 2
	}
	for i, c := range nb.Cells {
		rc := rawCell{
			CellType: string(c.Kind),
			Source:   multilineString(c.Source),
			Metadata: c.Metadata,
		}
		if rc.Metadata == nil {
			rc.Metadata = map[string]any{}
		}
		if c.IsCode() {
			outputs := c.Outputs
			if outputs == nil {
				outputs = []cell.Output{}
			}
			rc.Outputs = &outputs
			rc.ExecutionCount = nb.executionKeys[i]
		}
		raw.Cells = append(raw.Cells, rc)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores the notebook at path, creating parent directories.
func Write(path string, nb *Notebook) error {
	data, err := nb.Marshal()
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotebook, "failed to encode notebook").
			WithContext("path", path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create notebook directory").
			WithContext("path", path).
			Build()
	}
	// #nosec G306 -- generated notebooks are public build artifacts
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write notebook").
			WithContext("path", path).
			Build()
	}
	return nil
}
