package doctree

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
)

var indexedName = regexp.MustCompile(`^(\d+) - (.+)$`)

const summarySuffix = "summary"

// ManifestEntry is one configured top-level section.
type ManifestEntry struct {
	Name string
	// Path is a folder or document, relative to the base directory.
	Path string
	// Class is a document class tag resolved through the Registry; empty means a plain notebook.
	Class string
}

// Builder discovers documents on disk and assembles a Tree.
type Builder struct {
	opts   Options
	fold   cases.Caser
	ignore map[string]bool
}

func NewBuilder(opts Options) *Builder {
	opts = opts.withDefaults()
	b := &Builder{opts: opts, fold: cases.Fold()}
	b.ignore = make(map[string]bool, len(opts.IgnoreNames))
	for _, n := range opts.IgnoreNames {
		b.ignore[b.fold.String(n)] = true
	}
	return b
}

// Build discovers the tree below baseDir by naming convention.
func (b *Builder) Build(baseDir, name string) (*Tree, error) {
	t, err := b.newTree(baseDir, name)
	if err != nil {
		return nil, err
	}
	if err := b.scan(t, t.Root); err != nil {
		return nil, err
	}
	slog.Info("Document tree built",
		logfields.Name(name),
		logfields.Count(len(t.Root.Folders)+len(t.Root.Documents)))
	return t, nil
}

// BuildManifest builds a tree whose top level is the given sections in order.
// Folder sections are then discovered by convention.
func (b *Builder) BuildManifest(baseDir, name string, entries []ManifestEntry) (*Tree, error) {
	t, err := b.newTree(baseDir, name)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		node, err := b.section(t, entry)
		if err != nil {
			return nil, err
		}
		t.sections = append(t.sections, Section{Name: node.DisplayName(), Node: node})
	}
	summary, err := b.summary(t, t.Root)
	if err != nil {
		return nil, err
	}
	t.Root.Summary = summary
	slog.Info("Document tree built from sections", logfields.Name(name), logfields.Count(len(t.sections)))
	return t, nil
}

func (b *Builder) newTree(baseDir, name string) (*Tree, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.ConfigurationError("invalid base directory").WithCause(err).WithContext("path", baseDir).Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.ConfigurationError("base directory not found").WithCause(err).WithContext("path", abs).Build()
	}
	if !info.IsDir() {
		return nil, errors.ConfigurationError("base directory is not a directory").WithContext("path", abs).Build()
	}
	t := &Tree{BaseDir: abs, Options: b.opts}
	t.Root = &Folder{
		Name:         name,
		Kind:         b.opts.DocumentKind,
		absolutePath: abs,
		tree:         t,
	}
	return t, nil
}

func (b *Builder) section(t *Tree, entry ManifestEntry) (Node, error) {
	kind, err := b.opts.Registry.Lookup(entry.Class)
	if err != nil {
		return nil, err
	}

	abs := entry.Path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(t.BaseDir, abs)
	}
	rel, err := filepath.Rel(t.BaseDir, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.ConfigurationError("section path must be inside the base directory").
			WithContext("section", entry.Name).
			WithContext("path", entry.Path).
			Build()
	}
	rel = filepath.ToSlash(rel)

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.ConfigurationError("section path not found").
			WithCause(err).
			WithContext("section", entry.Name).
			WithContext("path", entry.Path).
			Build()
	}

	name := entry.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(rel), b.opts.Extension)
	}

	switch {
	case info.IsDir():
		f := &Folder{
			Name:         name,
			Kind:         kind,
			relativePath: rel,
			absolutePath: abs,
			parent:       t.Root,
			tree:         t,
		}
		if err := b.scan(t, f); err != nil {
			return nil, err
		}
		t.Root.Folders = append(t.Root.Folders, f)
		slog.Debug("Section folder added", logfields.Section(name), logfields.Path(rel))
		return f, nil
	case filepath.Ext(abs) == b.opts.Extension:
		cells, err := b.opts.ReadCells(abs)
		if err != nil {
			return nil, err
		}
		d := newDocument(name, nil, kind, rel, abs, t.Root, cells)
		t.Root.Documents = append(t.Root.Documents, d)
		slog.Debug("Section document added", logfields.Section(name), logfields.Path(rel))
		return d, nil
	default:
		return nil, errors.ConfigurationError("section path is neither a folder nor a document").
			WithContext("section", entry.Name).
			WithContext("path", entry.Path).
			Build()
	}
}

// scan fills f with the sub-folders, documents and summary found on disk.
func (b *Builder) scan(t *Tree, f *Folder) error {
	entries, err := os.ReadDir(f.absolutePath)
	if err != nil {
		return errors.FileSystemError("failed to read folder").WithCause(err).WithContext("path", f.absolutePath).Build()
	}

	folderIndices := make(map[int]bool)
	for _, e := range entries {
		if !e.IsDir() || isHidden(e.Name()) {
			continue
		}
		name, index, ok := b.parseName(e.Name())
		if !ok {
			continue
		}
		if index != nil && *index == 0 && name == "Summary" {
			continue
		}
		sub := &Folder{
			Name:         name,
			Index:        index,
			Kind:         f.Kind,
			relativePath: path.Join(f.relativePath, e.Name()),
			absolutePath: filepath.Join(f.absolutePath, e.Name()),
			parent:       f,
			tree:         t,
		}
		if err := b.scan(t, sub); err != nil {
			return err
		}
		if index != nil {
			if folderIndices[*index] {
				slog.Warn("Duplicate folder index", logfields.Path(sub.relativePath), logfields.Index(*index))
			}
			folderIndices[*index] = true
		}
		f.Folders = append(f.Folders, sub)
	}

	summary, err := b.summary(t, f)
	if err != nil {
		return err
	}
	f.Summary = summary

	documentIndices := make(map[int]bool)
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) || filepath.Ext(e.Name()) != b.opts.Extension {
			continue
		}
		rel := path.Join(f.relativePath, e.Name())
		name, index, ok := b.parseName(strings.TrimSuffix(e.Name(), b.opts.Extension))
		if !ok {
			continue
		}
		if b.ignored(name) {
			slog.Debug("Skipping ignored document", logfields.Path(rel))
			continue
		}
		if index != nil && folderIndices[*index] {
			slog.Warn("Skipping document whose index is taken by a folder", logfields.Path(rel), logfields.Index(*index))
			continue
		}
		if index != nil {
			if documentIndices[*index] {
				slog.Warn("Duplicate document index", logfields.Path(rel), logfields.Index(*index))
			}
			documentIndices[*index] = true
		}
		abs := filepath.Join(f.absolutePath, e.Name())
		cells, err := b.opts.ReadCells(abs)
		if err != nil {
			return err
		}
		f.Documents = append(f.Documents, newDocument(name, index, f.Kind, rel, abs, f, cells))
		slog.Debug("Discovered document", logfields.Path(rel), logfields.Kind(string(f.Kind)))
	}

	if b.opts.Indexing {
		slices.SortStableFunc(f.Folders, func(a, c *Folder) int { return compareIndex(a.Index, c.Index) })
		slices.SortStableFunc(f.Documents, func(a, c *Document) int { return compareIndex(a.Index, c.Index) })
	}
	return nil
}

// summary loads the first document, by file name, whose name ends in "summary".
func (b *Builder) summary(t *Tree, f *Folder) (*Document, error) {
	entries, err := os.ReadDir(f.absolutePath)
	if err != nil {
		return nil, errors.FileSystemError("failed to read folder").WithCause(err).WithContext("path", f.absolutePath).Build()
	}
	suffix := summarySuffix + b.fold.String(b.opts.Extension)
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) || !strings.HasSuffix(b.fold.String(e.Name()), suffix) {
			continue
		}
		rel := path.Join(f.relativePath, e.Name())
		abs := filepath.Join(f.absolutePath, e.Name())
		cells, err := b.opts.ReadCells(abs)
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		name, index, ok := b.parseName(stem)
		if !ok {
			name, index = stem, nil
		}
		return newDocument(name, index, KindSummary, rel, abs, f, cells), nil
	}
	return nil, nil
}

// parseName splits "<index> - <name>". Without indexing every name is accepted as is.
func (b *Builder) parseName(s string) (string, *int, bool) {
	if !b.opts.Indexing {
		return s, nil, !b.ignored(s) && b.fold.String(s) != b.fold.String(b.opts.IndexFilename)
	}
	m := indexedName.FindStringSubmatch(s)
	if m == nil {
		return "", nil, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return "", nil, false
	}
	return m[2], &index, true
}

func (b *Builder) ignored(name string) bool {
	return b.ignore[b.fold.String(name)]
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func compareIndex(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return *a - *b
}
