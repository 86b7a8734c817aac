package site

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/cell"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
	"git.home.luguber.info/inful/labsite/internal/rewrite"
)

// SearchIndexFilename is written into the HTML root for the search page.
const SearchIndexFilename = "tipuesearch_content.js"

// searchNewline replaces newlines in indexed text.
const searchNewline = "&nbsp;\n&nbsp;"

// SearchRecord is one page entry of the search index.
type SearchRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// NewSearchRecord flattens a page's markdown into a search entry.
func NewSearchRecord(title, url string, cells []cell.Cell) SearchRecord {
	text := strings.Join(cell.MarkdownSources(cells), "\n")
	return SearchRecord{
		Title: title,
		URL:   rewrite.Href(url),
		Text:  strings.ReplaceAll(text, "\n", searchNewline),
	}
}

// SearchIndex renders records as the JavaScript assignment the search page loads.
func SearchIndex(records []SearchRecord) ([]byte, error) {
	if records == nil {
		records = []SearchRecord{}
	}
	var buf bytes.Buffer
	buf.WriteString("var tipuesearch = ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string][]SearchRecord{"pages": records}); err != nil {
		return nil, err
	}
	buf.Truncate(buf.Len() - 1)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

func stageSearch(_ context.Context, bs *BuildState) error {
	records := make([]SearchRecord, 0, len(bs.Pages))
	for _, p := range bs.Pages {
		records = append(records, NewSearchRecord(p.Page.DisplayName(), p.URL, p.Page.Cells()))
	}

	data, err := SearchIndex(records)
	if err != nil {
		return newFatalStageError(StageSearch, errors.BuildError("failed to encode search index").WithCause(err).Build())
	}

	path := filepath.Join(bs.Config.HTMLTargetDir, SearchIndexFilename)
	if err := os.MkdirAll(bs.Config.HTMLTargetDir, 0o750); err != nil {
		return newFatalStageError(StageSearch, errors.FileSystemError("failed to create HTML directory").
			WithCause(err).
			WithContext("path", bs.Config.HTMLTargetDir).
			Build())
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return newFatalStageError(StageSearch, errors.FileSystemError("failed to write search index").
			WithCause(err).
			WithContext("path", path).
			Build())
	}

	slog.Debug("Search index written", logfields.Path(path), logfields.Count(len(records)))
	return nil
}

// stageSiteLibs replaces the site-libs folder next to the HTML root with a
// copy of the configured one.
func stageSiteLibs(_ context.Context, bs *BuildState) error {
	src := bs.Config.SiteLibsDir
	if src == "" {
		return nil
	}
	dst := bs.Config.SiteLibsTarget()

	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return errors.FileSystemError("site libraries folder not found").
			WithCause(err).
			WithContext("path", src).
			Warning().
			Build()
	}
	if err := os.RemoveAll(dst); err != nil {
		return newFatalStageError(StageSiteLibs, errors.FileSystemError("failed to clear site libraries").
			WithCause(err).
			WithContext("path", dst).
			Build())
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return newFatalStageError(StageSiteLibs, errors.FileSystemError("failed to copy site libraries").
			WithCause(err).
			WithContext("path", src).
			WithContext("target", dst).
			Build())
	}

	slog.Info("Site libraries copied", logfields.Path(src), logfields.Target(dst))
	return nil
}
