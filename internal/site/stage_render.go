package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/labsite/internal/doctree"
	"git.home.luguber.info/inful/labsite/internal/export"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
	"git.home.luguber.info/inful/labsite/internal/preprocess"
	"git.home.luguber.info/inful/labsite/internal/rewrite"
)

// siteLibsDirName is the asset folder placed next to the HTML root.
const siteLibsDirName = "site-libs"

// PageContext computes the template context of page: links to every
// top-level section and every enclosing folder, plus the relative paths
// back to the HTML root and the site libraries.
func PageContext(tree *doctree.Tree, page doctree.Page) (export.TemplateContext, error) {
	from := page.Path()
	dirDepth := strings.Count(from, "/")

	ctx := export.TemplateContext{
		Name:         page.DisplayName(),
		RootPath:     strings.Repeat("../", dirDepth),
		SiteLibsPath: strings.Repeat("../", dirDepth) + "../" + siteLibsDirName,
	}

	for _, section := range tree.Sections() {
		link, err := section.Node.Link(from, 0)
		if err != nil {
			return ctx, err
		}
		ctx.NavbarSections = append(ctx.NavbarSections, export.NavItem{Name: section.Name, Link: rewrite.Href(link)})
	}

	parents, err := page.Ancestors()
	if err != nil {
		return ctx, err
	}
	for _, folder := range parents {
		link, err := folder.Link(from, 0)
		if err != nil {
			return ctx, err
		}
		ctx.Parents = append(ctx.Parents, export.NavItem{Name: folder.DisplayName(), Link: rewrite.Href(link)})
	}

	return ctx, nil
}

func stageTemplates(_ context.Context, bs *BuildState) error {
	cfg := bs.Config

	templatePath, err := export.TemplatePathIn(cfg.Template.TemplateDir)
	if err != nil {
		return newFatalStageError(StageTemplates, err)
	}

	var macros string
	if cfg.LatexMacrosFile != "" {
		data, err := os.ReadFile(cfg.LatexMacrosFile)
		if err != nil {
			return newFatalStageError(StageTemplates, errors.ConfigurationError("failed to read latex macros").
				WithCause(err).
				WithContext("path", cfg.LatexMacrosFile).
				Build())
		}
		macros = string(data)
	}

	ext := bs.Tree.Options.Extension
	bs.Pages = bs.Pages[:0]
	for _, page := range bs.Tree.Pages() {
		ctx, err := PageContext(bs.Tree, page)
		if err != nil {
			return newFatalStageError(StageTemplates, err)
		}
		ctx.TemplatePath = templatePath
		ctx.Params = cfg.Template.Params
		ctx.LatexMacros = macros

		url := rewrite.SwapExtension(page.Path(), ext)
		bs.Pages = append(bs.Pages, &PageOutput{
			Page:    page,
			Context: ctx,
			URL:     url,
			Output:  filepath.Join(cfg.HTMLTargetDir, filepath.FromSlash(url)),
		})
	}
	return nil
}

func stageExport(ctx context.Context, bs *BuildState) error {
	opts := preprocess.Options{
		InitializationMarker: bs.Config.Preprocess.InitializationMarker,
		WrapWidth:            bs.Config.Preprocess.WrapWidth,
	}

	for _, p := range bs.Pages {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageExport, err)
		}

		kind := p.Page.DocumentKind()
		cells := preprocess.ForKind(kind, opts).Apply(p.Page.Cells())
		out, err := bs.exporter.Render(cells, p.Context)
		if err != nil {
			return newFatalStageError(StageExport, err)
		}

		if err := os.MkdirAll(filepath.Dir(p.Output), 0o750); err != nil {
			return newFatalStageError(StageExport, errors.FileSystemError("failed to create output directory").
				WithCause(err).
				WithContext("path", filepath.Dir(p.Output)).
				Build())
		}
		if err := os.WriteFile(p.Output, out, 0o600); err != nil {
			return newFatalStageError(StageExport, errors.FileSystemError("failed to write page").
				WithCause(err).
				WithContext("path", p.Output).
				Build())
		}

		fp, err := fingerprint(p, out)
		if err != nil {
			return newFatalStageError(StageExport, err)
		}

		bs.recorder.IncPagesRendered(string(kind))
		bs.Report.RenderedPages++
		bs.Report.Pages = append(bs.Report.Pages, PageReport{
			Path:        p.Page.Path(),
			URL:         p.URL,
			Kind:        string(kind),
			Fingerprint: fp,
		})
		slog.Debug("Page rendered", logfields.Path(p.URL), logfields.Kind(string(kind)))
	}

	slog.Info("Pages rendered",
		logfields.BuildID(bs.Report.BuildID),
		logfields.Count(bs.Report.RenderedPages),
		logfields.Output(bs.Config.HTMLTargetDir))
	return nil
}

// fingerprint hashes the rendered page together with its identifying fields.
func fingerprint(p *PageOutput, rendered []byte) (string, error) {
	fields := map[string]any{
		"title": p.Page.DisplayName(),
		"kind":  string(p.Page.DocumentKind()),
		"url":   p.URL,
	}
	header, err := yaml.Marshal(fields)
	if err != nil {
		return "", errors.BuildError("failed to encode page fingerprint fields").
			WithCause(err).
			WithContext("path", p.Page.Path()).
			Build()
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(header), "\n"), string(rendered)), nil
}
