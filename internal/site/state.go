package site

import (
	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/doctree"
	"git.home.luguber.info/inful/labsite/internal/export"
	"git.home.luguber.info/inful/labsite/internal/linkverify"
	"git.home.luguber.info/inful/labsite/internal/metrics"
)

// PageOutput is a page scheduled for rendering.
type PageOutput struct {
	Page    doctree.Page
	Context export.TemplateContext
	// URL is the slash path of the rendered file below the HTML root.
	URL string
	// Output is the filesystem path the page is written to.
	Output string
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Config *config.Config
	Tree   *doctree.Tree
	Pages  []*PageOutput
	Broken []linkverify.BrokenLink
	Report *Report

	exporter export.Exporter
	recorder metrics.Recorder
}
