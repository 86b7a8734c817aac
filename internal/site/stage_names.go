package site

import "context"

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageTree        StageName = "tree"
	StageIndexes     StageName = "indexes"
	StageTemplates   StageName = "templates"
	StageExport      StageName = "export"
	StageSiteLibs    StageName = "site_libs"
	StageSearch      StageName = "search"
	StageVerifyLinks StageName = "verify_links"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// DefaultStages returns the full build pipeline.
func DefaultStages() []StageDef {
	return []StageDef{
		{StageTree, stageTree},
		{StageIndexes, stageIndexes},
		{StageTemplates, stageTemplates},
		{StageExport, stageExport},
		{StageSiteLibs, stageSiteLibs},
		{StageSearch, stageSearch},
		{StageVerifyLinks, stageVerifyLinks},
	}
}
