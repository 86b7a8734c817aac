// Package site turns a configured lab notebook folder into an HTML site.
//
// A build runs a fixed sequence of stages over one BuildState:
//
//	tree -> indexes -> templates -> export -> site_libs -> search -> verify_links
//
// Each stage either succeeds, records a warning and lets the build continue,
// or fails fatally and aborts the remaining stages. Stage timings and
// outcomes are recorded in the Report and forwarded to a metrics.Recorder.
package site
