package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySection    = "section"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyName       = "name"
	KeyKind       = "kind"
	KeyIndex      = "index"
	KeyLevel      = "level"
	KeyLink       = "link"
	KeyTarget     = "target"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Index(i int) slog.Attr           { return slog.Int(KeyIndex, i) }
func Level(l int) slog.Attr           { return slog.Int(KeyLevel, l) }
func Link(l string) slog.Attr         { return slog.String(KeyLink, l) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
