package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "export", Stage("export")},
		{"Section", KeySection, "Analysis", Section("Analysis")},
		{"Path", KeyPath, "1 - A/2 - B.ipynb", Path("1 - A/2 - B.ipynb")},
		{"File", KeyFile, "index.html", File("index.html")},
		{"Name", KeyName, "n", Name("n")},
		{"Kind", KeyKind, "log", Kind("log")},
		{"Link", KeyLink, "../x.html", Link("../x.html")},
		{"Target", KeyTarget, "doc/html", Target("doc/html")},
		{"Output", KeyOutput, "out", Output("out")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Index(5); v.Key != KeyIndex {
		t.Fatalf("Index key mismatch: %s", v.Key)
	}
	if v := Level(2); v.Key != KeyLevel {
		t.Fatalf("Level key mismatch: %s", v.Key)
	}
	if v := Count(42); v.Key != KeyCount {
		t.Fatalf("Count key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
