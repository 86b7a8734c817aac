package markdown

import (
	"regexp"
	"strings"
)

// spacedLink matches inline links and images whose destination contains a
// space, which goldmark rejects. Destinations with a quoted title are valid
// CommonMark and left to goldmark.
var spacedLink = regexp.MustCompile(`(!?)\[[^\]]*\]\(([^)"']*[ \t][^)"']*)\)`)

func extractSpacedLinks(source string) []Link {
	var out []Link
	fence := ""
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch fence {
			case "":
				fence = marker
			case marker:
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}
		for _, m := range spacedLink.FindAllStringSubmatch(stripCodeSpans(line), -1) {
			kind := LinkKindInline
			if m[1] == "!" {
				kind = LinkKindImage
			}
			out = append(out, Link{Kind: kind, Destination: strings.TrimSpace(m[2])})
		}
	}
	return out
}

func fenceMarker(trimmed string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker
		}
	}
	return ""
}

// stripCodeSpans removes `code` spans, including multi-backtick delimiters.
func stripCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}
	var out strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '`' {
			out.WriteByte(s[i])
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		marker := s[i : i+run]
		closing := strings.Index(s[i+run:], marker)
		if closing == -1 {
			out.WriteString(marker)
			i += run
			continue
		}
		i += run + closing + run
	}
	return out.String()
}
