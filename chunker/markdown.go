package chunker

import (
	"regexp"
	"strings"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^#{1,6}[ \t]`)
	headingLine = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)
	listRe      = regexp.MustCompile(`(?m)^[ \t]{0,3}(?:[-*+]|\d{1,3}[.)])[ \t]`)
)

// headingRule starts a new candidate boundary at every heading line, so a
// chunk prefers to begin right at a heading.
func headingRule() rule {
	return rule{name: "heading", scan: cutBefore(headingRe)}
}

// listRule cuts before list item markers ("- ", "* ", "1. ").
func listRule() rule {
	return rule{name: "list", scan: cutBefore(listRe)}
}

// fenceRule finds fenced code blocks (``` or ~~~, closer at least as long as
// the opener) and marks them atomic: boundaries at both edges, never inside.
// An unclosed fence runs to the end of the span.
func fenceRule() rule {
	return rule{
		name: "fence",
		scan: func(_ *engine, text string, _ int) ([]int, []Region) {
			var cuts []int
			var regions []Region
			for _, r := range scanFences(text) {
				cuts = append(cuts, r.Start, r.End)
				regions = append(regions, r)
			}
			return cuts, regions
		},
	}
}

// scanFences walks text line by line collecting fenced regions. A region
// spans from the opening fence line through the closing fence line,
// including the newline after the closer when present.
func scanFences(text string) []Region {
	var regions []Region
	pos := 0
	openStart := -1
	var openMarker string
	for pos <= len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		var next int
		var line string
		if lineEnd < 0 {
			line = text[pos:]
			next = len(text) + 1
		} else {
			line = text[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}
		marker := fenceMarker(line)
		if openStart < 0 {
			if marker != "" {
				openStart = pos
				openMarker = marker
			}
		} else if marker != "" && marker[0] == openMarker[0] && len(marker) >= len(openMarker) {
			end := next
			if end > len(text) {
				end = len(text)
			}
			regions = append(regions, Region{Start: openStart, End: end})
			openStart = -1
		}
		pos = next
	}
	if openStart >= 0 {
		regions = append(regions, Region{Start: openStart, End: len(text)})
	}
	return regions
}

// fenceMarker returns the leading backtick or tilde run of a fence line
// (after up to three spaces of indent), or "" when the line opens no fence.
func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	for _, c := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == c {
			n++
		}
		if n >= 3 {
			return trimmed[:n]
		}
	}
	return ""
}

// heading captures one markdown heading occurrence for trail tracking.
type heading struct {
	offset int
	level  int
	title  string
}

// scanHeadings lists all H1-H6 headings in document order.
func scanHeadings(text string) []heading {
	ms := headingLine.FindAllStringSubmatchIndex(text, -1)
	hs := make([]heading, 0, len(ms))
	for _, m := range ms {
		hs = append(hs, heading{
			offset: m[0],
			level:  m[3] - m[2],
			title:  strings.TrimSpace(text[m[4]:m[5]]),
		})
	}
	return hs
}

// headingTrail returns the active heading path ("H1 > H2") at offset: the
// most recent heading of each level before offset, with deeper levels reset
// whenever a shallower heading appears.
func headingTrail(headings []heading, offset int) string {
	active := make(map[int]string)
	for _, h := range headings {
		if h.offset > offset {
			break
		}
		active[h.level] = h.title
		for l := h.level + 1; l <= 6; l++ {
			delete(active, l)
		}
	}
	var parts []string
	for l := 1; l <= 6; l++ {
		if t, ok := active[l]; ok {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " > ")
}
