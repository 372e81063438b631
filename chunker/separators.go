package chunker

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// rule is one level of a separator hierarchy. scan reports, relative to
// text, the offsets at which the span may be cut, plus any atomic regions
// (fences, protected blocks) that must never be cut internally. The last
// rule of every hierarchy is the character fallback, which guarantees
// termination.
type rule struct {
	name string
	scan func(en *engine, text string, base int) (cuts []int, regions []Region)
}

var (
	paragraphRe = regexp.MustCompile(`\n{2,}`)
	lineRe      = regexp.MustCompile(`\n+`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// defaultAbbreviations never terminate a sentence.
var defaultAbbreviations = []string{
	"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Sr.", "Jr.", "St.",
	"vs.", "etc.", "e.g.", "i.e.", "cf.", "Fig.", "No.",
}

// cutAfter turns regexp matches into boundaries placed after the matched
// separator, keeping it with the preceding sub-span.
func cutAfter(re *regexp.Regexp) func(*engine, string, int) ([]int, []Region) {
	return func(_ *engine, text string, _ int) ([]int, []Region) {
		ms := re.FindAllStringIndex(text, -1)
		cuts := make([]int, 0, len(ms))
		for _, m := range ms {
			cuts = append(cuts, m[1])
		}
		return cuts, nil
	}
}

// cutBefore places boundaries at match starts, keeping the separator with
// the following sub-span.
func cutBefore(re *regexp.Regexp) func(*engine, string, int) ([]int, []Region) {
	return func(_ *engine, text string, _ int) ([]int, []Region) {
		ms := re.FindAllStringIndex(text, -1)
		cuts := make([]int, 0, len(ms))
		for _, m := range ms {
			cuts = append(cuts, m[0])
		}
		return cuts, nil
	}
}

func paragraphRule() rule {
	return rule{name: "paragraph", scan: cutAfter(paragraphRe)}
}

func lineRule() rule {
	return rule{name: "line", scan: cutAfter(lineRe)}
}

func wordRule() rule {
	return rule{name: "word", scan: cutAfter(spaceRe)}
}

// sentenceRule cuts right after a terminator run (".", "!", "?") that is
// followed by whitespace or end of text, so trailing whitespace stays with
// the next sub-span. Terminators ending a listed abbreviation are skipped.
func sentenceRule(abbreviations []string) rule {
	abbrevs := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		abbrevs[a] = struct{}{}
	}
	return rule{
		name: "sentence",
		scan: func(_ *engine, text string, _ int) ([]int, []Region) {
			var cuts []int
			for _, m := range sentenceRe.FindAllStringIndex(text, -1) {
				end := m[1]
				if end < len(text) {
					r, _ := utf8.DecodeRuneInString(text[end:])
					if !unicode.IsSpace(r) {
						continue
					}
				}
				if text[m[0]:end] == "." && isAbbreviation(text, m[0], abbrevs) {
					continue
				}
				cuts = append(cuts, end)
			}
			return cuts, nil
		},
	}
}

// isAbbreviation reports whether the period at offset dot ends a word in the
// abbreviation set, e.g. "Dr." or "e.g.".
func isAbbreviation(text string, dot int, abbrevs map[string]struct{}) bool {
	start := dot
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsSpace(r) {
			break
		}
		start -= size
	}
	_, ok := abbrevs[text[start:dot+1]]
	return ok
}

// characterRule is the universal fallback: a boundary at every rune
// boundary. Greedy coalescing turns these into budget-sized groups.
func characterRule() rule {
	return rule{
		name: "character",
		scan: func(_ *engine, text string, _ int) ([]int, []Region) {
			var cuts []int
			for i := range text {
				if i > 0 {
					cuts = append(cuts, i)
				}
			}
			return cuts, nil
		},
	}
}

// regexRule is the degenerate single-rule hierarchy for StrategyRegex: the
// caller's pattern, boundary after each match.
func regexRule(re *regexp.Regexp) rule {
	return rule{name: "regex", scan: cutAfter(re)}
}

// protectedRule surfaces the document's caller-supplied atomic regions:
// boundaries at region edges, never inside.
func protectedRule() rule {
	return rule{
		name: "protected",
		scan: func(en *engine, text string, base int) ([]int, []Region) {
			var cuts []int
			var regions []Region
			for _, r := range en.doc.Protected {
				start, end := r.Start-base, r.End-base
				if end <= 0 || start >= len(text) || start >= end {
					continue
				}
				cuts = append(cuts, start, end)
				regions = append(regions, Region{Start: start, End: end})
			}
			return cuts, regions
		},
	}
}
