package chunker

import (
	"unicode"
	"unicode/utf8"
)

// overlapSuffix returns the trailing suffix of the previous chunk's core
// content to prepend to the next chunk: the largest suffix measuring at most
// the configured overlap size, starting at a word or line boundary so the
// overlap never begins mid-word. Returns "" when overlap is disabled or no
// boundary-aligned suffix fits.
func (en *engine) overlapSuffix(prev string, sp span) (string, error) {
	want := en.c.opts.OverlapSize
	if want <= 0 || prev == "" {
		return "", nil
	}
	best := ""
	for _, start := range wordStarts(prev) {
		suffix := prev[start:]
		n, err := en.c.measure(suffix)
		if err != nil {
			return "", &MeasureError{DocumentID: en.doc.ID, Start: sp.start, End: sp.end, Err: err}
		}
		if n > want {
			break
		}
		best = suffix
	}
	return best, nil
}

// fitOverlap shrinks the overlap prefix until prefix+core fits the budget.
// Core content is never dropped: a core already at or over budget gets no
// overlap at all.
func (en *engine) fitOverlap(prefix, core string, sp span) (string, error) {
	budget := en.c.opts.MaxChunkSize
	for prefix != "" {
		n, err := en.c.measure(prefix + core)
		if err != nil {
			return "", &MeasureError{DocumentID: en.doc.ID, Start: sp.start, End: sp.end, Err: err}
		}
		if n <= budget {
			return prefix, nil
		}
		en.c.log.Debug("reducing overlap to fit budget", "overlap", len(prefix))
		prefix = shrinkAtWord(prefix)
	}
	return "", nil
}

// wordStarts lists the offsets where a word begins, ordered so that the
// shortest suffix comes first and callers can grow the overlap while it
// still fits.
func wordStarts(text string) []int {
	var starts []int
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			starts = append(starts, i)
			inWord = true
		}
	}
	// reverse: shortest suffix first, grown while it still fits
	for i, j := 0, len(starts)-1; i < j; i, j = i+1, j-1 {
		starts[i], starts[j] = starts[j], starts[i]
	}
	return starts
}

// shrinkAtWord drops the first word (and following whitespace) from prefix.
func shrinkAtWord(prefix string) string {
	i := 0
	for i < len(prefix) {
		r, size := utf8.DecodeRuneInString(prefix[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}
	for i < len(prefix) {
		r, size := utf8.DecodeRuneInString(prefix[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	if i >= len(prefix) {
		return ""
	}
	return prefix[i:]
}
