package chunker

import (
	"math"
	"strings"
)

// The semantic strategy measures in tokens and reuses the plain hierarchy,
// but gates coalescing on a lexical topic-shift heuristic: two adjacent
// groups merge only while the cosine similarity of their term-frequency
// vectors stays at or above the configured floor. A similarity drop forces
// a chunk boundary even when the merge would fit the budget.

// minTopicWords is the smallest group the gate judges; fragments below it
// (single words, punctuation, fallback rune groups) always merge, otherwise
// fine-grained rules could never coalesce anything.
const minTopicWords = 3

func similar(a, b string, floor float64) bool {
	va := termFreqs(a)
	vb := termFreqs(b)
	if len(va) < minTopicWords || len(vb) < minTopicWords {
		return true
	}
	return cosine(va, vb) >= floor
}

// termFreqs builds a lowercase bag-of-words vector, stripping leading and
// trailing punctuation from each word.
func termFreqs(text string) map[string]float64 {
	freqs := make(map[string]float64)
	for _, w := range strings.Fields(text) {
		w = strings.ToLower(strings.Trim(w, ".,;:!?()[]{}\"'`*#->"))
		if w == "" {
			continue
		}
		freqs[w]++
	}
	return freqs
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for w, x := range a {
		na += x * x
		if y, ok := b[w]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
