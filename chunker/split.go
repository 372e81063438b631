package chunker

import "sort"

// span is a half-open [start, end) byte range into the engine's document.
type span struct {
	start int
	end   int
}

// piece is a splitter output: a span plus its measured size and, when no
// rule could cut it under budget, the oversized flag.
type piece struct {
	span      span
	size      int
	oversized bool
}

// engine is the per-call state of one chunking invocation: the document, the
// atomic regions discovered so far, and a size memo. Nothing here outlives
// the call, which keeps concurrent invocations independent.
type engine struct {
	c        *Chunker
	doc      Document
	atomic   []Region
	headings []heading
	sizes    map[span]int
}

func newEngine(c *Chunker, doc Document) *engine {
	en := &engine{c: c, doc: doc, sizes: make(map[span]int)}
	for _, r := range doc.Protected {
		if r.Start < r.End && r.Start >= 0 && r.End <= len(doc.Text) {
			en.addRegion(r)
		}
	}
	if c.opts.HeadingContext {
		en.headings = scanHeadings(doc.Text)
	}
	return en
}

// run splits the whole document. Empty input yields no pieces.
func (en *engine) run() ([]piece, error) {
	if len(en.doc.Text) == 0 {
		return nil, nil
	}
	return en.split(span{0, len(en.doc.Text)}, 0)
}

// size measures a span's text, memoized. Tokenizer failures surface as a
// *MeasureError carrying the document id and span offsets.
func (en *engine) size(sp span) (int, error) {
	if n, ok := en.sizes[sp]; ok {
		return n, nil
	}
	n, err := en.c.measure(en.doc.Text[sp.start:sp.end])
	if err != nil {
		return 0, &MeasureError{DocumentID: en.doc.ID, Start: sp.start, End: sp.end, Err: err}
	}
	en.sizes[sp] = n
	return n, nil
}

// split is the recursive core. It walks the hierarchy from ruleIdx, cuts at
// the first rule producing any boundary, greedily coalesces the sub-spans
// back up to the budget, and recurses with the next rule into any group
// still over budget. A span no rule can cut is emitted oversized, never
// truncated.
func (en *engine) split(sp span, ruleIdx int) ([]piece, error) {
	budget := en.c.opts.MaxChunkSize
	n, err := en.size(sp)
	if err != nil {
		return nil, err
	}
	if n <= budget {
		return []piece{{span: sp, size: n}}, nil
	}

	for i := ruleIdx; i < len(en.c.rules); i++ {
		cuts := en.boundaries(en.c.rules[i], sp)
		if len(cuts) == 0 {
			continue
		}
		en.c.log.Debug("splitting span", "rule", en.c.rules[i].name,
			"start", sp.start, "end", sp.end, "boundaries", len(cuts))

		groups, err := en.coalesce(partition(sp, cuts))
		if err != nil {
			return nil, err
		}
		var out []piece
		for _, g := range groups {
			gn, err := en.size(g)
			if err != nil {
				return nil, err
			}
			if gn <= budget {
				out = append(out, piece{span: g, size: gn})
				continue
			}
			if region, ok := en.regionAt(g); ok {
				sub, err := en.splitAtomic(g, gn, region)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
				continue
			}
			sub, err := en.split(g, i+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}

	// A span no rule can cut is either an atomic region or below character
	// granularity.
	if region, ok := en.regionAt(sp); ok {
		return en.splitAtomic(sp, n, region)
	}
	en.c.log.Debug("emitting oversized span", "start", sp.start, "end", sp.end, "size", n)
	return []piece{{span: sp, size: n, oversized: true}}, nil
}

// splitAtomic handles an over-budget atomic region: emitted oversized by
// default, or re-entered through the plain hierarchy when FenceFallthrough
// is set.
func (en *engine) splitAtomic(sp span, size int, region Region) ([]piece, error) {
	if en.c.opts.FenceFallthrough {
		en.removeRegion(region)
		return en.split(sp, en.c.plain)
	}
	en.c.log.Debug("emitting oversized atomic block", "start", sp.start, "end", sp.end, "size", size)
	return []piece{{span: sp, size: size, oversized: true}}, nil
}

// boundaries runs a rule over a span and returns the usable absolute cut
// offsets: sorted, deduplicated, strictly inside the span, and never inside
// an atomic region. Cuts coinciding with the span's edges were already
// claimed by a higher-priority rule and are discarded.
func (en *engine) boundaries(r rule, sp span) []int {
	text := en.doc.Text[sp.start:sp.end]
	cuts, regions := r.scan(en, text, sp.start)
	for _, reg := range regions {
		en.addRegion(Region{Start: reg.Start + sp.start, End: reg.End + sp.start})
	}
	out := cuts[:0]
	for _, c := range cuts {
		abs := c + sp.start
		if abs <= sp.start || abs >= sp.end || en.insideRegion(abs) {
			continue
		}
		out = append(out, abs)
	}
	sort.Ints(out)
	dedup := out[:0]
	for i, c := range out {
		if i == 0 || c != out[i-1] {
			dedup = append(dedup, c)
		}
	}
	return dedup
}

// coalesce greedily merges adjacent sub-spans left to right into groups that
// stay within budget. A sub-span that alone exceeds the budget becomes its
// own group for the caller to recurse into. Group sizes are measured on the
// joined text, since word and token counts are not additive across cuts.
// Semantic strategies additionally refuse merges across a topic shift.
func (en *engine) coalesce(subs []span) ([]span, error) {
	budget := en.c.opts.MaxChunkSize
	var out []span
	cur := span{-1, -1}
	for _, s := range subs {
		if cur.start < 0 {
			cur = s
			continue
		}
		merged := span{cur.start, s.end}
		n, err := en.size(merged)
		if err != nil {
			return nil, err
		}
		if n <= budget && en.mergeable(cur, s) {
			cur = merged
			continue
		}
		out = append(out, cur)
		cur = s
	}
	if cur.start >= 0 {
		out = append(out, cur)
	}
	return out, nil
}

// mergeable applies the semantic topic-shift gate; non-semantic strategies
// always merge.
func (en *engine) mergeable(cur, next span) bool {
	if !en.c.semantic {
		return true
	}
	return similar(en.doc.Text[cur.start:cur.end], en.doc.Text[next.start:next.end],
		en.c.opts.SimilarityFloor)
}

// partition cuts a span at the given absolute offsets into contiguous
// sub-spans covering it exactly.
func partition(sp span, cuts []int) []span {
	subs := make([]span, 0, len(cuts)+1)
	prev := sp.start
	for _, c := range cuts {
		subs = append(subs, span{prev, c})
		prev = c
	}
	return append(subs, span{prev, sp.end})
}

func (en *engine) addRegion(r Region) {
	for _, have := range en.atomic {
		if have == r {
			return
		}
	}
	en.atomic = append(en.atomic, r)
}

func (en *engine) removeRegion(r Region) {
	for i, have := range en.atomic {
		if have == r {
			en.atomic = append(en.atomic[:i], en.atomic[i+1:]...)
			return
		}
	}
}

// insideRegion reports whether offset falls strictly inside an atomic region.
func (en *engine) insideRegion(offset int) bool {
	for _, r := range en.atomic {
		if offset > r.Start && offset < r.End {
			return true
		}
	}
	return false
}

// regionAt returns the atomic region covering the whole span, if any.
func (en *engine) regionAt(sp span) (Region, bool) {
	for _, r := range en.atomic {
		if r.Start <= sp.start && sp.end <= r.End {
			return r, true
		}
	}
	return Region{}, false
}
