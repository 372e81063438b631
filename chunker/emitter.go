package chunker

import "strings"

// Iterator yields chunks one at a time in the bufio.Scanner shape:
//
//	for it.Next() {
//		c := it.Chunk()
//	}
//	if err := it.Err(); err != nil { ... }
//
// Splitting already happened when the Iterator was built; Next only
// assembles overlap, heading context, and metadata. The iterator is not
// restartable: re-chunk the document for another pass.
type Iterator struct {
	en       *engine
	pieces   []piece
	i        int
	prev string
	cur      Chunk
	err      error
}

// Next advances to the next chunk. It returns false at the end of the
// sequence or on the first assembly error, which Err then reports.
func (it *Iterator) Next() bool {
	if it.err != nil || it.i >= len(it.pieces) {
		return false
	}
	p := it.pieces[it.i]
	chunk, raw, err := it.en.emit(p, it.i, it.prev)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = chunk
	it.prev = raw
	it.i++
	return true
}

// Chunk returns the chunk produced by the last successful Next.
func (it *Iterator) Chunk() Chunk { return it.cur }

// Err returns the first error encountered while assembling chunks.
func (it *Iterator) Err() error { return it.err }

// emit assembles the final chunk for a piece: trailing-whitespace trim,
// overlap prefix drawn from the previous chunk's original (pre-overlap,
// untrimmed) span text, optional heading-context trail, and metadata. Oversized pieces are emitted verbatim with no
// padding, since any addition would only widen the budget violation.
func (en *engine) emit(p piece, index int, prev string) (Chunk, string, error) {
	raw := en.doc.Text[p.span.start:p.span.end]
	if p.oversized {
		return Chunk{
			DocumentID: en.doc.ID,
			Index:      index,
			Text:       raw,
			Start:      p.span.start,
			End:        p.span.end,
			Size:       p.size,
			Oversized:  true,
		}, raw, nil
	}

	// Offsets keep the trailing separator run; the emitted text drops it.
	core := strings.TrimRight(raw, " \t\r\n")

	prefix := ""
	if index > 0 {
		suffix, err := en.overlapSuffix(prev, p.span)
		if err != nil {
			return Chunk{}, "", err
		}
		prefix, err = en.fitOverlap(suffix, core, p.span)
		if err != nil {
			return Chunk{}, "", err
		}
	}

	text := prefix + core
	if trail := en.contextTrail(p.span, text); trail != "" {
		text = trail + text
	}

	size, err := en.c.measure(text)
	if err != nil {
		return Chunk{}, "", &MeasureError{DocumentID: en.doc.ID, Start: p.span.start, End: p.span.end, Err: err}
	}
	return Chunk{
		DocumentID: en.doc.ID,
		Index:      index,
		Text:       text,
		Start:      p.span.start,
		End:        p.span.end,
		Size:       size,
	}, raw, nil
}

// contextTrail returns the heading-trail prefix ("H1 > H2" plus a blank
// line) for a chunk starting at sp, or "" when heading context is off, no
// heading is active, or the trail would push the chunk over budget.
func (en *engine) contextTrail(sp span, text string) string {
	if !en.c.opts.HeadingContext || len(en.headings) == 0 {
		return ""
	}
	trail := headingTrail(en.headings, sp.start)
	if trail == "" {
		return ""
	}
	trail += "\n\n"
	n, err := en.c.measure(trail + text)
	if err != nil || n > en.c.opts.MaxChunkSize {
		return ""
	}
	return trail
}
