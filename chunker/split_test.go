package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func mustNew(t *testing.T, opts Options) *Chunker {
	t.Helper()
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func chunkTexts(chunks []Chunk) []string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	return texts
}

// checkCoverage verifies that pre-overlap offset ranges tile the document
// exactly: no gaps, no overlaps.
func checkCoverage(t *testing.T, doc Document, chunks []Chunk) {
	t.Helper()
	if len(doc.Text) == 0 {
		if len(chunks) != 0 {
			t.Fatalf("expected no chunks for empty document, got %d", len(chunks))
		}
		return
	}
	prev := 0
	for i, c := range chunks {
		if c.Start != prev {
			t.Fatalf("chunk %d starts at %d, want %d", i, c.Start, prev)
		}
		if c.End <= c.Start {
			t.Fatalf("chunk %d has empty or inverted range [%d,%d)", i, c.Start, c.End)
		}
		if c.Index != i {
			t.Fatalf("chunk %d carries sequence index %d", i, c.Index)
		}
		prev = c.End
	}
	if prev != len(doc.Text) {
		t.Fatalf("chunks end at %d, want %d", prev, len(doc.Text))
	}
}

func TestRecursiveWorkedExample(t *testing.T) {
	doc := Document{ID: "d1", Text: "Para one sentence A. Sentence B.\n\nPara two."}
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 20})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	want := []string{"Para one sentence A.", " Sentence B.", "Para two."}
	if !reflect.DeepEqual(chunkTexts(chunks), want) {
		t.Fatalf("unexpected chunks %q, want %q", chunkTexts(chunks), want)
	}
	wantRanges := [][2]int{{0, 20}, {20, 34}, {34, 43}}
	for i, c := range chunks {
		if c.Start != wantRanges[i][0] || c.End != wantRanges[i][1] {
			t.Fatalf("chunk %d range [%d,%d), want [%d,%d)", i, c.Start, c.End, wantRanges[i][0], wantRanges[i][1])
		}
		if c.Oversized {
			t.Fatalf("chunk %d unexpectedly oversized", i)
		}
	}
	checkCoverage(t, doc, chunks)
}

func TestBudgetCompliance(t *testing.T) {
	doc := Document{ID: "d1", Text: strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)}
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 64})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Oversized {
			t.Fatalf("chunk %d unexpectedly oversized", i)
		}
		if ch.Size > 64 {
			t.Fatalf("chunk %d size %d exceeds budget", i, ch.Size)
		}
	}
	checkCoverage(t, doc, chunks)
}

func TestTerminationWithoutSeparators(t *testing.T) {
	doc := Document{ID: "d1", Text: strings.Repeat("x", 100)}
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 10})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	if len(chunks) != 10 {
		t.Fatalf("expected 10 chunks from character fallback, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Size != 10 {
			t.Fatalf("chunk %d size %d, want 10", i, ch.Size)
		}
	}
	checkCoverage(t, doc, chunks)
}

func TestDeterminism(t *testing.T) {
	doc := Document{ID: "d1", Text: strings.Repeat("Sentence one here. Sentence two there.\n\n", 20)}
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 50, OverlapSize: 10})

	first, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("chunking is not deterministic")
	}
}

func TestAbbreviationsDoNotSplit(t *testing.T) {
	doc := Document{ID: "d1", Text: "Dr. Smith arrived. He left."}
	c := mustNew(t, Options{Strategy: StrategySentence, MaxChunkSize: 20})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	want := []string{"Dr. Smith arrived.", " He left."}
	if !reflect.DeepEqual(chunkTexts(chunks), want) {
		t.Fatalf("unexpected chunks %q, want %q", chunkTexts(chunks), want)
	}
}

func TestWordUnit(t *testing.T) {
	doc := Document{ID: "d1", Text: "alpha beta gamma delta epsilon"}
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 2, Unit: UnitWord})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	want := []string{"alpha beta", "gamma delta", "epsilon"}
	if !reflect.DeepEqual(chunkTexts(chunks), want) {
		t.Fatalf("unexpected chunks %q, want %q", chunkTexts(chunks), want)
	}
	checkCoverage(t, doc, chunks)
}

func TestProtectedRegionStaysAtomic(t *testing.T) {
	doc := Document{
		ID:        "d1",
		Text:      "aaaa bbbb cccc dddd",
		Protected: []Region{{Start: 5, End: 14}},
	}
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 8})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunkTexts(chunks))
	}
	mid := chunks[1]
	if !mid.Oversized {
		t.Fatalf("protected chunk not flagged oversized")
	}
	if mid.Text != "bbbb cccc" {
		t.Fatalf("protected chunk text %q, want %q", mid.Text, "bbbb cccc")
	}
	checkCoverage(t, doc, chunks)
}

func TestEmptyDocument(t *testing.T) {
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 10})
	chunks, err := c.ChunkDocument(Document{ID: "d1"})
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestConcurrentDocuments(t *testing.T) {
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 40, OverlapSize: 8})

	docs := make([]Document, 8)
	baseline := make([][]Chunk, len(docs))
	for i := range docs {
		docs[i] = Document{
			ID:   "doc-" + strings.Repeat("x", i+1),
			Text: strings.Repeat("Sentence one here. Sentence two there.\n\n", i+3),
		}
		chunks, err := c.ChunkDocument(docs[i])
		if err != nil {
			t.Fatalf("baseline %d: %v", i, err)
		}
		baseline[i] = chunks
	}

	results := make([][]Chunk, len(docs))
	errs := make([]error, len(docs))
	done := make(chan int)
	for i := range docs {
		go func(i int) {
			results[i], errs[i] = c.ChunkDocument(docs[i])
			done <- i
		}(i)
	}
	for range docs {
		<-done
	}
	for i := range docs {
		if errs[i] != nil {
			t.Fatalf("concurrent %d: %v", i, errs[i])
		}
		if !reflect.DeepEqual(results[i], baseline[i]) {
			t.Fatalf("concurrent result %d differs from baseline", i)
		}
	}
}
