package chunker

import (
	"errors"
	"reflect"
	"testing"
)

func TestUnknownStrategy(t *testing.T) {
	_, err := New(Options{Strategy: "clustering", MaxChunkSize: 10})
	var sErr *StrategyError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StrategyError, got %v", err)
	}
	if sErr.Name != "clustering" {
		t.Fatalf("unexpected strategy name %q", sErr.Name)
	}
}

func TestRegexStrategy(t *testing.T) {
	doc := Document{ID: "d1", Text: "part1\n---\npart2\n---\npart3"}
	c := mustNew(t, Options{Strategy: StrategyRegex, MaxChunkSize: 12, RegexPattern: `---\n`})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	want := []string{"part1\n---", "part2\n---", "part3"}
	if !reflect.DeepEqual(chunkTexts(chunks), want) {
		t.Fatalf("unexpected chunks %q, want %q", chunkTexts(chunks), want)
	}
	checkCoverage(t, doc, chunks)
}

func TestRegexStrategyRequiresPattern(t *testing.T) {
	_, err := New(Options{Strategy: StrategyRegex, MaxChunkSize: 10})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for missing pattern, got %v", err)
	}

	_, err = New(Options{Strategy: StrategyRegex, MaxChunkSize: 10, RegexPattern: "(["})
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for invalid pattern, got %v", err)
	}
}

func TestTokenUnitRequiresTokenizer(t *testing.T) {
	_, err := New(Options{Strategy: StrategyRecursive, MaxChunkSize: 10, Unit: UnitToken})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for missing tokenizer, got %v", err)
	}

	_, err = New(Options{Strategy: StrategySemantic, MaxChunkSize: 10})
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for semantic strategy without tokenizer, got %v", err)
	}
}

func TestUnknownUnit(t *testing.T) {
	_, err := New(Options{Strategy: StrategyRecursive, MaxChunkSize: 10, Unit: "bytes"})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for unknown unit, got %v", err)
	}
}

func TestCharacterStrategy(t *testing.T) {
	doc := Document{ID: "d1", Text: "abcdefghij"}
	c := mustNew(t, Options{Strategy: StrategyCharacter, MaxChunkSize: 4})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(chunkTexts(chunks), want) {
		t.Fatalf("unexpected chunks %q, want %q", chunkTexts(chunks), want)
	}
	checkCoverage(t, doc, chunks)
}

func TestMarkdownAwareUpgradesRecursive(t *testing.T) {
	doc := fenceDoc()
	c := mustNew(t, Options{Strategy: StrategyRecursive, MaxChunkSize: 100, MarkdownAware: true})

	chunks, err := c.ChunkDocument(doc)
	if err != nil {
		t.Fatalf("ChunkDocument: %v", err)
	}
	if len(chunks) != 1 || !chunks[0].Oversized {
		t.Fatalf("markdown-aware recursive did not keep the fence atomic: %d chunks", len(chunks))
	}
}
