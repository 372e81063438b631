package chunker

import (
	"github.com/go-logr/logr"

	"github.com/roivaz/textchunk/internal/logging"
)

// Unit selects how span sizes are measured.
type Unit string

const (
	UnitChar  Unit = "char"
	UnitWord  Unit = "word"
	UnitToken Unit = "token"
)

// TokenizerFunc counts tokens in text. Implementations must be deterministic
// and pure: the same text always yields the same count.
type TokenizerFunc func(text string) (int, error)

// Strategy names a splitting method. The set is closed; unknown names are
// rejected by New.
type Strategy string

const (
	StrategyCharacter Strategy = "character"
	StrategySentence  Strategy = "sentence"
	StrategyRecursive Strategy = "recursive"
	StrategyRegex     Strategy = "regex"
	StrategyMarkdown  Strategy = "markdown"
	StrategySemantic  Strategy = "semantic"
)

// Region is a half-open [Start, End) byte range into a document's text.
type Region struct {
	Start int
	End   int
}

// Document is the immutable input to a chunking call. The engine only reads
// it; ownership stays with the caller.
type Document struct {
	ID   string
	Text string

	// Protected lists pre-parsed atomic blocks supplied by the upstream
	// parser (tables, formulas, links). They are never cut internally and
	// are emitted oversized when they alone exceed the budget.
	Protected []Region
}

// Chunk is the final output unit. Start and End are pre-overlap offsets into
// the source text: concatenating all chunks' offset ranges in sequence order
// reconstructs the document exactly, even though Text may include overlap or
// heading-context padding.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"sequence_index"`
	Text       string `json:"text"`
	Start      int    `json:"source_start_offset"`
	End        int    `json:"source_end_offset"`
	Size       int    `json:"measured_size"`
	Oversized  bool   `json:"oversized"`
}

// Options configures a Chunker. Strategy and MaxChunkSize are required;
// everything else has a usable default.
type Options struct {
	Strategy     Strategy
	MaxChunkSize int
	OverlapSize  int

	// Unit defaults to UnitChar. UnitToken requires Tokenizer.
	Unit      Unit
	Tokenizer TokenizerFunc

	// MarkdownAware upgrades StrategyRecursive to the markdown hierarchy.
	// Implied by StrategyMarkdown.
	MarkdownAware bool

	// RegexPattern supplies the single boundary rule for StrategyRegex.
	RegexPattern string

	// Abbreviations are exempted from sentence-boundary detection. Nil
	// selects the built-in list ("Mr.", "Dr.", "etc.", ...).
	Abbreviations []string

	// HeadingContext prefixes each chunk with the active markdown heading
	// trail ("H1 > H2"). The prefix is additive to the text only, never to
	// offsets, and is dropped when it would push the chunk over budget.
	HeadingContext bool

	// FenceFallthrough lets an over-budget fenced code block re-enter the
	// plain hierarchy instead of being emitted oversized.
	FenceFallthrough bool

	// SimilarityFloor is the topic-shift threshold for StrategySemantic:
	// adjacent groups merge only while their lexical cosine similarity
	// stays at or above it. Zero selects the default of 0.12.
	SimilarityFloor float64

	Logger logr.Logger
}

const defaultSimilarityFloor = 0.12

// Chunker is a configured engine. It holds no per-document state and is safe
// for concurrent use on distinct documents.
type Chunker struct {
	opts     Options
	measure  measureFunc
	rules    []rule
	plain    int // index of the first non-markdown rule
	semantic bool
	log      logging.Logger
}

// New validates opts and resolves the strategy into a separator hierarchy
// and unit measurer. It fails before any text is processed: *ConfigError for
// invalid options, *StrategyError for an unknown strategy.
func New(opts Options) (*Chunker, error) {
	if opts.MaxChunkSize <= 0 {
		return nil, &ConfigError{Reason: "max chunk size must be positive"}
	}
	if opts.OverlapSize < 0 || opts.OverlapSize >= opts.MaxChunkSize {
		return nil, &ConfigError{Reason: "overlap size must satisfy 0 <= overlap < max chunk size"}
	}
	if opts.Unit == "" {
		opts.Unit = UnitChar
	}
	if opts.Strategy == StrategySemantic {
		opts.Unit = UnitToken
	}
	switch opts.Unit {
	case UnitChar, UnitWord, UnitToken:
	default:
		return nil, &ConfigError{Reason: "unknown unit " + string(opts.Unit)}
	}
	if opts.Unit == UnitToken && opts.Tokenizer == nil {
		return nil, &ConfigError{Reason: "token unit requires a tokenizer"}
	}
	if opts.Abbreviations == nil {
		opts.Abbreviations = defaultAbbreviations
	}
	if opts.SimilarityFloor == 0 {
		opts.SimilarityFloor = defaultSimilarityFloor
	}

	measure, err := newMeasurer(opts.Unit, opts.Tokenizer)
	if err != nil {
		return nil, err
	}
	rules, plain, err := resolveStrategy(opts)
	if err != nil {
		return nil, err
	}

	return &Chunker{
		opts:     opts,
		measure:  measure,
		rules:    rules,
		plain:    plain,
		semantic: opts.Strategy == StrategySemantic,
		log:      logging.New(opts.Logger).WithName("chunker"),
	}, nil
}

// ChunkDocument splits doc eagerly and returns the full ordered chunk list.
// A *MeasureError aborts the whole document.
func (c *Chunker) ChunkDocument(doc Document) ([]Chunk, error) {
	it, err := c.Iter(doc)
	if err != nil {
		return nil, err
	}
	var chunks []Chunk
	for it.Next() {
		chunks = append(chunks, it.Chunk())
	}
	return chunks, it.Err()
}

// Iter splits doc and returns a pull iterator over its chunks. Splitting
// happens up front; overlap assembly and metadata attachment happen lazily
// per Next call. The iterator is single-use: restarting means calling Iter
// again, the engine keeps no state between calls.
func (c *Chunker) Iter(doc Document) (*Iterator, error) {
	en := newEngine(c, doc)
	pieces, err := en.run()
	if err != nil {
		return nil, err
	}
	return &Iterator{en: en, pieces: pieces}, nil
}
