// Package chunker splits documents into bounded-size, semantically coherent
// chunks for embedding and retrieval. Splitting is recursive over an ordered
// separator hierarchy (paragraph, line, sentence, word, with markdown-aware
// variants), size is measured in a caller-chosen unit (characters, words, or
// tokens via an injected tokenizer), and adjacent chunks can share overlap
// context. Every chunk carries its source offsets so consumers can map back
// to the original document.
//
// The engine is stateless per invocation: a Chunker built once may be used
// concurrently for distinct documents.
package chunker
