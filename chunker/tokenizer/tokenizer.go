// Package tokenizer adapts tiktoken BPE encoders to the chunker's
// TokenizerFunc so chunk budgets can be expressed in model tokens.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/roivaz/textchunk/chunker"
)

const approxCharsPerToken = 4

// ForModel returns a token counter for the given model, falling back to the
// cl100k_base encoding when the model is unknown. Building the encoder may
// download encoding data on first use; the returned func itself is pure and
// deterministic.
func ForModel(model string) (chunker.TokenizerFunc, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return nil, fmt.Errorf("build token encoder for %q: %w", model, err)
	}
	return func(text string) (int, error) {
		return len(enc.Encode(text, nil, nil)), nil
	}, nil
}

// Estimator returns a tokenizer-free counter using the usual four characters
// per token approximation, for callers that cannot load encoding data.
func Estimator() chunker.TokenizerFunc {
	return func(text string) (int, error) {
		n := len(text) / approxCharsPerToken
		if n < 1 && len(text) > 0 {
			n = 1
		}
		return n, nil
	}
}
