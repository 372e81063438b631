package chunker

import "fmt"

// ConfigError reports invalid or contradictory options. It is returned by
// New before any text is processed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "chunker: invalid configuration: " + e.Reason
}

// StrategyError reports an unknown strategy name. There is no silent default.
type StrategyError struct {
	Name string
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("chunker: unsupported strategy %q", e.Name)
}

// MeasureError reports an injected tokenizer failure on a specific span. It
// is fatal for the whole document and carries enough context to retry at a
// coarser granularity.
type MeasureError struct {
	DocumentID string
	Start      int
	End        int
	Err        error
}

func (e *MeasureError) Error() string {
	return fmt.Sprintf("chunker: measuring document %q span [%d,%d): %v",
		e.DocumentID, e.Start, e.End, e.Err)
}

func (e *MeasureError) Unwrap() error { return e.Err }
