package chunker

import "regexp"

// resolveStrategy maps the requested strategy onto its separator hierarchy.
// Every hierarchy starts with the protected-region rule (inert unless the
// document carries annotations) and ends with the character fallback, which
// guarantees termination. The returned plain index marks where the markdown
// prefix ends, so an over-budget fence can fall through past it.
func resolveStrategy(opts Options) ([]rule, int, error) {
	protected := protectedRule()
	plainTail := []rule{
		paragraphRule(),
		lineRule(),
		sentenceRule(opts.Abbreviations),
		wordRule(),
		characterRule(),
	}

	switch opts.Strategy {
	case StrategyCharacter:
		return []rule{protected, characterRule()}, 1, nil

	case StrategySentence:
		return []rule{protected, sentenceRule(opts.Abbreviations), wordRule(), characterRule()}, 1, nil

	case StrategyRecursive, StrategySemantic:
		if !opts.MarkdownAware {
			return append([]rule{protected}, plainTail...), 1, nil
		}
		return markdownHierarchy(protected, plainTail), 4, nil

	case StrategyMarkdown:
		return markdownHierarchy(protected, plainTail), 4, nil

	case StrategyRegex:
		if opts.RegexPattern == "" {
			return nil, 0, &ConfigError{Reason: "regex strategy requires a pattern"}
		}
		re, err := regexp.Compile(opts.RegexPattern)
		if err != nil {
			return nil, 0, &ConfigError{Reason: "regex strategy pattern: " + err.Error()}
		}
		return []rule{protected, regexRule(re), characterRule()}, 1, nil

	default:
		return nil, 0, &StrategyError{Name: string(opts.Strategy)}
	}
}

// markdownHierarchy prepends the markdown-specific levels: atomic code
// fences first, then headings and list markers as preferred chunk starts.
func markdownHierarchy(protected rule, plainTail []rule) []rule {
	rules := []rule{protected, fenceRule(), headingRule(), listRule()}
	return append(rules, plainTail...)
}
