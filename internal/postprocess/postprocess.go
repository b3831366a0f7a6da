// Package postprocess strips common LLM artifacts from augmentation output
// before it enters the candidate list. A training pair polluted with prompt
// leakage or reasoning text is worse than no pair at all.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes LLM artifacts and returns the trimmed result. Three passes,
// in order: reasoning blocks, prompt-echo prefixes, outer quote wrapping.
func Clean(text string) string {
	text = stripReasoning(text)
	text = stripEchoPrefix(text)
	text = stripOuterQuotes(text)
	return strings.TrimSpace(text)
}

// reasoningRe matches complete <thinking>…</thinking> style blocks. Each tag
// variant is spelled out because RE2 has no backreferences.
var reasoningRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// openReasoningRe matches a reasoning tag left unclosed when the model was
// cut off mid-thought; everything from the tag onward is dropped.
var openReasoningRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

func stripReasoning(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = openReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// echoRe matches introductory phrases models prepend even when told not to.
// Anchored to the start and requiring a colon to avoid eating legitimate
// content.
var echoRe = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? (?:translated )?(?:translation|sentence|text)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text)\s*:`),
	regexp.MustCompile(`(?i)^(?:sure|certainly|of course)[,.]? here(?:'s| is)(?: the)? (?:translation|text)\s*:`),
}

func stripEchoPrefix(text string) string {
	for _, re := range echoRe {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// stripOuterQuotes removes one matching pair of quotes wrapping the entire
// text. Supported pairs: "…" '…' «…» and the curly variants.
func stripOuterQuotes(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	pairs := map[rune]rune{
		'"':      '"',
		'\'':     '\'',
		'«':      '»',
		'“': '”',
		'‘': '’',
	}
	if closing, ok := pairs[runes[0]]; ok && runes[n-1] == closing {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
