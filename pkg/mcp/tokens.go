package mcp

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// charsPerToken is the approximate number of characters per token for English
// text. Used for threshold estimation only.
const charsPerToken = 4

// DefaultMaxResultTokens bounds tool output kept in the transcript when the
// provider config does not set max_tool_result_tokens.
const DefaultMaxResultTokens = 8000

// EstimateTokens returns an approximate token count using the ~4 chars/token
// heuristic. len() counts bytes, so multi-byte content overestimates — the
// safe direction for a truncation threshold.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// TruncateResult bounds tool output before it enters the conversation. Cuts at
// the last newline before the limit so indented JSON, YAML, and log output
// keep whole lines, and never splits a multi-byte UTF-8 character.
func TruncateResult(content string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxResultTokens
	}
	maxChars := maxTokens * charsPerToken
	if len(content) <= maxChars {
		return content
	}

	cut := maxChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	truncated := content[:cut]
	if idx := strings.LastIndex(truncated, "\n"); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + fmt.Sprintf(
		"\n\n[TRUNCATED: output exceeded limit — original size: %s, limit: %s]",
		formatSize(len(content)), formatSize(maxChars),
	)
}

func formatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	return fmt.Sprintf("%dKB", bytes/1024)
}
