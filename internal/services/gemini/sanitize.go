package gemini

import "strings"

// StripControlBytes removes ASCII control characters except newline, carriage
// return, and tab, plus DEL. The model occasionally emits stray control bytes
// that break strict JSON parsing, so every response is filtered before
// unmarshaling. Operating on raw bytes is safe for UTF-8 input: continuation
// bytes are all >= 0x80.
func StripControlBytes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n' || c == '\r' || c == '\t':
			b.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			// dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripCodeFence removes a surrounding markdown code fence if the model
// ignored the no-fences instruction.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// drop the language tag line
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
