package language

import (
	"fmt"
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize canonicalizes one language tag to its lowercase BCP 47 form.
// Unrecognized or malformed tags are rejected.
func Normalize(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", fmt.Errorf("empty language tag")
	}
	parsed, err := xlang.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("unrecognized language tag %q: %w", trimmed, err)
	}
	return strings.ToLower(parsed.String()), nil
}

// NormalizeAll canonicalizes a requested language list, dropping blanks and
// duplicates while keeping request order. The first entry stays first because
// it selects the primary language.
func NormalizeAll(tags []string) ([]string, error) {
	var normalized []string
	seen := map[string]struct{}{}
	for _, raw := range tags {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		code, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("at least one language is required")
	}
	return normalized, nil
}

// DisplayName returns an English display name for a language code, falling
// back to the code itself when it cannot be named.
func DisplayName(code string) string {
	parsed, err := xlang.Parse(strings.TrimSpace(code))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(parsed); name != "" {
		return name
	}
	return code
}
