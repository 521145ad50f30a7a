package main

import (
	"fmt"

	"reeldocs/internal/language"
)

func formatProgress(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return fmt.Sprintf("%d%%", int(fraction*100+0.5))
}

func truncate(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func describeLanguages(codes []string) []string {
	described := make([]string, len(codes))
	for i, code := range codes {
		name := language.DisplayName(code)
		if name == code {
			described[i] = code
		} else {
			described[i] = fmt.Sprintf("%s (%s)", code, name)
		}
	}
	return described
}
