package jobs

import (
	"reeldocs/internal/language"
	"reeldocs/internal/services"
)

// NormalizeLanguages canonicalizes a requested language list for a job. The
// first entry stays first because it selects the primary language.
func NormalizeLanguages(languages []string) ([]string, error) {
	normalized, err := language.NormalizeAll(languages)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "jobs", "languages", err.Error(), nil)
	}
	return normalized, nil
}
