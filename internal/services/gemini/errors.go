package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"

	"reeldocs/internal/services"
)

// classifyError tags an API failure with a sentinel marker so callers and the
// retry loop can tell retryable failures from configuration problems.
func classifyError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := fmt.Sprintf("gemini returned %d", gerr.Code)
		switch {
		case gerr.Code == 401 || gerr.Code == 403:
			return services.Wrap(services.ErrConfiguration, "gemini", operation, msg, err)
		case gerr.Code == 429 || gerr.Code >= 500:
			return services.Wrap(services.ErrTransient, "gemini", operation, msg, err)
		default:
			return services.Wrap(services.ErrExternalService, "gemini", operation, msg, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "gemini", operation, "request deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	// DNS, socket, and other transport failures are usually transient.
	return services.Wrap(services.ErrTransient, "gemini", operation, "request failed", err)
}
