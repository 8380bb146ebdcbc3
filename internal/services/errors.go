package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks timeouts, rate-limit rejections, and malformed
	// remote output. Retried locally; degrades to a fallback instead of
	// aborting the run.
	ErrTransient = errors.New("transient failure")

	// ErrPermission marks an explicit forbidden status on a remote
	// collection. Triggers the reconciler's fallback ladder.
	ErrPermission = errors.New("permission denied")

	// ErrConfiguration marks missing credentials or malformed local
	// configuration. Always fatal to the run.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound marks a missing remote object.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks structurally invalid data produced by a remote
	// service after all repair attempts.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether the error should abort the whole run rather than
// degrade or fall back.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsTransient reports whether the error is retryable or degradable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
