package domain

import "errors"

var (
	// ErrValidation marks missing or malformed required input. Never
	// retried; surfaced directly to the caller.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers ownership-scoped lookups that miss. "Doesn't
	// exist" and "not yours" are deliberately indistinguishable.
	ErrNotFound = errors.New("story not found")

	// ErrFetchFailed marks the external article source being unavailable
	// or returning malformed data. The next scheduled cycle is the retry.
	ErrFetchFailed = errors.New("article fetch failed")
)
