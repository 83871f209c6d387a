package services

import "errors"

var (
	// ErrFoodNotFound means the query matched nothing locally and the
	// external lookup returned zero candidates.
	ErrFoodNotFound = errors.New("food not found")

	// ErrUpstreamUnavailable means the external lookup call itself failed
	// or timed out. Distinct from ErrFoodNotFound so callers can retry
	// with backoff; the core never retries the lookup internally.
	ErrUpstreamUnavailable = errors.New("nutrition lookup unavailable")

	// ErrInvariantViolation means a snapshot's calories disagree with the
	// value derived from its macros. The offending operation aborts whole.
	ErrInvariantViolation = errors.New("calories inconsistent with macros")

	// ErrConcurrencyConflict is a unique-constraint race or a serialization
	// failure on the per-(user, day) write path. Retried once locally.
	ErrConcurrencyConflict = errors.New("concurrent write conflict")

	ErrEntryNotFound = errors.New("log entry not found")
	ErrInvalidGrams  = errors.New("grams must be positive")
	ErrInvalidDate   = errors.New("invalid date")
)
