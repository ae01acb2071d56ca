// Package errors provides centralized error definitions for the application.
//
// Naming conventions:
//   - Exported errors (Err*): for errors that callers check with errors.Is
//   - All sentinel errors are variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Analyzer errors.
var (
	// ErrUnparseableReply indicates the analyzer reply had no usable numeric score.
	ErrUnparseableReply = errors.New("analyzer reply has no parseable score")

	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")
)

// Content source errors.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the source rejected the call for rate reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedThread indicates a fetched thread is missing required fields.
	ErrMalformedThread = errors.New("malformed thread data")
)

// Delivery errors.
var (
	// ErrEmptyBatch indicates a digest send was requested with no records.
	ErrEmptyBatch = errors.New("empty digest batch")
)

// Storage errors.
var (
	// ErrUnknownTier indicates a record carries an unrecognized priority tier.
	ErrUnknownTier = errors.New("unknown priority tier")
)
