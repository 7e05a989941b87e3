package domain

import (
	"errors"
)

var (
	// ErrInvalidInput signals a request that failed validation (pagination, filters, kind).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing anchor or candidate.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals an anchor outside the caller's ownership scope.
	ErrForbidden = errors.New("forbidden")
	// ErrNotIndexed signals that the anchor has no embedding for the current model.
	ErrNotIndexed = errors.New("not indexed")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a text generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
