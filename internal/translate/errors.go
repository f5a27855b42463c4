package translate

import "errors"

// ErrNoBackend indicates a Translator was constructed without a backend.
var ErrNoBackend = errors.New("translation backend is required")

// ErrRetriesExhausted indicates all attempts for a batch failed.
// The run fails as a whole: no partial output is returned and later
// batches are never attempted.
var ErrRetriesExhausted = errors.New("translation retries exhausted")

// ErrBatchMismatch indicates the backend returned a different number of
// translations than chunks submitted. Treated as a transient backend
// failure and retried like any other error.
var ErrBatchMismatch = errors.New("backend returned mismatched batch")
