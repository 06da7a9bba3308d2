package matching

import "errors"

var (
	// ErrDatasetUnavailable indicates the referenced voter dataset
	// could not be read. Fails the whole batch.
	ErrDatasetUnavailable = errors.New("voter dataset unavailable")

	// ErrBatchTooLarge indicates the batch exceeds the configured
	// per-request entry cap.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)
