package tui

import "errors"

// ErrMissingBatchService is returned when the batch service is not provided.
var ErrMissingBatchService = errors.New("tui: batch service is required")

// ErrInterrupted is returned when the user cancels a running batch.
var ErrInterrupted = errors.New("tui: interrupted")
