// Package messages defines Bubbletea message types for the terminal views.
package messages

import (
	"github.com/custodia-labs/fiches/internal/core/domain"
)

// RowDone is sent after each processed row.
type RowDone struct {
	Done  int
	Total int
	Name  string
	Err   error
}

// BatchDone is sent once the batch has returned.
type BatchDone struct {
	Result *domain.BatchResult
	Err    error
}
