package organizer

import "tidymark/internal/domain"

// DefaultBatchSize is the number of bookmarks sent to the model per request.
const DefaultBatchSize = 10

// partition splits the flattened bookmark list into fixed-size batches,
// preserving input order. For N bookmarks and size K this yields
// ceil(N/K) batches whose concatenation is the input.
func partition(bookmarks []domain.FlatBookmark, size int) [][]domain.FlatBookmark {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]domain.FlatBookmark
	for start := 0; start < len(bookmarks); start += size {
		end := start + size
		if end > len(bookmarks) {
			end = len(bookmarks)
		}
		batches = append(batches, bookmarks[start:end])
	}
	return batches
}

// laneFor assigns batch i to lane i mod lanes (round-robin over the
// group's configs).
func laneFor(batchIndex, lanes int) int {
	return batchIndex % lanes
}
