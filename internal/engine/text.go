package engine

import "stock-sentiment/internal/types"

// SelectText picks the best available text for classification: the
// full body when it is at least as long as the title, else the short
// description, else the title. The second return is false when the
// item carries no usable text at all; callers skip such items and
// record a data-quality event rather than an error.
func SelectText(item types.ContentItem) (string, bool) {
	if item.Body != "" && len(item.Body) >= len(item.Title) {
		return item.Body, true
	}
	if item.Description != "" {
		return item.Description, true
	}
	if item.Title != "" {
		return item.Title, true
	}
	return "", false
}
