package storage

import (
	"fmt"
	"strconv"
	"strings"
)

const pageTokenPrefix = "page_"

// ParsePageToken decodes an opaque "page_<N>" continuation token into a page
// index. Decoding never fails the request: a missing prefix, a non-numeric
// suffix or a negative index all fall back to page 0.
func ParsePageToken(token string) int {
	suffix, ok := strings.CutPrefix(token, pageTokenPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NextPageToken returns the continuation token for the page after token, or
// "" when the batch did not fill the page. A full batch is a heuristic "there
// might be more" signal: when the result set ends exactly on a page boundary
// the caller receives a token for a page that will turn out empty.
func NextPageToken(token string, batchLen, pageSize int) string {
	if batchLen != pageSize {
		return ""
	}
	return fmt.Sprintf("%s%d", pageTokenPrefix, ParsePageToken(token)+1)
}

// pageBounds converts a page index and size into slice bounds over a
// collection of n elements.
func pageBounds(page, pageSize, n int) (int, int) {
	if pageSize <= 0 {
		return 0, 0
	}
	start := page * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
