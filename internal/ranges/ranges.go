// Package ranges formats integer id sets as compact range strings for
// diagnostic output, e.g. [1 2 3 5 7 8 9] -> "1-3,5,7-9".
package ranges

import (
	"sort"
	"strconv"
	"strings"
)

// Format renders ids as a comma-separated list of ranges. Input is
// deduplicated and sorted first, so callers may pass ids in any order.
func Format(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}

	seen := make(map[int64]struct{}, len(ids))
	sorted := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var b strings.Builder
	start, end := sorted[0], sorted[0]

	flush := func() {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(start, 10))
		if end != start {
			b.WriteByte('-')
			b.WriteString(strconv.FormatInt(end, 10))
		}
	}

	for _, id := range sorted[1:] {
		if id == end+1 {
			end = id
			continue
		}
		flush()
		start, end = id, id
	}
	flush()

	return b.String()
}
