package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/chuan-101/json-splitter-public/internal/export"
)

// parseSelection parses a comma-separated list of indices and inclusive
// ranges such as "0,2,5-7" against an archive of n conversations. The
// result is sorted and free of duplicates.
func parseSelection(s string, n int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q", part)
			}
		}
		if last < first {
			return nil, fmt.Errorf("invalid range %q: end before start", part)
		}
		if first < 0 || last >= n {
			return nil, fmt.Errorf("%w: %q (archive has %d)", export.ErrIndexOutOfRange, part, n)
		}
		for i := first; i <= last; i++ {
			out = append(out, i)
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}
