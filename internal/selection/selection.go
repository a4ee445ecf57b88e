// Package selection parses free-form numeric range text ("1-3,5,10-8") into a
// bounded, deduplicated, order-preserving list of 1-based indices.
package selection

import (
	"regexp"
	"strconv"

	"hayami/internal/models"
)

// MaxIndices caps how many files can be selected at once.
const MaxIndices = 10

var rangeRe = regexp.MustCompile(`(\d+)\s*(?:-\s*(\d+))?`)

// Errors returned by Parse. TooMany and OutOfBounds carry the user-facing
// failure mode; they are recoverable and never fatal to the caller.
var (
	ErrTooMany = &models.AppError{
		Code:    models.CodeRangeTooMany,
		Message: "can't choose more than 10 files",
	}
	ErrOutOfBounds = &models.AppError{
		Code:    models.CodeRangeOutOfBounds,
		Message: "selection is not within range",
	}
	ErrEmpty = &models.AppError{
		Code:    models.CodeRangeEmpty,
		Message: "selection is empty",
	}
)

// Parse extracts every NUMBER or NUMBER-NUMBER pair from text and expands
// them, in order of appearance, into a single index list. Descending pairs
// expand downwards ("5-3" yields 5,4,3). Duplicates are dropped after
// expansion, keeping the first occurrence. The result is rejected when it
// exceeds MaxIndices entries or when any index falls outside [1, count].
// No matches yield an empty list, not an error.
func Parse(text string, count int) ([]int, error) {
	var expanded []int
	for _, m := range rangeRe.FindAllStringSubmatch(text, -1) {
		n1, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		n2 := n1
		if m[2] != "" {
			if n2, err = strconv.Atoi(m[2]); err != nil {
				continue
			}
		}
		if n1 > n2 {
			for i := n1; i >= n2; i-- {
				expanded = append(expanded, i)
			}
		} else {
			for i := n1; i <= n2; i++ {
				expanded = append(expanded, i)
			}
		}
	}

	// dedup after expansion so "5-3,4" keeps the 5,4,3 order
	seen := make(map[int]struct{}, len(expanded))
	indices := make([]int, 0, len(expanded))
	for _, i := range expanded {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		indices = append(indices, i)
	}

	if len(indices) > MaxIndices {
		return nil, ErrTooMany
	}
	for _, i := range indices {
		if i < 1 || i > count {
			return nil, ErrOutOfBounds
		}
	}
	return indices, nil
}
