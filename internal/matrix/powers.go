package matrix

import (
	"sort"
	"strconv"
	"strings"
)

// maxPowerValues bounds the column axis for sanity on messy catalogs.
const maxPowerValues = 100

// DetectPowerAxis classifies which of the catalog's variation attribute
// values look numeric and returns them deduplicated, sorted ascending by
// numeric interpretation and capped at maxPowerValues. The detection is
// catalog-wide so every product shares one column layout. An empty result
// is valid: downstream grouping then treats every parent as having no
// power axis.
func DetectPowerAxis(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	axis := make([]string, 0, len(values))
	for _, v := range values {
		if !numericLike(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		axis = append(axis, v)
	}

	sort.SliceStable(axis, func(i, j int) bool {
		return numericValue(axis[i]) < numericValue(axis[j])
	})

	if len(axis) > maxPowerValues {
		axis = axis[:maxPowerValues]
	}
	return axis
}

// numericLike accepts values that parse as a float, plus anything carrying
// a decimal point or minus sign ("+1.50", "-0.25" style optical powers
// survive even when whitespace or locale noise breaks strict parsing).
func numericLike(v string) bool {
	if v == "" {
		return false
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return true
	}
	return strings.Contains(v, ".") || strings.Contains(v, "-")
}

// numericValue is the sort key; unparseable values sort as zero.
func numericValue(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}
