package facets

import (
	"sort"
	"strings"
)

// NormalizeCode trims a feature code. Codes are matched by exact equality,
// so case is preserved.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// NormalizeCodes trims, de-duplicates and sorts a list of feature codes,
// dropping empties. The order does not matter for matching since every
// selected code is required.
func NormalizeCodes(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		c := NormalizeCode(raw)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// Toggle adds or removes code from codes and returns the normalized result.
func Toggle(codes []string, code string, on bool) []string {
	code = NormalizeCode(code)
	if code == "" {
		return NormalizeCodes(codes)
	}
	out := make([]string, 0, len(codes)+1)
	for _, c := range codes {
		if NormalizeCode(c) == code {
			continue
		}
		out = append(out, c)
	}
	if on {
		out = append(out, code)
	}
	return NormalizeCodes(out)
}
