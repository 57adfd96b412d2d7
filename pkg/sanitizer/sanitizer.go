// Package sanitizer normalizes free-text fields before validation so
// equality checks (duplicate serials, project grouping) are not fooled
// by stray whitespace or casing.
package sanitizer

import "strings"

type Pipeline []func(string) string

func (p Pipeline) Apply(s string) string {
	for _, step := range p {
		s = step(s)
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func upper(s string) string {
	return strings.ToUpper(s)
}

// TrimAndNormalize trims the string and collapses runs of inner
// whitespace to a single space. Casing is preserved.
func TrimAndNormalize(s string) string {
	return Pipeline{strings.TrimSpace, collapseWhitespace}.Apply(s)
}

// NormalizeName cleans display names (item names, borrowers, projects).
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeSerial uppercases serial numbers so the duplicate guard is
// case-insensitive at the storage layer too.
func NormalizeSerial(serial string) string {
	return Pipeline{strings.TrimSpace, collapseWhitespace, upper}.Apply(serial)
}

// NormalizeStringSlice maps normalizer over items, dropping entries
// that normalize to empty. Returns a new slice; input is untouched.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := normalizer(item); n != "" {
			out = append(out, n)
		}
	}
	return out
}
