package lookup

import (
	"regexp"
	"sort"
)

const (
	// LookupFunctionName is the configuration lookup whose calls are collected.
	LookupFunctionName = "findByDomainNameAndType"

	labelSeparatorConstant = "/"
)

// Either quote character may open or close a literal; mixed quoting is accepted.
var lookupCallPattern = regexp.MustCompile(LookupFunctionName + `\s*\(\s*["']([^"']+)["']\s*,\s*["']([^"']+)["']\s*\)`)

// DomainPair identifies one configuration by domain name and domain type.
type DomainPair struct {
	Name string
	Type string
}

// Label renders the pair as "name/type".
func (pair DomainPair) Label() string {
	return pair.Name + labelSeparatorConstant + pair.Type
}

// PairSet is a set of DomainPair values keyed on both fields.
type PairSet map[DomainPair]struct{}

// Add inserts the pair, ignoring duplicates.
func (set PairSet) Add(pair DomainPair) {
	set[pair] = struct{}{}
}

// Contains reports whether the pair is present.
func (set PairSet) Contains(pair DomainPair) bool {
	_, exists := set[pair]
	return exists
}

// Len returns the number of distinct pairs.
func (set PairSet) Len() int {
	return len(set)
}

// Sorted returns the pairs ordered by label.
func (set PairSet) Sorted() []DomainPair {
	pairs := make([]DomainPair, 0, len(set))
	for pair := range set {
		pairs = append(pairs, pair)
	}
	SortPairs(pairs)
	return pairs
}

// SortPairs orders pairs by label in place.
func SortPairs(pairs []DomainPair) {
	sort.Slice(pairs, func(first int, second int) bool {
		return pairs[first].Label() < pairs[second].Label()
	})
}

// ExtractPairs collects every lookup call across all lines. Captures are taken
// verbatim: matching is case-sensitive and nothing is trimmed.
func ExtractPairs(lines []string) PairSet {
	pairs := make(PairSet)
	for _, line := range lines {
		for _, submatches := range lookupCallPattern.FindAllStringSubmatch(line, -1) {
			pairs.Add(DomainPair{Name: submatches[1], Type: submatches[2]})
		}
	}
	return pairs
}
