// Package lookup finds configuration lookups in source text.
//
// ExtractPairs scans lines for findByDomainNameAndType calls whose two
// arguments are quoted string literals and returns the distinct
// (domain name, domain type) pairs they reference.
package lookup
