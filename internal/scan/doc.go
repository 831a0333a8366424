// Package scan wires the configuration gate: it validates inputs, reads the
// lines a feature branch adds, extracts configuration lookups, probes the
// registry, and reports whether every line-of-business file is present.
//
// The scan command runs the full pipeline against a git diff; the check
// command runs the registry probe for explicitly named domains.
package scan
