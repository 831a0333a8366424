// Package report renders registry check results and computes the overall verdict.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/temirov/cofgate/internal/lookup"
	"github.com/temirov/cofgate/internal/registry"
)

const unsupportedFormatTemplateConstant = "unsupported report format: %s"

// Format selects a report renderer.
type Format string

// Supported report formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats, default first.
func Formats() []string {
	return []string{string(FormatText), string(FormatYAML)}
}

// ScanContext describes the inputs of a run for the report preamble.
// RepositoryPath and Range are empty when no diff was scanned.
type ScanContext struct {
	RepositoryPath string
	Range          string
	LineOfBusiness string
	RegistryPath   string
}

// Summary is the aggregate outcome of a report.
type Summary struct {
	Pairs       int
	LOBComplete bool
}

// Reporter receives pipeline milestones in order: ScanStarted, then either
// NoPairs or PairsDetected followed by Report.
type Reporter interface {
	ScanStarted(scanContext ScanContext) error
	NoPairs() error
	PairsDetected(pairs []lookup.DomainPair) error
	Report(lineOfBusiness string, reports []registry.DomainReport) (Summary, error)
}

// New builds the reporter for a format writing to output.
func New(format Format, output io.Writer) (Reporter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(string(format)))) {
	case FormatText, "":
		return NewTextReporter(output), nil
	case FormatYAML:
		return NewYAMLReporter(output), nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

// Verdict reports whether every LOB environment file exists for every domain.
// Default-tree results never influence it.
func Verdict(reports []registry.DomainReport) bool {
	for _, domainReport := range reports {
		if !domainReport.LOB.Complete() {
			return false
		}
	}
	return true
}

func sortedReports(reports []registry.DomainReport) []registry.DomainReport {
	sorted := append([]registry.DomainReport(nil), reports...)
	sort.SliceStable(sorted, func(first int, second int) bool {
		return sorted[first].Label() < sorted[second].Label()
	})
	return sorted
}
