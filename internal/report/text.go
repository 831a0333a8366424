package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/cofgate/internal/lookup"
	"github.com/temirov/cofgate/internal/registry"
)

const (
	separatorWidthConstant          = 60
	separatorCharacterConstant      = "="
	sourceRepoTemplateConstant      = "Source Repo: %s\n"
	scanningTemplateConstant        = "Scanning git diff: %s\n"
	lobTemplateConstant             = "LOB: %s\n"
	registryPathTemplateConstant    = "Registry Path: %s\n"
	noPairsMessageTemplateConstant  = "\nNo %s calls detected in diff\n"
	foundPairsTemplateConstant      = "\nFound %d domain config(s) in diff:\n"
	foundPairLineTemplateConstant   = "  - %s\n"
	domainHeaderTemplateConstant    = "Domain: %s"
	lobSectionTemplateConstant      = "\n  [%s] Path:\n"
	defaultSectionHeaderConstant    = "\n  [DEFAULT] Path (all values present indicator):\n"
	environmentLineTemplateConstant = "    %-6s : %s\n"
	expectedPathTemplateConstant    = "             Expected: %s\n"
	defaultCompleteTemplateConstant = "✓ All default configs present for %s"
	defaultIncompleteTemplate       = "⚠ Some default configs missing for %s"
	defaultAdvisoryLineTemplate     = "\n  %s\n"
	statusPresentLiteral            = "✓ OK"
	statusMissingLiteral            = "✗ MISSING"
	lobCompleteMessageConstant      = "✓ All LOB config files exist!"
	lobIncompleteMessageConstant    = "✗ Some LOB config files are missing!"
	presentColorConstant            = "2"
	missingColorConstant            = "1"
	advisoryColorConstant           = "3"
)

// TextReporter writes the human-oriented report. Status markers are colored
// only when the output is a terminal that supports it.
type TextReporter struct {
	output        io.Writer
	headingStyle  lipgloss.Style
	presentStyle  lipgloss.Style
	missingStyle  lipgloss.Style
	advisoryStyle lipgloss.Style
}

// NewTextReporter constructs a TextReporter writing to output.
func NewTextReporter(output io.Writer) *TextReporter {
	renderer := lipgloss.NewRenderer(output)
	return &TextReporter{
		output:        output,
		headingStyle:  renderer.NewStyle().Bold(true),
		presentStyle:  renderer.NewStyle().Foreground(lipgloss.Color(presentColorConstant)),
		missingStyle:  renderer.NewStyle().Foreground(lipgloss.Color(missingColorConstant)).Bold(true),
		advisoryStyle: renderer.NewStyle().Foreground(lipgloss.Color(advisoryColorConstant)),
	}
}

// ScanStarted prints the run parameters that are set.
func (reporter *TextReporter) ScanStarted(scanContext ScanContext) error {
	var builder strings.Builder
	if len(scanContext.RepositoryPath) > 0 {
		fmt.Fprintf(&builder, sourceRepoTemplateConstant, scanContext.RepositoryPath)
	}
	if len(scanContext.Range) > 0 {
		fmt.Fprintf(&builder, scanningTemplateConstant, scanContext.Range)
	}
	fmt.Fprintf(&builder, lobTemplateConstant, scanContext.LineOfBusiness)
	fmt.Fprintf(&builder, registryPathTemplateConstant, scanContext.RegistryPath)
	return reporter.write(builder.String())
}

// NoPairs prints the nothing-to-check message.
func (reporter *TextReporter) NoPairs() error {
	return reporter.write(fmt.Sprintf(noPairsMessageTemplateConstant, lookup.LookupFunctionName))
}

// PairsDetected lists the pairs that will be checked.
func (reporter *TextReporter) PairsDetected(pairs []lookup.DomainPair) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, foundPairsTemplateConstant, len(pairs))
	for _, pair := range pairs {
		fmt.Fprintf(&builder, foundPairLineTemplateConstant, pair.Label())
	}
	return reporter.write(builder.String())
}

// Report prints one section per domain, in label order, followed by the verdict line.
func (reporter *TextReporter) Report(lineOfBusiness string, reports []registry.DomainReport) (Summary, error) {
	separator := strings.Repeat(separatorCharacterConstant, separatorWidthConstant)
	var builder strings.Builder

	for _, domainReport := range sortedReports(reports) {
		builder.WriteString("\n" + separator + "\n")
		builder.WriteString(reporter.headingStyle.Render(fmt.Sprintf(domainHeaderTemplateConstant, domainReport.Label())) + "\n")
		builder.WriteString(separator + "\n")

		fmt.Fprintf(&builder, lobSectionTemplateConstant, strings.ToUpper(lineOfBusiness))
		for _, result := range domainReport.LOB {
			fmt.Fprintf(&builder, environmentLineTemplateConstant, strings.ToUpper(string(result.Environment)), reporter.status(result.Exists))
			if !result.Exists {
				fmt.Fprintf(&builder, expectedPathTemplateConstant, result.Path)
			}
		}

		builder.WriteString(defaultSectionHeaderConstant)
		for _, result := range domainReport.Default {
			fmt.Fprintf(&builder, environmentLineTemplateConstant, strings.ToUpper(string(result.Environment)), reporter.status(result.Exists))
		}

		advisory := reporter.presentStyle.Render(fmt.Sprintf(defaultCompleteTemplateConstant, domainReport.Label()))
		if !domainReport.Default.Complete() {
			advisory = reporter.advisoryStyle.Render(fmt.Sprintf(defaultIncompleteTemplate, domainReport.Label()))
		}
		fmt.Fprintf(&builder, defaultAdvisoryLineTemplate, advisory)
	}

	summary := Summary{Pairs: len(reports), LOBComplete: Verdict(reports)}
	builder.WriteString("\n" + separator + "\n")
	if summary.LOBComplete {
		builder.WriteString(reporter.presentStyle.Render(lobCompleteMessageConstant) + "\n")
	} else {
		builder.WriteString(reporter.missingStyle.Render(lobIncompleteMessageConstant) + "\n")
	}

	return summary, reporter.write(builder.String())
}

func (reporter *TextReporter) status(exists bool) string {
	if exists {
		return reporter.presentStyle.Render(statusPresentLiteral)
	}
	return reporter.missingStyle.Render(statusMissingLiteral)
}

func (reporter *TextReporter) write(text string) error {
	_, writeError := io.WriteString(reporter.output, text)
	return writeError
}
