package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/cofgate/internal/lookup"
	"github.com/temirov/cofgate/internal/registry"
)

const yamlIndentConstant = 2

type yamlDocument struct {
	RepositoryPath string       `yaml:"repository,omitempty"`
	Range          string       `yaml:"range,omitempty"`
	LineOfBusiness string       `yaml:"lob"`
	RegistryPath   string       `yaml:"registry"`
	PairsFound     int          `yaml:"pairs_found"`
	Domains        []yamlDomain `yaml:"domains"`
	LOBComplete    bool         `yaml:"lob_complete"`
}

type yamlDomain struct {
	Label           string            `yaml:"domain"`
	Name            string            `yaml:"name"`
	Type            string            `yaml:"type"`
	LOB             []yamlEnvironment `yaml:"lob"`
	Default         []yamlEnvironment `yaml:"default"`
	LOBComplete     bool              `yaml:"lob_complete"`
	DefaultComplete bool              `yaml:"default_complete"`
}

type yamlEnvironment struct {
	Environment string `yaml:"environment"`
	Exists      bool   `yaml:"exists"`
	Path        string `yaml:"path"`
}

// YAMLReporter emits a single YAML document once the outcome is known.
type YAMLReporter struct {
	output   io.Writer
	document yamlDocument
}

// NewYAMLReporter constructs a YAMLReporter writing to output.
func NewYAMLReporter(output io.Writer) *YAMLReporter {
	return &YAMLReporter{output: output}
}

// ScanStarted records the run parameters.
func (reporter *YAMLReporter) ScanStarted(scanContext ScanContext) error {
	reporter.document = yamlDocument{
		RepositoryPath: scanContext.RepositoryPath,
		Range:          scanContext.Range,
		LineOfBusiness: scanContext.LineOfBusiness,
		RegistryPath:   scanContext.RegistryPath,
		Domains:        []yamlDomain{},
	}
	return nil
}

// NoPairs emits a passing document with no domains.
func (reporter *YAMLReporter) NoPairs() error {
	reporter.document.PairsFound = 0
	reporter.document.Domains = []yamlDomain{}
	reporter.document.LOBComplete = true
	return reporter.emit()
}

// PairsDetected records the number of pairs found.
func (reporter *YAMLReporter) PairsDetected(pairs []lookup.DomainPair) error {
	reporter.document.PairsFound = len(pairs)
	return nil
}

// Report emits the document with one entry per domain in label order.
func (reporter *YAMLReporter) Report(lineOfBusiness string, reports []registry.DomainReport) (Summary, error) {
	summary := Summary{Pairs: len(reports), LOBComplete: Verdict(reports)}

	reporter.document.LineOfBusiness = lineOfBusiness
	reporter.document.PairsFound = len(reports)
	reporter.document.LOBComplete = summary.LOBComplete
	reporter.document.Domains = make([]yamlDomain, 0, len(reports))
	for _, domainReport := range sortedReports(reports) {
		reporter.document.Domains = append(reporter.document.Domains, yamlDomain{
			Label:           domainReport.Label(),
			Name:            domainReport.Pair.Name,
			Type:            domainReport.Pair.Type,
			LOB:             convertEnvironmentResults(domainReport.LOB),
			Default:         convertEnvironmentResults(domainReport.Default),
			LOBComplete:     domainReport.LOB.Complete(),
			DefaultComplete: domainReport.Default.Complete(),
		})
	}

	return summary, reporter.emit()
}

func (reporter *YAMLReporter) emit() error {
	encoder := yaml.NewEncoder(reporter.output)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(reporter.document); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

func convertEnvironmentResults(results registry.EnvironmentResults) []yamlEnvironment {
	converted := make([]yamlEnvironment, 0, len(results))
	for _, result := range results {
		converted = append(converted, yamlEnvironment{
			Environment: string(result.Environment),
			Exists:      result.Exists,
			Path:        result.Path,
		})
	}
	return converted
}
