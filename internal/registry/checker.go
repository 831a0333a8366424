package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cofgate/internal/filesystem"
	"github.com/temirov/cofgate/internal/lookup"
)

const (
	// DefaultScopeName is the shared registry tree consulted alongside the LOB tree.
	DefaultScopeName = "default"

	environmentFileExtensionConstant = ".txt"
	registryRootRequiredMessage      = "registry path must be provided"
	lineOfBusinessRequiredMessage    = "line of business must be provided"
	probeFailureTemplateConstant     = "unable to inspect %s: %w"
	logMessageDomainChecked          = "registry domain checked"
	logFieldDomainConstant           = "domain"
	logFieldLOBCompleteConstant      = "lob_complete"
	logFieldDefaultCompleteConstant  = "default_complete"
	logFieldMissingLOBConstant       = "missing_lob_environments"
	environmentCountConstant         = 3
)

// Environment names a deployment stage with its own configuration file.
type Environment string

// Supported environments, in display order.
const (
	EnvironmentUAT  Environment = "uat"
	EnvironmentDemo Environment = "demo"
	EnvironmentProd Environment = "prod"
)

var orderedEnvironments = [environmentCountConstant]Environment{EnvironmentUAT, EnvironmentDemo, EnvironmentProd}

// Environments returns the fixed environment set in display order.
func Environments() []Environment {
	return append([]Environment(nil), orderedEnvironments[:]...)
}

// FileName returns the marker file name for the environment.
func (environment Environment) FileName() string {
	return string(environment) + environmentFileExtensionConstant
}

// ErrRegistryRootRequired indicates the checker was built without a registry path.
var ErrRegistryRootRequired = errors.New(registryRootRequiredMessage)

// ErrLineOfBusinessRequired indicates the checker was built without a LOB identifier.
var ErrLineOfBusinessRequired = errors.New(lineOfBusinessRequiredMessage)

// EnvironmentCheckResult is the outcome of one probe.
type EnvironmentCheckResult struct {
	Environment Environment
	Exists      bool
	Path        string
}

// EnvironmentResults holds one result per environment, in display order.
type EnvironmentResults [environmentCountConstant]EnvironmentCheckResult

// Complete reports whether every environment file exists.
func (results EnvironmentResults) Complete() bool {
	for _, result := range results {
		if !result.Exists {
			return false
		}
	}
	return true
}

// Missing returns the results whose files are absent.
func (results EnvironmentResults) Missing() []EnvironmentCheckResult {
	missing := make([]EnvironmentCheckResult, 0, len(results))
	for _, result := range results {
		if !result.Exists {
			missing = append(missing, result)
		}
	}
	return missing
}

// DomainReport aggregates the LOB and default probes for one pair.
type DomainReport struct {
	Pair    lookup.DomainPair
	LOB     EnvironmentResults
	Default EnvironmentResults
}

// Label renders the pair as "name/type".
func (report DomainReport) Label() string {
	return report.Pair.Label()
}

// Options configure a Checker.
type Options struct {
	RegistryRoot   string
	LineOfBusiness string
	FileSystem     filesystem.FileSystem
	Logger         *zap.Logger
}

// Checker probes registry trees for environment files.
type Checker struct {
	lobBasePath     string
	defaultBasePath string
	fileSystem      filesystem.FileSystem
	logger          *zap.Logger
}

// NewChecker constructs a Checker for one registry root and line of business.
func NewChecker(options Options) (*Checker, error) {
	registryRoot := strings.TrimSpace(options.RegistryRoot)
	if len(registryRoot) == 0 {
		return nil, ErrRegistryRootRequired
	}
	lineOfBusiness := strings.TrimSpace(options.LineOfBusiness)
	if len(lineOfBusiness) == 0 {
		return nil, ErrLineOfBusinessRequired
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{
		lobBasePath:     filepath.Join(registryRoot, lineOfBusiness),
		defaultBasePath: filepath.Join(registryRoot, DefaultScopeName),
		fileSystem:      filesystem.Resolve(options.FileSystem),
		logger:          logger,
	}, nil
}

// Check probes every pair exactly once, returning reports in label order.
// Absent files are data; any other filesystem failure aborts the check.
func (checker *Checker) Check(pairs lookup.PairSet) ([]DomainReport, error) {
	sortedPairs := pairs.Sorted()
	reports := make([]DomainReport, 0, len(sortedPairs))

	for _, pair := range sortedPairs {
		lobResults, lobError := checker.probe(checker.lobBasePath, pair)
		if lobError != nil {
			return nil, lobError
		}
		defaultResults, defaultError := checker.probe(checker.defaultBasePath, pair)
		if defaultError != nil {
			return nil, defaultError
		}

		report := DomainReport{Pair: pair, LOB: lobResults, Default: defaultResults}
		checker.logger.Debug(
			logMessageDomainChecked,
			zap.String(logFieldDomainConstant, report.Label()),
			zap.Bool(logFieldLOBCompleteConstant, lobResults.Complete()),
			zap.Bool(logFieldDefaultCompleteConstant, defaultResults.Complete()),
			zap.Int(logFieldMissingLOBConstant, len(lobResults.Missing())),
		)
		reports = append(reports, report)
	}

	return reports, nil
}

// ExpectedPath returns the marker file location for a pair under a base path.
func ExpectedPath(basePath string, pair lookup.DomainPair, environment Environment) string {
	return filepath.Join(basePath, pair.Name, pair.Type, environment.FileName())
}

func (checker *Checker) probe(basePath string, pair lookup.DomainPair) (EnvironmentResults, error) {
	var results EnvironmentResults
	for index, environment := range orderedEnvironments {
		filePath := ExpectedPath(basePath, pair, environment)
		exists, probeError := filesystem.IsRegularFile(checker.fileSystem, filePath)
		if probeError != nil {
			return EnvironmentResults{}, fmt.Errorf(probeFailureTemplateConstant, filePath, probeError)
		}
		results[index] = EnvironmentCheckResult{Environment: environment, Exists: exists, Path: filePath}
	}
	return results, nil
}
