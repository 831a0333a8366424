package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cofgate/internal/filesystem"
	"github.com/temirov/cofgate/internal/gitrepo"
	"github.com/temirov/cofgate/internal/lookup"
	"github.com/temirov/cofgate/internal/registry"
	"github.com/temirov/cofgate/internal/report"
)

const (
	lobConfigurationsMissingMessageConstant = "one or more LOB config files are missing"
	diffReaderMissingMessageConstant        = "diff reader not configured"
	reporterMissingMessageConstant          = "reporter not configured"
	invalidDomainArgumentTemplateConstant   = "invalid domain %q: expected <domainName>/<domainType>"
	domainArgumentSeparatorConstant         = "/"
	reportErrorTemplateConstant             = "unable to write report: %w"
	logMessageScanStarted                   = "scanning diff for configuration lookups"
	logMessageAddedLines                    = "added lines collected"
	logMessagePairsExtracted                = "configuration lookups extracted"
	logMessageVerdict                       = "registry verdict computed"
	logFieldRepositoryConstant              = "repository"
	logFieldRangeConstant                   = "range"
	logFieldLineOfBusinessConstant          = "lob"
	logFieldRegistryConstant                = "registry"
	logFieldLineCountConstant               = "line_count"
	logFieldAddedLinesConstant              = "added_lines"
	logFieldPairCountConstant               = "pair_count"
	logFieldLOBCompleteConstant             = "lob_complete"
)

// ErrLOBConfigurationsMissing indicates at least one LOB environment file is absent.
var ErrLOBConfigurationsMissing = errors.New(lobConfigurationsMissingMessageConstant)

// ErrDiffReaderNotConfigured indicates the service was built without a diff reader.
var ErrDiffReaderNotConfigured = errors.New(diffReaderMissingMessageConstant)

// ErrReporterNotConfigured indicates the service was built without a reporter.
var ErrReporterNotConfigured = errors.New(reporterMissingMessageConstant)

// DiffReader yields the lines a feature branch adds.
type DiffReader interface {
	AddedLines(executionContext context.Context, request gitrepo.DiffRequest) ([]string, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	DiffReader DiffReader
	Reporter   report.Reporter
	Validator  *Validator
	FileSystem filesystem.FileSystem
	Logger     *zap.Logger
}

// Service runs the validate, diff, extract, check, report pipeline once per call.
type Service struct {
	diffReader DiffReader
	reporter   report.Reporter
	validator  *Validator
	fileSystem filesystem.FileSystem
	logger     *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}

	fileSystem := filesystem.Resolve(dependencies.FileSystem)
	validator := dependencies.Validator
	if validator == nil {
		validator = NewValidator(fileSystem, nil)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		diffReader: dependencies.DiffReader,
		reporter:   dependencies.Reporter,
		validator:  validator,
		fileSystem: fileSystem,
		logger:     logger,
	}, nil
}

// Run scans the diff between the master and feature branches and checks every
// referenced domain. A run with no lookups succeeds without touching the registry.
// ErrLOBConfigurationsMissing is returned after the report when any LOB file is absent.
func (service *Service) Run(executionContext context.Context, options Options) (report.Summary, error) {
	validated, validationError := service.validator.Validate(options)
	if validationError != nil {
		return report.Summary{}, validationError
	}
	if service.diffReader == nil {
		return report.Summary{}, ErrDiffReaderNotConfigured
	}

	diffRequest := gitrepo.DiffRequest{
		RepositoryPath: validated.RepositoryPath,
		BaseBranch:     validated.MasterBranch,
		FeatureBranch:  validated.FeatureBranch,
	}
	service.logger.Info(
		logMessageScanStarted,
		zap.String(logFieldRepositoryConstant, validated.RepositoryPath),
		zap.String(logFieldRangeConstant, diffRequest.Range()),
		zap.String(logFieldLineOfBusinessConstant, validated.LineOfBusiness),
		zap.String(logFieldRegistryConstant, validated.RegistryPath),
	)

	if reportError := service.reporter.ScanStarted(report.ScanContext{
		RepositoryPath: validated.RepositoryPath,
		Range:          diffRequest.Range(),
		LineOfBusiness: validated.LineOfBusiness,
		RegistryPath:   validated.RegistryPath,
	}); reportError != nil {
		return report.Summary{}, fmt.Errorf(reportErrorTemplateConstant, reportError)
	}

	addedLines, diffError := service.diffReader.AddedLines(executionContext, diffRequest)
	if diffError != nil {
		return report.Summary{}, diffError
	}
	service.logger.Debug(logMessageAddedLines, zap.Int(logFieldLineCountConstant, len(addedLines)), zap.Strings(logFieldAddedLinesConstant, addedLines))

	pairs := lookup.ExtractPairs(addedLines)
	service.logger.Info(logMessagePairsExtracted, zap.Int(logFieldPairCountConstant, pairs.Len()))

	return service.checkAndReport(validated.LineOfBusiness, validated.RegistryPath, pairs)
}

// Check probes the registry for explicitly named domains, skipping the diff.
func (service *Service) Check(options CheckOptions, pairs lookup.PairSet) (report.Summary, error) {
	validated, validationError := service.validator.ValidateCheck(options)
	if validationError != nil {
		return report.Summary{}, validationError
	}

	if reportError := service.reporter.ScanStarted(report.ScanContext{
		LineOfBusiness: validated.LineOfBusiness,
		RegistryPath:   validated.RegistryPath,
	}); reportError != nil {
		return report.Summary{}, fmt.Errorf(reportErrorTemplateConstant, reportError)
	}

	return service.checkAndReport(validated.LineOfBusiness, validated.RegistryPath, pairs)
}

func (service *Service) checkAndReport(lineOfBusiness string, registryPath string, pairs lookup.PairSet) (report.Summary, error) {
	if pairs.Len() == 0 {
		if reportError := service.reporter.NoPairs(); reportError != nil {
			return report.Summary{}, fmt.Errorf(reportErrorTemplateConstant, reportError)
		}
		return report.Summary{LOBComplete: true}, nil
	}

	if reportError := service.reporter.PairsDetected(pairs.Sorted()); reportError != nil {
		return report.Summary{}, fmt.Errorf(reportErrorTemplateConstant, reportError)
	}

	checker, checkerError := registry.NewChecker(registry.Options{
		RegistryRoot:   registryPath,
		LineOfBusiness: lineOfBusiness,
		FileSystem:     service.fileSystem,
		Logger:         service.logger,
	})
	if checkerError != nil {
		return report.Summary{}, checkerError
	}

	domainReports, checkError := checker.Check(pairs)
	if checkError != nil {
		return report.Summary{}, checkError
	}

	summary, reportError := service.reporter.Report(lineOfBusiness, domainReports)
	if reportError != nil {
		return report.Summary{}, fmt.Errorf(reportErrorTemplateConstant, reportError)
	}

	service.logger.Info(logMessageVerdict, zap.Int(logFieldPairCountConstant, summary.Pairs), zap.Bool(logFieldLOBCompleteConstant, summary.LOBComplete))
	if !summary.LOBComplete {
		return summary, ErrLOBConfigurationsMissing
	}
	return summary, nil
}

// ParseDomainArguments converts "name/type" arguments into a pair set.
// The split happens at the last separator so names may contain slashes.
func ParseDomainArguments(arguments []string) (lookup.PairSet, error) {
	pairs := make(lookup.PairSet)
	for _, argument := range arguments {
		separatorIndex := strings.LastIndex(argument, domainArgumentSeparatorConstant)
		if separatorIndex <= 0 || separatorIndex == len(argument)-1 {
			return nil, fmt.Errorf(invalidDomainArgumentTemplateConstant, argument)
		}
		pairs.Add(lookup.DomainPair{Name: argument[:separatorIndex], Type: argument[separatorIndex+1:]})
	}
	return pairs, nil
}
