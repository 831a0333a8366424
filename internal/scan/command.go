package scan

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/cofgate/internal/execshell"
	"github.com/temirov/cofgate/internal/filesystem"
	"github.com/temirov/cofgate/internal/gitrepo"
	"github.com/temirov/cofgate/internal/report"
	flagutils "github.com/temirov/cofgate/internal/utils/flags"
)

const (
	commandUseNameConstant          = "scan"
	commandShortDescriptionConstant = "Verify registry configs for lookups added on a feature branch"
	commandLongDescriptionConstant  = "scan diffs the feature branch against the merge base with the master branch, collects every findByDomainNameAndType(\"name\", \"type\") call on added lines, and checks that uat, demo, and prod config files exist for each domain under the line-of-business and default registry trees. The command fails when any line-of-business file is missing; default-tree gaps are reported but never fail the run."
	commandExampleConstant          = "cofgate scan --feature-branch feature/savings --lob retail --repo-path ~/src/accounts --registry-path ~/src/config-registry"

	featureBranchFlagNameConstant  = "feature-branch"
	featureBranchFlagShorthand     = "f"
	featureBranchFlagUsageConstant = "Feature branch to compare (the branch with changes)."
	masterBranchFlagNameConstant   = "master-branch"
	masterBranchFlagShorthand      = "m"
	masterBranchFlagUsageConstant  = "Master branch to compare against."
	lobFlagNameConstant            = "lob"
	lobFlagShorthand               = "l"
	lobFlagUsageConstant           = "Line of business; selects the {registry}/{lob} tree."
	repoPathFlagNameConstant       = "repo-path"
	repoPathFlagShorthand          = "p"
	repoPathFlagUsageConstant      = "Path to the source repository where git diff runs."
	registryPathFlagNameConstant   = "registry-path"
	registryPathFlagShorthand      = "r"
	registryPathFlagUsageConstant  = "Path to the registry holding config files."
	formatFlagNameConstant         = "format"
	formatFlagUsageConstant        = "Report format."
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the scan command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	GitExecutor           gitrepo.GitExecutor
	FileSystem            filesystem.FileSystem
}

type scanFlagValues struct {
	featureBranch  string
	masterBranch   string
	lineOfBusiness string
	repositoryPath string
	registryPath   string
	format         string
}

// Build constructs the scan command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &scanFlagValues{}
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, flagValues)
		},
	}

	flagSet := command.Flags()
	flagSet.StringVarP(&flagValues.featureBranch, featureBranchFlagNameConstant, featureBranchFlagShorthand, "", featureBranchFlagUsageConstant)
	flagSet.StringVarP(&flagValues.masterBranch, masterBranchFlagNameConstant, masterBranchFlagShorthand, defaultMasterBranchConstant, masterBranchFlagUsageConstant)
	flagSet.StringVarP(&flagValues.lineOfBusiness, lobFlagNameConstant, lobFlagShorthand, "", lobFlagUsageConstant)
	flagSet.StringVarP(&flagValues.repositoryPath, repoPathFlagNameConstant, repoPathFlagShorthand, "", repoPathFlagUsageConstant)
	flagSet.StringVarP(&flagValues.registryPath, registryPathFlagNameConstant, registryPathFlagShorthand, "", registryPathFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &flagValues.format, formatFlagNameConstant, string(report.FormatText), report.Formats(), formatFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, flagValues *scanFlagValues) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	flagSet := command.Flags()

	options := Options{
		FeatureBranch:  flagValues.featureBranch,
		MasterBranch:   overrideString(flagSet.Changed(masterBranchFlagNameConstant), flagValues.masterBranch, configuration.MasterBranch),
		LineOfBusiness: overrideString(flagSet.Changed(lobFlagNameConstant), flagValues.lineOfBusiness, configuration.LineOfBusiness),
		RepositoryPath: overrideString(flagSet.Changed(repoPathFlagNameConstant), flagValues.repositoryPath, configuration.RepositoryPath),
		RegistryPath:   overrideString(flagSet.Changed(registryPathFlagNameConstant), flagValues.registryPath, configuration.RegistryPath),
	}
	format := overrideString(flagSet.Changed(formatFlagNameConstant), flagValues.format, configuration.Format)

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := resolveGitExecutor(builder.GitExecutor, logger)
	if executorError != nil {
		return executorError
	}
	diffReader, diffReaderError := gitrepo.NewDiffReader(gitExecutor)
	if diffReaderError != nil {
		return diffReaderError
	}
	reporter, reporterError := report.New(report.Format(format), command.OutOrStdout())
	if reporterError != nil {
		return reporterError
	}

	service, serviceError := NewService(ServiceDependencies{
		DiffReader: diffReader,
		Reporter:   reporter,
		FileSystem: builder.FileSystem,
		Logger:     logger,
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	return runError
}

func resolveConfiguration(provider func() CommandConfiguration) CommandConfiguration {
	if provider == nil {
		return DefaultCommandConfiguration()
	}
	return provider().Sanitize()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	if logger := provider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func resolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// overrideString prefers an explicitly set flag over the configured value.
func overrideString(flagChanged bool, flagValue string, configuredValue string) string {
	if flagChanged {
		return flagValue
	}
	return configuredValue
}
