package scan

import (
	"github.com/spf13/cobra"

	"github.com/temirov/cofgate/internal/filesystem"
	"github.com/temirov/cofgate/internal/report"
	flagutils "github.com/temirov/cofgate/internal/utils/flags"
)

const (
	checkCommandUseConstant              = "check <domainName>/<domainType>..."
	checkCommandShortDescriptionConstant = "Verify registry configs for the named domains"
	checkCommandLongDescriptionConstant  = "check probes the registry for uat, demo, and prod config files of each named domain under the line-of-business and default trees, without consulting git. It fails when any line-of-business file is missing."
	checkCommandExampleConstant          = "cofgate check --lob retail --registry-path ~/src/config-registry acct/savings loan/mortgage"
)

// CheckCommandBuilder assembles the check command.
type CheckCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            filesystem.FileSystem
}

// Build constructs the check command.
func (builder *CheckCommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &scanFlagValues{}
	command := &cobra.Command{
		Use:     checkCommandUseConstant,
		Short:   checkCommandShortDescriptionConstant,
		Long:    checkCommandLongDescriptionConstant,
		Example: checkCommandExampleConstant,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, flagValues)
		},
	}

	flagSet := command.Flags()
	flagSet.StringVarP(&flagValues.lineOfBusiness, lobFlagNameConstant, lobFlagShorthand, "", lobFlagUsageConstant)
	flagSet.StringVarP(&flagValues.registryPath, registryPathFlagNameConstant, registryPathFlagShorthand, "", registryPathFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &flagValues.format, formatFlagNameConstant, string(report.FormatText), report.Formats(), formatFlagUsageConstant)

	return command, nil
}

func (builder *CheckCommandBuilder) run(command *cobra.Command, arguments []string, flagValues *scanFlagValues) error {
	pairs, parseError := ParseDomainArguments(arguments)
	if parseError != nil {
		return parseError
	}

	configuration := resolveConfiguration(builder.ConfigurationProvider)
	flagSet := command.Flags()
	options := CheckOptions{
		LineOfBusiness: overrideString(flagSet.Changed(lobFlagNameConstant), flagValues.lineOfBusiness, configuration.LineOfBusiness),
		RegistryPath:   overrideString(flagSet.Changed(registryPathFlagNameConstant), flagValues.registryPath, configuration.RegistryPath),
	}
	format := overrideString(flagSet.Changed(formatFlagNameConstant), flagValues.format, configuration.Format)

	reporter, reporterError := report.New(report.Format(format), command.OutOrStdout())
	if reporterError != nil {
		return reporterError
	}

	service, serviceError := NewService(ServiceDependencies{
		Reporter:   reporter,
		FileSystem: builder.FileSystem,
		Logger:     resolveLogger(builder.LoggerProvider),
	})
	if serviceError != nil {
		return serviceError
	}

	_, checkError := service.Check(options, pairs)
	return checkError
}
