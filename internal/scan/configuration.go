package scan

import (
	"strings"

	"github.com/temirov/cofgate/internal/report"
)

const (
	defaultMasterBranchConstant      = "main"
	masterBranchConfigKeyConstant    = "master_branch"
	lineOfBusinessConfigKeyConstant  = "lob"
	repositoryPathConfigKeyConstant  = "repo_path"
	registryPathConfigKeyConstant    = "registry_path"
	formatConfigKeyConstant          = "format"
	configurationKeySeparatorLiteral = "."
)

// CommandConfiguration captures persisted defaults for the scan and check commands.
type CommandConfiguration struct {
	MasterBranch   string `mapstructure:"master_branch"`
	LineOfBusiness string `mapstructure:"lob"`
	RepositoryPath string `mapstructure:"repo_path"`
	RegistryPath   string `mapstructure:"registry_path"`
	Format         string `mapstructure:"format"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		MasterBranch: defaultMasterBranchConstant,
		Format:       string(report.FormatText),
	}
}

// DefaultConfigurationValues returns viper defaults rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		qualifyKey(prefix, masterBranchConfigKeyConstant):   defaults.MasterBranch,
		qualifyKey(prefix, lineOfBusinessConfigKeyConstant): defaults.LineOfBusiness,
		qualifyKey(prefix, repositoryPathConfigKeyConstant): defaults.RepositoryPath,
		qualifyKey(prefix, registryPathConfigKeyConstant):   defaults.RegistryPath,
		qualifyKey(prefix, formatConfigKeyConstant):         defaults.Format,
	}
}

// Sanitize trims values and restores defaults for blank master branch and format.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{
		MasterBranch:   strings.TrimSpace(configuration.MasterBranch),
		LineOfBusiness: strings.TrimSpace(configuration.LineOfBusiness),
		RepositoryPath: strings.TrimSpace(configuration.RepositoryPath),
		RegistryPath:   strings.TrimSpace(configuration.RegistryPath),
		Format:         strings.ToLower(strings.TrimSpace(configuration.Format)),
	}
	if len(sanitized.MasterBranch) == 0 {
		sanitized.MasterBranch = defaultMasterBranchConstant
	}
	if len(sanitized.Format) == 0 {
		sanitized.Format = string(report.FormatText)
	}
	return sanitized
}

func qualifyKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorLiteral + key
}
