package scan

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/cofgate/internal/execshell"
	"github.com/temirov/cofgate/internal/registry"
)

type recordingGitExecutor struct {
	standardOutput string
	recorded       []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	return execshell.ExecutionResult{StandardOutput: executor.standardOutput}, nil
}

const commandTestDiff = "+++ b/src/Service.java\n+cfg = repo.findByDomainNameAndType(\"acct\", \"savings\");\n"

func executeCommand(t *testing.T, command *cobra.Command, arguments ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	executionError := command.Execute()
	return output.String(), executionError
}

func TestScanCommandBuilds(t *testing.T) {
	builder := CommandBuilder{}
	command, err := builder.Build()
	require.NoError(t, err)
	require.Equal(t, "scan", command.Name())
	for _, flagName := range []string{"feature-branch", "master-branch", "lob", "repo-path", "registry-path", "format"} {
		require.NotNil(t, command.Flags().Lookup(flagName), flagName)
	}
	require.Equal(t, "main", command.Flags().Lookup("master-branch").DefValue)
}

func TestScanCommandRunsPipelineFromFlags(t *testing.T) {
	fixture := newScanFixture(t, nil)
	fixture.addMarkers(t, "retail", "acct", "savings", registry.Environments()...)

	gitExecutor := &recordingGitExecutor{standardOutput: commandTestDiff}
	builder := CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		GitExecutor:    gitExecutor,
	}
	command, err := builder.Build()
	require.NoError(t, err)

	output, executionError := executeCommand(t, command, "-f", "feature/acct", "-l", "retail", "-p", fixture.repositoryPath, "-r", fixture.registryPath)
	require.NoError(t, executionError)
	require.Contains(t, output, "Domain: acct/savings")
	require.Contains(t, output, "✓ All LOB config files exist!")

	require.Len(t, gitExecutor.recorded, 1)
	require.Equal(t, "main...feature/acct", gitExecutor.recorded[0].Arguments[len(gitExecutor.recorded[0].Arguments)-1])
	require.Equal(t, fixture.repositoryPath, gitExecutor.recorded[0].WorkingDirectory)
}

func TestScanCommandUsesConfigurationDefaults(t *testing.T) {
	fixture := newScanFixture(t, nil)

	gitExecutor := &recordingGitExecutor{standardOutput: commandTestDiff}
	builder := CommandBuilder{
		GitExecutor: gitExecutor,
		ConfigurationProvider: func() CommandConfiguration {
			return CommandConfiguration{
				MasterBranch:   "develop",
				LineOfBusiness: "retail",
				RepositoryPath: fixture.repositoryPath,
				RegistryPath:   fixture.registryPath,
				Format:         "yaml",
			}
		},
	}
	command, err := builder.Build()
	require.NoError(t, err)

	output, executionError := executeCommand(t, command, "--feature-branch", "feature")
	require.ErrorIs(t, executionError, ErrLOBConfigurationsMissing)
	require.Equal(t, "develop...feature", gitExecutor.recorded[0].Arguments[len(gitExecutor.recorded[0].Arguments)-1])

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
	require.Equal(t, false, decoded["lob_complete"])
	require.Equal(t, "retail", decoded["lob"])
}

func TestScanCommandFlagsOverrideConfiguration(t *testing.T) {
	fixture := newScanFixture(t, nil)
	fixture.addMarkers(t, "wholesale", "acct", "savings", registry.Environments()...)

	builder := CommandBuilder{
		GitExecutor: &recordingGitExecutor{standardOutput: commandTestDiff},
		ConfigurationProvider: func() CommandConfiguration {
			return CommandConfiguration{LineOfBusiness: "retail", RepositoryPath: fixture.repositoryPath, RegistryPath: fixture.registryPath, Format: "yaml"}
		},
	}
	command, err := builder.Build()
	require.NoError(t, err)

	output, executionError := executeCommand(t, command, "-f", "feature", "--lob", "wholesale", "--format", "text")
	require.NoError(t, executionError)
	require.Contains(t, output, "[WHOLESALE] Path:")
}

func TestScanCommandRejectsUnknownFormat(t *testing.T) {
	builder := CommandBuilder{GitExecutor: &recordingGitExecutor{}}
	command, err := builder.Build()
	require.NoError(t, err)

	_, executionError := executeCommand(t, command, "-f", "feature", "--format", "json")
	require.ErrorContains(t, executionError, "invalid value")
}

func TestScanCommandReportsMissingRepository(t *testing.T) {
	gitExecutor := &recordingGitExecutor{}
	builder := CommandBuilder{GitExecutor: gitExecutor}
	command, err := builder.Build()
	require.NoError(t, err)

	_, executionError := executeCommand(t, command, "-f", "feature", "-l", "retail", "-p", t.TempDir(), "-r", t.TempDir())
	require.ErrorContains(t, executionError, "Source repo path is not a git repository")
	require.Empty(t, gitExecutor.recorded)
}

func TestCheckCommandProbesNamedDomains(t *testing.T) {
	fixture := newScanFixture(t, nil)
	fixture.addMarkers(t, "retail", "acct", "savings", registry.Environments()...)

	builder := CheckCommandBuilder{}
	command, err := builder.Build()
	require.NoError(t, err)

	output, executionError := executeCommand(t, command, "--lob", "retail", "--registry-path", fixture.registryPath, "acct/savings")
	require.NoError(t, executionError)
	require.Contains(t, output, "Found 1 domain config(s) in diff:")
	require.Contains(t, output, "✓ All LOB config files exist!")

	_, missingArgumentsError := executeCommand(t, command)
	require.Error(t, missingArgumentsError)
}
