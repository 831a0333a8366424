package scan

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/cofgate/internal/gitrepo"
	"github.com/temirov/cofgate/internal/lookup"
	"github.com/temirov/cofgate/internal/registry"
	"github.com/temirov/cofgate/internal/report"
)

type stubDiffReader struct {
	lines    []string
	err      error
	requests []gitrepo.DiffRequest
}

func (reader *stubDiffReader) AddedLines(_ context.Context, request gitrepo.DiffRequest) ([]string, error) {
	reader.requests = append(reader.requests, request)
	return reader.lines, reader.err
}

type scanFixture struct {
	repositoryPath string
	registryPath   string
	output         *bytes.Buffer
	diffReader     *stubDiffReader
	service        *Service
}

func newScanFixture(t *testing.T, addedLines []string) *scanFixture {
	t.Helper()
	fixture := &scanFixture{
		repositoryPath: createRepository(t),
		registryPath:   t.TempDir(),
		output:         &bytes.Buffer{},
		diffReader:     &stubDiffReader{lines: addedLines},
	}
	service, err := NewService(ServiceDependencies{DiffReader: fixture.diffReader, Reporter: report.NewTextReporter(fixture.output)})
	require.NoError(t, err)
	fixture.service = service
	return fixture
}

func (fixture *scanFixture) options() Options {
	return Options{FeatureBranch: "feature", LineOfBusiness: "retail", RepositoryPath: fixture.repositoryPath, RegistryPath: fixture.registryPath}
}

func (fixture *scanFixture) addMarkers(t *testing.T, scope string, name string, domainType string, environments ...registry.Environment) {
	t.Helper()
	directory := filepath.Join(fixture.registryPath, scope, name, domainType)
	require.NoError(t, os.MkdirAll(directory, 0o755))
	for _, environment := range environments {
		require.NoError(t, os.WriteFile(filepath.Join(directory, environment.FileName()), nil, 0o600))
	}
}

func TestRunWithoutLookupsSucceeds(t *testing.T) {
	fixture := newScanFixture(t, []string{"int total = 0;", "return repository.findAll();"})

	summary, runError := fixture.service.Run(context.Background(), fixture.options())
	require.NoError(t, runError)
	require.Equal(t, report.Summary{Pairs: 0, LOBComplete: true}, summary)
	require.Contains(t, fixture.output.String(), "No findByDomainNameAndType calls detected in diff")
	require.NotContains(t, fixture.output.String(), "Domain:")
}

func TestRunWithAllLOBFilesPresentSucceeds(t *testing.T) {
	fixture := newScanFixture(t, []string{`Config c = repo.findByDomainNameAndType("acct", "savings");`})
	fixture.addMarkers(t, "retail", "acct", "savings", registry.Environments()...)

	summary, runError := fixture.service.Run(context.Background(), fixture.options())
	require.NoError(t, runError)
	require.Equal(t, report.Summary{Pairs: 1, LOBComplete: true}, summary)

	text := fixture.output.String()
	require.Contains(t, text, "Scanning git diff: main...feature")
	require.Contains(t, text, "Found 1 domain config(s) in diff:\n  - acct/savings\n")
	require.Contains(t, text, "⚠ Some default configs missing for acct/savings")
	require.True(t, strings.HasSuffix(text, "✓ All LOB config files exist!\n"))

	require.Len(t, fixture.diffReader.requests, 1)
	require.Equal(t, gitrepo.DiffRequest{RepositoryPath: fixture.repositoryPath, BaseBranch: "main", FeatureBranch: "feature"}, fixture.diffReader.requests[0])
}

func TestRunWithMissingProdFails(t *testing.T) {
	fixture := newScanFixture(t, []string{`Config c = repo.findByDomainNameAndType("acct", "savings");`})
	fixture.addMarkers(t, "retail", "acct", "savings", registry.EnvironmentUAT, registry.EnvironmentDemo)
	fixture.addMarkers(t, registry.DefaultScopeName, "acct", "savings", registry.Environments()...)

	summary, runError := fixture.service.Run(context.Background(), fixture.options())
	require.ErrorIs(t, runError, ErrLOBConfigurationsMissing)
	require.False(t, summary.LOBComplete)

	expectedPath := filepath.Join(fixture.registryPath, "retail", "acct", "savings", "prod.txt")
	text := fixture.output.String()
	require.Contains(t, text, "    UAT    : ✓ OK\n    DEMO   : ✓ OK\n    PROD   : ✗ MISSING\n             Expected: "+expectedPath+"\n")
	require.Contains(t, text, "✓ All default configs present for acct/savings")
}

func TestRunDeduplicatesRepeatedLookups(t *testing.T) {
	fixture := newScanFixture(t, []string{
		`a = findByDomainNameAndType('x','y');`,
		`b = findByDomainNameAndType('x','y');`,
	})
	fixture.addMarkers(t, "retail", "x", "y", registry.Environments()...)

	summary, runError := fixture.service.Run(context.Background(), fixture.options())
	require.NoError(t, runError)
	require.Equal(t, 1, summary.Pairs)
	require.Equal(t, 1, strings.Count(fixture.output.String(), "Domain: x/y"))
	require.Contains(t, fixture.output.String(), "Found 1 domain config(s) in diff:")
}

func TestRunRejectsNonRepositoryBeforeDiff(t *testing.T) {
	fixture := newScanFixture(t, nil)
	options := fixture.options()
	options.RepositoryPath = t.TempDir()

	_, runError := fixture.service.Run(context.Background(), options)
	require.ErrorIs(t, runError, ValidationError{Problem: ProblemRepositoryNotGit, Path: options.RepositoryPath})
	require.Empty(t, fixture.diffReader.requests)
	require.Empty(t, fixture.output.String())
}

func TestRunPropagatesDiffFailure(t *testing.T) {
	fixture := newScanFixture(t, nil)
	fixture.diffReader.err = gitrepo.DiffError{Range: "main...feature", RepositoryPath: fixture.repositoryPath, StandardError: "fatal: bad revision"}

	_, runError := fixture.service.Run(context.Background(), fixture.options())
	var diffError gitrepo.DiffError
	require.True(t, errors.As(runError, &diffError))
	require.Contains(t, runError.Error(), "fatal: bad revision")
	require.NotContains(t, fixture.output.String(), "Found")
}

func TestRunHonorsMasterBranch(t *testing.T) {
	fixture := newScanFixture(t, nil)
	options := fixture.options()
	options.MasterBranch = "develop"

	_, runError := fixture.service.Run(context.Background(), options)
	require.NoError(t, runError)
	require.Equal(t, "develop...feature", fixture.diffReader.requests[0].Range())
}

func TestCheckNamedDomains(t *testing.T) {
	fixture := newScanFixture(t, nil)
	fixture.addMarkers(t, "retail", "acct", "savings", registry.Environments()...)

	pairs, parseError := ParseDomainArguments([]string{"acct/savings", "loan/mortgage"})
	require.NoError(t, parseError)

	summary, checkError := fixture.service.Check(CheckOptions{LineOfBusiness: "retail", RegistryPath: fixture.registryPath}, pairs)
	require.ErrorIs(t, checkError, ErrLOBConfigurationsMissing)
	require.Equal(t, 2, summary.Pairs)
	require.Empty(t, fixture.diffReader.requests)
	require.NotContains(t, fixture.output.String(), "Scanning git diff")
}

func TestNewServiceRequiresReporter(t *testing.T) {
	_, err := NewService(ServiceDependencies{})
	require.ErrorIs(t, err, ErrReporterNotConfigured)
}

func TestParseDomainArguments(t *testing.T) {
	pairs, err := ParseDomainArguments([]string{"acct/savings", "org/unit/branch", "acct/savings"})
	require.NoError(t, err)
	require.Equal(t, []lookup.DomainPair{{Name: "acct", Type: "savings"}, {Name: "org/unit", Type: "branch"}}, pairs.Sorted())

	for _, invalid := range []string{"acct", "/savings", "acct/"} {
		_, parseError := ParseDomainArguments([]string{invalid})
		require.Error(t, parseError, invalid)
	}
}
