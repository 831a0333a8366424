package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/temirov/cofgate/internal/lookup"
	"github.com/temirov/cofgate/internal/registry"
	"github.com/temirov/cofgate/internal/report"
)

const testRegistryRootConstant = "/srv/registry"

func buildDomainReport(pair lookup.DomainPair, lobPresence [3]bool, defaultPresence [3]bool) registry.DomainReport {
	domainReport := registry.DomainReport{Pair: pair}
	for index, environment := range registry.Environments() {
		domainReport.LOB[index] = registry.EnvironmentCheckResult{
			Environment: environment,
			Exists:      lobPresence[index],
			Path:        registry.ExpectedPath(testRegistryRootConstant+"/retail", pair, environment),
		}
		domainReport.Default[index] = registry.EnvironmentCheckResult{
			Environment: environment,
			Exists:      defaultPresence[index],
			Path:        registry.ExpectedPath(testRegistryRootConstant+"/default", pair, environment),
		}
	}
	return domainReport
}

var allPresent = [3]bool{true, true, true}

func TestTextReporterAllPresent(t *testing.T) {
	output := &bytes.Buffer{}
	reporter := report.NewTextReporter(output)

	summary, err := reporter.Report("retail", []registry.DomainReport{
		buildDomainReport(lookup.DomainPair{Name: "acct", Type: "savings"}, allPresent, allPresent),
	})
	require.NoError(t, err)
	require.Equal(t, report.Summary{Pairs: 1, LOBComplete: true}, summary)

	expected := "\n" + strings.Repeat("=", 60) + "\n" +
		"Domain: acct/savings\n" +
		strings.Repeat("=", 60) + "\n" +
		"\n  [RETAIL] Path:\n" +
		"    UAT    : ✓ OK\n" +
		"    DEMO   : ✓ OK\n" +
		"    PROD   : ✓ OK\n" +
		"\n  [DEFAULT] Path (all values present indicator):\n" +
		"    UAT    : ✓ OK\n" +
		"    DEMO   : ✓ OK\n" +
		"    PROD   : ✓ OK\n" +
		"\n  ✓ All default configs present for acct/savings\n" +
		"\n" + strings.Repeat("=", 60) + "\n" +
		"✓ All LOB config files exist!\n"
	require.Equal(t, expected, output.String())
}

func TestTextReporterMissingProdIdentifiesPath(t *testing.T) {
	output := &bytes.Buffer{}
	reporter := report.NewTextReporter(output)

	summary, err := reporter.Report("retail", []registry.DomainReport{
		buildDomainReport(lookup.DomainPair{Name: "acct", Type: "savings"}, [3]bool{true, true, false}, [3]bool{true, false, true}),
	})
	require.NoError(t, err)
	require.False(t, summary.LOBComplete)

	text := output.String()
	require.Contains(t, text, "    UAT    : ✓ OK\n    DEMO   : ✓ OK\n    PROD   : ✗ MISSING\n             Expected: /srv/registry/retail/acct/savings/prod.txt\n")
	require.Contains(t, text, "⚠ Some default configs missing for acct/savings")
	require.NotContains(t, text, "Expected: /srv/registry/default")
	require.True(t, strings.HasSuffix(text, "✗ Some LOB config files are missing!\n"))
}

func TestTextReporterPreambleAndPairs(t *testing.T) {
	output := &bytes.Buffer{}
	reporter := report.NewTextReporter(output)

	require.NoError(t, reporter.ScanStarted(report.ScanContext{RepositoryPath: "/src/app", Range: "main...feature", LineOfBusiness: "retail", RegistryPath: testRegistryRootConstant}))
	require.NoError(t, reporter.PairsDetected([]lookup.DomainPair{{Name: "a", Type: "b"}, {Name: "c", Type: "d"}}))
	require.NoError(t, reporter.NoPairs())

	require.Equal(t,
		"Source Repo: /src/app\nScanning git diff: main...feature\nLOB: retail\nRegistry Path: /srv/registry\n"+
			"\nFound 2 domain config(s) in diff:\n  - a/b\n  - c/d\n"+
			"\nNo findByDomainNameAndType calls detected in diff\n",
		output.String())
}

func TestTextReporterOrdersDomainsByLabel(t *testing.T) {
	output := &bytes.Buffer{}
	reporter := report.NewTextReporter(output)

	_, err := reporter.Report("retail", []registry.DomainReport{
		buildDomainReport(lookup.DomainPair{Name: "zeta", Type: "a"}, allPresent, allPresent),
		buildDomainReport(lookup.DomainPair{Name: "alpha", Type: "b"}, allPresent, allPresent),
	})
	require.NoError(t, err)
	require.Less(t, strings.Index(output.String(), "Domain: alpha/b"), strings.Index(output.String(), "Domain: zeta/a"))
}

func TestYAMLReporterEmitsDocument(t *testing.T) {
	output := &bytes.Buffer{}
	reporter, err := report.New(report.FormatYAML, output)
	require.NoError(t, err)

	require.NoError(t, reporter.ScanStarted(report.ScanContext{Range: "main...feature", LineOfBusiness: "retail", RegistryPath: testRegistryRootConstant}))
	require.NoError(t, reporter.PairsDetected([]lookup.DomainPair{{Name: "acct", Type: "savings"}}))
	summary, reportError := reporter.Report("retail", []registry.DomainReport{
		buildDomainReport(lookup.DomainPair{Name: "acct", Type: "savings"}, [3]bool{true, false, true}, allPresent),
	})
	require.NoError(t, reportError)
	require.False(t, summary.LOBComplete)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(output.Bytes(), &decoded))
	require.Equal(t, "main...feature", decoded["range"])
	require.Equal(t, false, decoded["lob_complete"])
	require.Equal(t, 1, decoded["pairs_found"])
	require.NotContains(t, decoded, "repository")

	domains := decoded["domains"].([]any)
	require.Len(t, domains, 1)
	domain := domains[0].(map[string]any)
	require.Equal(t, "acct/savings", domain["domain"])
	require.Equal(t, true, domain["default_complete"])
	demo := domain["lob"].([]any)[1].(map[string]any)
	require.Equal(t, "demo", demo["environment"])
	require.Equal(t, false, demo["exists"])
	require.Equal(t, "/srv/registry/retail/acct/savings/demo.txt", demo["path"])
}

func TestYAMLReporterNoPairsPasses(t *testing.T) {
	output := &bytes.Buffer{}
	reporter := report.NewYAMLReporter(output)
	require.NoError(t, reporter.ScanStarted(report.ScanContext{LineOfBusiness: "retail", RegistryPath: testRegistryRootConstant}))
	require.NoError(t, reporter.NoPairs())

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(output.Bytes(), &decoded))
	require.Equal(t, true, decoded["lob_complete"])
	require.Equal(t, 0, decoded["pairs_found"])
	require.Empty(t, decoded["domains"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := report.New(report.Format("json"), &bytes.Buffer{})
	require.ErrorContains(t, err, "unsupported report format")

	reporter, defaultError := report.New("", &bytes.Buffer{})
	require.NoError(t, defaultError)
	require.IsType(t, &report.TextReporter{}, reporter)
}

func TestProperty_DefaultTreeNeverChangesVerdict(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 8).Draw(rt, "count")
		reports := make([]registry.DomainReport, 0, count)
		expected := true
		for index := 0; index < count; index++ {
			var lobPresence, defaultPresence [3]bool
			for environmentIndex := range lobPresence {
				lobPresence[environmentIndex] = rapid.Bool().Draw(rt, "lob")
				defaultPresence[environmentIndex] = rapid.Bool().Draw(rt, "default")
				expected = expected && lobPresence[environmentIndex]
			}
			pair := lookup.DomainPair{Name: rapid.StringMatching(`[a-z]{1,6}`).Draw(rt, "name"), Type: "t"}
			reports = append(reports, buildDomainReport(pair, lobPresence, defaultPresence))
		}

		require.Equal(rt, expected, report.Verdict(reports))

		flipped := make([]registry.DomainReport, len(reports))
		for index, domainReport := range reports {
			for environmentIndex := range domainReport.Default {
				domainReport.Default[environmentIndex].Exists = !domainReport.Default[environmentIndex].Exists
			}
			flipped[index] = domainReport
		}
		require.Equal(rt, report.Verdict(reports), report.Verdict(flipped))
	})
}
