package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/cofgate/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/operator"

func TestHomeExpanderNormalize(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "blank", input: "   ", expected: ""},
		{name: "home_only", input: "~", expected: testHomeDirectoryConstant},
		{name: "home_relative", input: " ~/registry/configs\t", expected: filepath.Join(testHomeDirectoryConstant, "registry", "configs")},
		{name: "other_user", input: "~someone/registry", expected: "~someone/registry"},
		{name: "absolute_uncleaned", input: "/srv/registry/../registry/", expected: "/srv/registry"},
		{name: "relative", input: "./source", expected: "source"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Normalize(testCase.input))
		})
	}
}

func TestHomeExpanderLeavesPathWhenHomeUnavailable(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/registry", expander.Expand("~/registry"))
}
