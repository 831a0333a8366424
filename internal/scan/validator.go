package scan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/cofgate/internal/filesystem"
	pathutils "github.com/temirov/cofgate/internal/utils/path"
)

const (
	gitMetadataDirectoryNameConstant      = ".git"
	featureBranchRequiredMessageConstant  = "feature branch is required (--feature-branch)"
	lineOfBusinessRequiredMessageConstant = "line of business is required (--lob)"
	repositoryPathRequiredMessageConstant = "source repo path is required (--repo-path)"
	registryPathRequiredMessageConstant   = "registry path is required (--registry-path)"
	validationErrorTemplateConstant       = "%s: %s"
	inspectPathErrorTemplateConstant      = "unable to inspect %s: %w"

	// ProblemRepositoryMissing is reported when the source path is not a directory.
	ProblemRepositoryMissing = "Source repo path does not exist"
	// ProblemRepositoryNotGit is reported when the source path lacks a .git directory.
	ProblemRepositoryNotGit = "Source repo path is not a git repository"
	// ProblemRegistryMissing is reported when the registry path is not a directory.
	ProblemRegistryMissing = "Registry path does not exist"
)

// ErrFeatureBranchRequired indicates no feature branch was supplied.
var ErrFeatureBranchRequired = errors.New(featureBranchRequiredMessageConstant)

// ErrLineOfBusinessRequired indicates no line of business was supplied.
var ErrLineOfBusinessRequired = errors.New(lineOfBusinessRequiredMessageConstant)

// ErrRepositoryPathRequired indicates no source repository path was supplied.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRegistryPathRequired indicates no registry path was supplied.
var ErrRegistryPathRequired = errors.New(registryPathRequiredMessageConstant)

// ValidationError names a supplied path that failed validation.
type ValidationError struct {
	Problem string
	Path    string
}

// Error renders the problem followed by the offending path.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.Problem, validationError.Path)
}

// Options are the invocation parameters of a scan.
type Options struct {
	FeatureBranch  string
	MasterBranch   string
	LineOfBusiness string
	RepositoryPath string
	RegistryPath   string
}

// CheckOptions are the invocation parameters of a direct registry check.
type CheckOptions struct {
	LineOfBusiness string
	RegistryPath   string
}

// Validator normalizes invocation parameters and confirms the paths they name.
// It only reads filesystem metadata.
type Validator struct {
	fileSystem   filesystem.FileSystem
	homeExpander *pathutils.HomeExpander
}

// NewValidator constructs a Validator; nil arguments select OS-backed defaults.
func NewValidator(fileSystem filesystem.FileSystem, homeExpander *pathutils.HomeExpander) *Validator {
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	return &Validator{fileSystem: filesystem.Resolve(fileSystem), homeExpander: homeExpander}
}

// Validate returns normalized options once every required value is present,
// the repository is a git working copy, and the registry exists.
func (validator *Validator) Validate(options Options) (Options, error) {
	validated := Options{
		FeatureBranch:  strings.TrimSpace(options.FeatureBranch),
		MasterBranch:   strings.TrimSpace(options.MasterBranch),
		LineOfBusiness: strings.TrimSpace(options.LineOfBusiness),
		RepositoryPath: validator.homeExpander.Normalize(options.RepositoryPath),
		RegistryPath:   validator.homeExpander.Normalize(options.RegistryPath),
	}
	if len(validated.MasterBranch) == 0 {
		validated.MasterBranch = defaultMasterBranchConstant
	}

	switch {
	case len(validated.FeatureBranch) == 0:
		return Options{}, ErrFeatureBranchRequired
	case len(validated.LineOfBusiness) == 0:
		return Options{}, ErrLineOfBusinessRequired
	case len(validated.RepositoryPath) == 0:
		return Options{}, ErrRepositoryPathRequired
	case len(validated.RegistryPath) == 0:
		return Options{}, ErrRegistryPathRequired
	}

	if validationError := validator.requireDirectory(validated.RepositoryPath, validated.RepositoryPath, ProblemRepositoryMissing); validationError != nil {
		return Options{}, validationError
	}
	gitMetadataPath := filepath.Join(validated.RepositoryPath, gitMetadataDirectoryNameConstant)
	if validationError := validator.requireDirectory(gitMetadataPath, validated.RepositoryPath, ProblemRepositoryNotGit); validationError != nil {
		return Options{}, validationError
	}
	if validationError := validator.requireDirectory(validated.RegistryPath, validated.RegistryPath, ProblemRegistryMissing); validationError != nil {
		return Options{}, validationError
	}

	return validated, nil
}

// ValidateCheck normalizes the parameters of a direct registry check.
func (validator *Validator) ValidateCheck(options CheckOptions) (CheckOptions, error) {
	validated := CheckOptions{
		LineOfBusiness: strings.TrimSpace(options.LineOfBusiness),
		RegistryPath:   validator.homeExpander.Normalize(options.RegistryPath),
	}

	switch {
	case len(validated.LineOfBusiness) == 0:
		return CheckOptions{}, ErrLineOfBusinessRequired
	case len(validated.RegistryPath) == 0:
		return CheckOptions{}, ErrRegistryPathRequired
	}

	if validationError := validator.requireDirectory(validated.RegistryPath, validated.RegistryPath, ProblemRegistryMissing); validationError != nil {
		return CheckOptions{}, validationError
	}
	return validated, nil
}

func (validator *Validator) requireDirectory(probedPath string, reportedPath string, problem string) error {
	isDirectory, probeError := filesystem.IsDirectory(validator.fileSystem, probedPath)
	if probeError != nil {
		return fmt.Errorf(inspectPathErrorTemplateConstant, probedPath, probeError)
	}
	if !isDirectory {
		return ValidationError{Problem: problem, Path: reportedPath}
	}
	return nil
}
