package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/cofgate/internal/execshell"
)

const (
	gitDiffSubcommandConstant                = "diff"
	gitNoColorFlagConstant                   = "--no-color"
	gitNoExternalDiffFlagConstant            = "--no-ext-diff"
	threeDotRangeTemplateConstant            = "%s...%s"
	addedLinePrefixConstant                  = "+"
	addedFileHeaderPrefixConstant            = "+++"
	lineSeparatorConstant                    = "\n"
	carriageReturnConstant                   = "\r"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableValue = "0"
	gitExecutorMissingMessageConstant        = "git executor not configured"
	repositoryPathRequiredMessageConstant    = "repository path must be provided"
	branchReferenceRequiredMessageConstant   = "base and feature branch references must be provided"
	diffFailureTemplateConstant              = "Failed to run git diff %s in %s"
	diffFailureDetailTemplateConstant        = "%s\n%s"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryPathRequired indicates the diff request did not name a working copy.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrBranchReferenceRequired indicates a diff request without both branch references.
var ErrBranchReferenceRequired = errors.New(branchReferenceRequiredMessageConstant)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DiffRequest names the working copy and the two references to compare.
type DiffRequest struct {
	RepositoryPath string
	BaseBranch     string
	FeatureBranch  string
}

// Range renders the three-dot revision range passed to git.
func (request DiffRequest) Range() string {
	return fmt.Sprintf(threeDotRangeTemplateConstant, request.BaseBranch, request.FeatureBranch)
}

// DiffError reports a git diff invocation that did not succeed. An unknown
// branch and a broken working copy surface identically.
type DiffError struct {
	Range          string
	RepositoryPath string
	StandardError  string
	Cause          error
}

// Error renders the failing range followed by git's own diagnostics.
func (diffError DiffError) Error() string {
	message := fmt.Sprintf(diffFailureTemplateConstant, diffError.Range, diffError.RepositoryPath)
	standardError := strings.TrimSpace(diffError.StandardError)
	if len(standardError) == 0 && diffError.Cause != nil {
		standardError = diffError.Cause.Error()
	}
	if len(standardError) == 0 {
		return message
	}
	return fmt.Sprintf(diffFailureDetailTemplateConstant, message, standardError)
}

// Unwrap exposes the underlying execution failure.
func (diffError DiffError) Unwrap() error {
	return diffError.Cause
}

// DiffReader extracts added lines from git diffs.
type DiffReader struct {
	executor GitExecutor
}

// NewDiffReader constructs a DiffReader backed by the provided executor.
func NewDiffReader(executor GitExecutor) (*DiffReader, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &DiffReader{executor: executor}, nil
}

// AddedLines returns, in diff order, every line the feature branch introduces
// since its merge base with the base branch.
func (reader *DiffReader) AddedLines(executionContext context.Context, request DiffRequest) ([]string, error) {
	repositoryPath := strings.TrimSpace(request.RepositoryPath)
	if len(repositoryPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}
	if len(strings.TrimSpace(request.BaseBranch)) == 0 || len(strings.TrimSpace(request.FeatureBranch)) == 0 {
		return nil, ErrBranchReferenceRequired
	}

	executionResult, executionError := reader.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitDiffSubcommandConstant, gitNoColorFlagConstant, gitNoExternalDiffFlagConstant, request.Range()},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableValue},
	})
	if executionError != nil {
		diffError := DiffError{Range: request.Range(), RepositoryPath: repositoryPath, Cause: executionError}
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			diffError.StandardError = commandFailure.Result.StandardError
		}
		return nil, diffError
	}

	return ParseAddedLines(executionResult.StandardOutput), nil
}

// ParseAddedLines keeps unified diff lines that start with "+" but are not
// "+++" file headers, and strips the leading marker.
func ParseAddedLines(diffText string) []string {
	addedLines := make([]string, 0)
	for _, diffLine := range strings.Split(diffText, lineSeparatorConstant) {
		diffLine = strings.TrimSuffix(diffLine, carriageReturnConstant)
		if !strings.HasPrefix(diffLine, addedLinePrefixConstant) || strings.HasPrefix(diffLine, addedFileHeaderPrefixConstant) {
			continue
		}
		addedLines = append(addedLines, strings.TrimPrefix(diffLine, addedLinePrefixConstant))
	}
	return addedLines
}
