package execshell

import (
	"fmt"
	"strings"
)

const (
	gitDiffSubcommandConstant         = "diff"
	gitRevParseSubcommandConstant     = "rev-parse"
	argumentSeparatorConstant         = " "
	startedTemplateConstant           = "Running %s%s"
	succeededTemplateConstant         = "Completed %s%s"
	failedTemplateConstant            = "Failed %s%s (exit code %d)"
	executionFailedTemplateConstant   = "Could not run %s%s: %v"
	gitDiffLabelTemplateConstant      = "git diff %s"
	gitRevParseLabelTemplateConstant  = "git rev-parse %s"
	workingDirectorySuffixTemplate    = " in %s"
	missingArgumentPlaceholderLiteral = "<none>"
)

// CommandMessageFormatter renders human-oriented log messages for shell commands.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedTemplateConstant, formatter.formatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command))
}

// BuildSuccessMessage describes a command that exited cleanly.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(succeededTemplateConstant, formatter.formatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command))
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return fmt.Sprintf(failedTemplateConstant, formatter.formatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command), result.ExitCode)
}

// BuildExecutionFailureMessage describes a command that could not be started.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return fmt.Sprintf(executionFailedTemplateConstant, formatter.formatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command), failure)
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	arguments := command.Details.Arguments
	if command.Name == CommandGit && len(arguments) > 0 {
		switch arguments[0] {
		case gitDiffSubcommandConstant:
			return fmt.Sprintf(gitDiffLabelTemplateConstant, formatter.argumentAtIndex(arguments, len(arguments)-1))
		case gitRevParseSubcommandConstant:
			return fmt.Sprintf(gitRevParseLabelTemplateConstant, formatter.argumentAtIndex(arguments, len(arguments)-1))
		}
	}

	labelParts := append([]string{string(command.Name)}, arguments...)
	return strings.Join(labelParts, argumentSeparatorConstant)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return ""
	}
	return fmt.Sprintf(workingDirectorySuffixTemplate, workingDirectory)
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 1 || index >= len(arguments) {
		return missingArgumentPlaceholderLiteral
	}
	return arguments[index]
}
