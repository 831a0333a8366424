// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and maps non-zero exit
// codes to CommandFailedError. OSCommandRunner is the os/exec backed runner
// used outside of tests to call git.
package execshell
