// Package cli constructs the cofgate command-line interface, wiring the
// Cobra command hierarchy, the Viper configuration loader, and the zap
// logger shared by the scan and check commands.
package cli
