// Package cli constructs the filevault command-line interface. It wires the
// Cobra command hierarchy, the viper configuration loader, and zap logging
// around the vault client, exposing one command per vlt subcommand.
package cli
