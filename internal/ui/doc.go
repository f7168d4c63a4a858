// Package ui renders vlt command lifecycle events as short console messages.
//
// Structured telemetry keeps flowing through the executor's logger; this
// package only decides what a person watching the terminal should read.
package ui
