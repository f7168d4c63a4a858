// Package vault translates FileVault option sets into vlt command lines and runs them.
//
// Options carries the recognized vlt options, MergeOptions layers call-time
// overrides over configured defaults, BuildCommandLine renders the ordered
// argument list from an explicit rule table, and Client exposes one method per
// vlt subcommand on top of execshell. CommandBuilder wires the same surface
// into Cobra commands.
package vault
