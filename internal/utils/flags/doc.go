// Package flags provides pflag helpers shared by filevault commands.
package flags
