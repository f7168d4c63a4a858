package utils

import "context"

type commandContextKey string

const dryRunContextKey = commandContextKey("dryRun")

// CommandContextAccessor reads and writes per-invocation settings carried on a
// command's context.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithDryRun records whether commands should print the vlt invocation instead of running it.
func (accessor CommandContextAccessor) WithDryRun(parentContext context.Context, dryRun bool) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, dryRunContextKey, dryRun)
}

// DryRunEnabled reports the recorded dry-run state. A context without one runs commands.
func (accessor CommandContextAccessor) DryRunEnabled(executionContext context.Context) bool {
	if executionContext == nil {
		return false
	}
	dryRun, _ := executionContext.Value(dryRunContextKey).(bool)
	return dryRun
}
