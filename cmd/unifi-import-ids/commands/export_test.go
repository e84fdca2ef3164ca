package commands

import (
	"context"
	"io"
)

// SetArgs sets the arguments for the command.
func (a *App) SetArgs(args []string) {
	a.cmd.SetArgs(args)
}

// SetContext sets the context the command runs with.
func (a *App) SetContext(ctx context.Context) {
	a.cmd.SetContext(ctx)
}

// WaitReady waits for the watch command to watch its directory.
func (a *App) WaitReady() {
	<-a.ready
}

// WithOutputs sets the writers of the console and of the printed reports.
func WithOutputs(stdout, stderr io.Writer) Options {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}
