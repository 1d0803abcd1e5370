package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return "(anonymous)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root prints the banner and runs the REPL on the app reader.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintf(a.out, "Welcome to budgetctl, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader)
}
