// Package tui renders the terminal output of the interview shell.
//
// It has three pieces:
//   - Header draws the banner shown when the shell starts
//   - Panel and ErrorLine format crew results and menu errors
//   - Wait animates a spinner while a crew run is in flight
//
// Wait only makes sense on a terminal; callers check IsTerminal first and
// fall back to a plain progress line otherwise.
//
// Usage:
//
//	err := tui.Wait(ctx, os.Stdout, "Analyzing interviews...", func(ctx context.Context) error {
//	    result, err = crew.Kickoff(ctx, tasks)
//	    return err
//	})
package tui
