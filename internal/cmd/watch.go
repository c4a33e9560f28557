package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/neuroscreen/internal/store"
)

// watchStatus renders the session and redraws it on every saved change
// until ctx is cancelled or the process is interrupted.
func watchStatus(ctx context.Context, a *app, args []string) error {
	inst, err := instrumentArg(args)
	if err != nil {
		return err
	}
	fs, ok := a.store.Backend().(*store.FileStore)
	if !ok {
		return fmt.Errorf("--watch requires the file store (current: %s)", a.cfg.Store)
	}

	w, err := fs.Watch(store.ProgressKey(inst), store.SubmissionKey(inst))
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := oneShot(ctx, a, args, nil); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			return fmt.Errorf("watch %s: %w", inst, err)
		case key := <-w.Changes():
			a.log.LogDebug(fmt.Sprintf("%s changed, redrawing", key))
			fmt.Fprintln(a.out)
			if err := oneShot(ctx, a, args, nil); err != nil {
				return err
			}
		}
	}
}
