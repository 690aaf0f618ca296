package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/kestrel/internal/cli"
	"github.com/orizon-lang/kestrel/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Re-check files whenever they change",
		Long: `Check the given files (or every file in a given directory) once,
then again after each change until interrupted.`,
		Example: `  kestrelc watch prog.ks
  kestrelc watch --debounce 500ms src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = opts.cfg.Watch.Debounce.Duration
			}
			ctx := cmd.Context()

			w, err := watch.New(ctx, debounce)
			if err != nil {
				return cli.Exit(cli.ExitFailure, err)
			}
			defer w.Close()

			for _, name := range args {
				if err := w.Add(name); err != nil {
					return cli.Exit(cli.ExitFailure, err)
				}
				if info, err := os.Stat(name); err == nil && !info.IsDir() {
					opts.watchCheck(cmd, name)
				}
			}
			opts.log.Info("watching %d paths (debounce %s)", len(args), debounce)

			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					opts.log.Debug("%s %s", ev.Op, ev.Path)
					if ev.Op&(watch.OpRemove|watch.OpRename) != 0 {
						if _, err := os.Stat(ev.Path); err != nil {
							fmt.Fprintf(cmd.OutOrStdout(), "gone %s\n", ev.Path)
							continue
						}
					}
					opts.watchCheck(cmd, ev.Path)
				case err := <-w.Errors():
					opts.log.Warn("watch: %v", err)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-checking (default from config)")
	return cmd
}

// watchCheck parses one file and prints ok or its diagnostic
func (o *rootOptions) watchCheck(cmd *cobra.Command, name string) {
	src, err := os.ReadFile(name)
	if err != nil {
		o.log.Error("failed to read source: %v", err)
		return
	}
	list, err := o.parseSource(name, string(src))
	if err != nil {
		o.report(cmd.ErrOrStderr(), name, string(src), err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok  %s (%d statements)\n", name, len(list.Stmts))
}
