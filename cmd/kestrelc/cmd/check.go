package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/kestrel/internal/cli"
	"github.com/orizon-lang/kestrel/internal/diagnostic"
	"github.com/orizon-lang/kestrel/internal/position"
)

// checkResult is the outcome for one file
type checkResult struct {
	name       string
	statements int
	failed     bool
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check files...",
		Short: "Parse files concurrently and report errors",
		Long: `Parse every file with its own lexer and tables, several at a
time, and report the first error of each file. Exits 1 if any file fails.`,
		Example: `  kestrelc check src/*.ks
  kestrelc check --jobs 2 a.ks b.ks`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				jobs = runtime.NumCPU()
			}
			engine := diagnostic.NewDiagnosticEngine(opts.renderer)
			results := make([]checkResult, len(args))

			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, name := range args {
				i, name := i, name
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					results[i] = opts.checkFile(name, engine)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return cli.Exit(cli.ExitFailure, err)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				if !r.failed {
					fmt.Fprintf(out, "ok  %s (%d statements)\n", r.name, r.statements)
				}
			}
			if engine.HasErrors() {
				fmt.Fprint(cmd.ErrOrStderr(), engine.FormatDiagnostics())
				return cli.Exit(cli.ExitFailure, nil)
			}
			opts.log.Info("checked %d files", len(args))
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files parsed at once (default: number of CPUs)")
	return cmd
}

// checkFile parses name and records any failure in engine
func (o *rootOptions) checkFile(name string, engine *diagnostic.DiagnosticEngine) checkResult {
	src, err := os.ReadFile(name)
	if err != nil {
		diag := diagnostic.FromError(fmt.Errorf("failed to read source: %w", err))
		diag.Pos.Filename = name
		engine.AddDiagnostic(diag, nil)
		return checkResult{name: name, failed: true}
	}
	o.log.Debug("checking %s", name)
	list, err := o.parseSource(name, string(src))
	if err != nil {
		engine.AddDiagnostic(diagnostic.FromError(err), position.NewSourceFile(name, string(src)))
		return checkResult{name: name, failed: true}
	}
	return checkResult{name: name, statements: len(list.Stmts)}
}
