package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/kestrel/internal/ast"
	"github.com/orizon-lang/kestrel/internal/cli"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Print the syntax tree of Kestrel sources",
		Long: `Parse each file (or stdin when no file is given) and print its
syntax tree. Formats: tree, json, yaml, source.`,
		Example: `  kestrelc parse prog.ks
  kestrelc parse --format json prog.ks
  echo 'declare x; x = 1;' | kestrelc parse --format source`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = opts.cfg.Output.Format
			}
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return cli.Exit(cli.ExitFailure, fmt.Errorf("failed to read stdin: %w", err))
				}
				return opts.parseAndPrint(cmd, "<stdin>", string(src), format)
			}
			for _, name := range args {
				src, err := os.ReadFile(name)
				if err != nil {
					return cli.Exit(cli.ExitFailure, fmt.Errorf("failed to read source: %w", err))
				}
				if err := opts.parseAndPrint(cmd, name, string(src), format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tree, json, yaml or source (default from config)")
	return cmd
}

func (o *rootOptions) parseAndPrint(cmd *cobra.Command, filename, src, format string) error {
	o.log.Info("parsing %s", filename)
	list, err := o.parseSource(filename, src)
	if err != nil {
		o.report(cmd.ErrOrStderr(), filename, src, err)
		return cli.Exit(cli.ExitFailure, nil)
	}
	o.log.Debug("%s: %d statements, %d nodes", filename, len(list.Stmts), ast.CountNodes(list))
	return writeNode(cmd.OutOrStdout(), format, list)
}
