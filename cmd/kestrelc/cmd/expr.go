package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/kestrel/internal/cli"
	"github.com/orizon-lang/kestrel/internal/lexer"
	"github.com/orizon-lang/kestrel/internal/parser"
	"github.com/orizon-lang/kestrel/internal/position"
	"github.com/orizon-lang/kestrel/internal/symbols"
)

func newExprCmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		declared []string
	)

	cmd := &cobra.Command{
		Use:   "expr <expression>",
		Short: "Parse a standalone expression",
		Long: `Parse a single expression against an empty symbol table. Use
--declare to make variables visible to the expression.`,
		Example: `  kestrelc expr '1 + 2 * 3'
  kestrelc expr --declare a --declare b 'a < b ? a : b'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = opts.cfg.Output.Format
			}

			syms := symbols.NewSymbolTable()
			for _, name := range declared {
				if _, err := syms.Create(strings.TrimSpace(name), position.Position{}); err != nil {
					return cli.Exit(cli.ExitUsage, fmt.Errorf("--declare: %w", err))
				}
			}

			const filename = "<expr>"
			p := parser.New(lexer.NewWithFilename("", filename), syms, symbols.NewFunctionTable(),
				parser.WithMaxDepth(opts.cfg.Parser.MaxDepth))
			expr, err := p.ParseExpression(args[0])
			if err != nil {
				opts.report(cmd.ErrOrStderr(), filename, args[0], err)
				return cli.Exit(cli.ExitFailure, nil)
			}
			return writeNode(cmd.OutOrStdout(), format, expr)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tree, json, yaml or source (default from config)")
	cmd.Flags().StringSliceVarP(&declared, "declare", "d", nil, "pre-declare a variable (repeatable)")
	return cmd
}
