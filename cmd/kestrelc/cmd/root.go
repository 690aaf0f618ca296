package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/kestrel/internal/ast"
	"github.com/orizon-lang/kestrel/internal/cli"
	"github.com/orizon-lang/kestrel/internal/diagnostic"
	"github.com/orizon-lang/kestrel/internal/parser"
	"github.com/orizon-lang/kestrel/internal/position"
)

const toolName = "kestrelc"

// rootOptions is shared by every subcommand; PersistentPreRunE fills the
// resolved fields.
type rootOptions struct {
	configFile string
	verbose    bool
	debug      bool
	color      string

	cfg      *cli.Config
	log      *cli.Logger
	renderer *diagnostic.Renderer
}

// NewRootCmd builds the kestrelc command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   toolName,
		Short: "Kestrel front end: parse, check and watch Kestrel sources",
		Long: `kestrelc parses Kestrel programs with a single-pass recursive
descent parser and reports the first error in each file.

Commands:
  parse    - print the syntax tree of files or stdin
  expr     - parse a standalone expression
  check    - parse many files concurrently and report errors
  watch    - re-check files whenever they change
  version  - show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: ./"+cli.DefaultConfigFile+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.debug, "debug", false, "debug output")
	flags.StringVar(&opts.color, "color", "", "color mode: auto, always or never (default from config)")

	rootCmd.AddCommand(
		newParseCmd(opts),
		newExprCmd(opts),
		newCheckCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// ExecuteContext runs kestrelc with os.Args
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// ExitCode maps an Execute error to a process exit code, printing errors
// that were not reported yet.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return cli.ExitOK
	}
	var ee *cli.ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return cli.ExitUsage
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := cli.LoadConfig(o.configFile)
	if err != nil {
		return cli.Exit(cli.ExitFailure, err)
	}
	if err := cli.CheckRequires(cfg.Requires, cli.Version); err != nil {
		return cli.Exit(cli.ExitFailure, err)
	}
	if o.color != "" {
		cfg.Output.Color = o.color
		if err := cfg.Validate(); err != nil {
			return cli.Exit(cli.ExitUsage, fmt.Errorf("--color: %w", err))
		}
	}
	o.cfg = cfg

	level, err := cli.ParseLevel(cfg.Log.Level)
	if err != nil {
		return cli.Exit(cli.ExitFailure, err)
	}
	if o.verbose && level > cli.LevelInfo {
		level = cli.LevelInfo
	}
	if o.debug {
		level = cli.LevelDebug
	}

	color := diagnostic.ColorEnabled(cfg.Output.Color, os.Stderr.Fd())
	o.log = cli.NewLogger(cmd.ErrOrStderr(), level, color)
	o.renderer = diagnostic.NewRenderer(color)

	o.log.Debug("config %q: max_depth=%d format=%s color=%s", o.configFile,
		cfg.Parser.MaxDepth, cfg.Output.Format, cfg.Output.Color)
	return nil
}

// parseSource parses one file with fresh tables and the configured limits
func (o *rootOptions) parseSource(filename, src string) (*ast.StmtList, error) {
	return parser.ParseFile(filename, src, parser.WithMaxDepth(o.cfg.Parser.MaxDepth))
}

// report renders err against src on w
func (o *rootOptions) report(w io.Writer, filename, src string, err error) {
	fmt.Fprint(w, o.renderer.RenderError(err, position.NewSourceFile(filename, src)))
}

// writeNode prints node in the requested output format
func writeNode(w io.Writer, format string, node ast.Node) error {
	switch format {
	case "tree":
		return ast.Fprint(w, node)
	case "json":
		return ast.FprintJSON(w, node)
	case "yaml":
		return ast.FprintYAML(w, node)
	case "source":
		_, err := fmt.Fprintln(w, ast.Format(node))
		return err
	}
	return cli.Exit(cli.ExitUsage, fmt.Errorf("unknown format %q, want one of tree, json, yaml, source", format))
}
