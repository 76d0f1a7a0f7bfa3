package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/deadstore/internal/config"
	"github.com/HugoDaniel/deadstore/internal/lexer"
	"github.com/HugoDaniel/deadstore/internal/parser"
	"github.com/HugoDaniel/deadstore/internal/printer"
)

func newFmtCmd(a *app) *cobra.Command {
	var (
		minify bool
		indent int
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a program in canonical layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			opts := cfg.Merge(config.MergeOptions{Indent: indent})

			program, err := parser.ParseSource(in.source)
			if err != nil {
				return syntaxFailure(in.name, err)
			}

			out := printer.New(printer.Options{MinifyWhitespace: minify, Indent: opts.Indent}).Print(program)
			if minify {
				out += "\n"
			}
			if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&minify, "minify", false, "Print the whole program on one line")
	cmd.Flags().IntVar(&indent, "indent", 0, "Spaces per nesting `level` (default from config, or 4)")
	return cmd
}

// syntaxFailure reports a lex or parse error for the named input.
func syntaxFailure(name string, err error) error {
	var lexErr *lexer.LexError
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &lexErr) || errors.As(err, &syntaxErr) {
		return &exitError{code: exitSyntaxError, err: fmt.Errorf("%s:%w", name, err)}
	}
	return err
}
