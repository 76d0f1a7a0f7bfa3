package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/deadstore/internal/lexer"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tokens, err := lexer.New(in.source).Tokenize()
			if err != nil {
				return syntaxFailure(in.name, err)
			}

			var b strings.Builder
			for _, tok := range tokens {
				fmt.Fprintf(&b, "%d:%d\t%s", tok.Line, tok.Column, tok.Kind)
				if tok.Kind == lexer.TokNumber || tok.Kind == lexer.TokIdent {
					fmt.Fprintf(&b, "\t%s", tok.Value)
				}
				b.WriteByte('\n')
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}
