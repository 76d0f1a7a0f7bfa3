package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

type input struct {
	name   string
	source string
}

// readInputs reads every named file, or stdin when there are none.
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		in, err := readStdin(cmd)
		if err != nil {
			return nil, err
		}
		return []input{in}, nil
	}

	inputs := make([]input, 0, len(args))
	for _, name := range args {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		inputs = append(inputs, input{name: name, source: string(data)})
	}
	return inputs, nil
}

// readInput reads an optional single file argument, or stdin.
func readInput(cmd *cobra.Command, args []string) (input, error) {
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return input{}, err
	}
	return inputs[0], nil
}

func readStdin(cmd *cobra.Command) (input, error) {
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return input{}, fmt.Errorf("no input file specified")
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return input{}, fmt.Errorf("reading stdin: %w", err)
	}
	return input{name: stdinName, source: string(data)}, nil
}
