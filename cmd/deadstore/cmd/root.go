// Package cmd implements the deadstore command tree.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/HugoDaniel/deadstore/internal/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// Exit statuses.
const (
	exitOK          = 0
	exitDeadStores  = 1
	exitSyntaxError = 2
)

// exitError carries a process status out of a command. A nil err means
// the problem was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// app holds the state shared by all subcommands.
type app struct {
	verbose    bool
	configFile string
	noConfig   bool
	logger     *log.Logger
}

// Execute runs the command tree on os.Args and returns the exit status.
func Execute() int {
	root := newRootCmd()
	return exitCode(root, root.Execute())
}

func exitCode(root *cobra.Command, err error) int {
	if err == nil {
		return exitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", exit.err)
		}
		return exit.code
	}
	fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
	return exitDeadStores
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "deadstore",
		Short: "Report assignments whose value is never read",
		Long: `deadstore analyzes programs written in a small imperative language
(single-letter variables, numbers, + - * / < >, if/else/end, while/end)
and reports every assignment whose value can never be read.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Use specific config `file`")
	root.PersistentFlags().BoolVar(&a.noConfig, "no-config", false, "Ignore config files")

	root.AddCommand(
		newCheckCmd(a),
		newFmtCmd(a),
		newTokensCmd(),
		newVersionCmd(),
	)
	return root
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{Prefix: "deadstore", Level: level})
}

// loadConfig resolves the config file for the given inputs. The search
// starts next to the first input file, or in the working directory.
func (a *app) loadConfig(args []string) (*config.Config, error) {
	if a.noConfig {
		return nil, nil
	}

	if a.configFile != "" {
		cfg, err := config.LoadFile(a.configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", a.configFile, err)
		}
		a.logger.Debug("using config", "path", a.configFile)
		return cfg, nil
	}

	startDir, _ := os.Getwd()
	if len(args) > 0 {
		startDir = filepath.Dir(args[0])
	}
	cfg, path, err := config.Load(startDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if path != "" {
		a.logger.Debug("using config", "path", path)
	}
	return cfg, nil
}
