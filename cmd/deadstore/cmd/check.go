package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HugoDaniel/deadstore/internal/config"
	"github.com/HugoDaniel/deadstore/pkg/api"
)

type checkFlags struct {
	format   string
	noColor  bool
	unsorted bool
	fail     bool
}

// fileReport is the per-file output of check.
type fileReport struct {
	File       string `json:"file" yaml:"file"`
	api.Result `yaml:",inline"`
}

func newCheckCmd(a *app) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report dead stores",
		Long: `Analyze each file (or stdin) and report every assignment whose value
is never read.

Exit status is 2 when a file cannot be parsed, 1 when dead stores are
found and --fail is set, and 0 otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "Output `format`: text, json or yaml")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable styled output")
	cmd.Flags().BoolVar(&flags.unsorted, "unsorted", false, "Report in discovery order instead of by line")
	cmd.Flags().BoolVar(&flags.fail, "fail", false, "Exit with status 1 when dead stores are found")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string, flags checkFlags) error {
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	opts := cfg.Merge(config.MergeOptions{
		Format:   flags.format,
		NoColor:  flags.noColor,
		Unsorted: flags.unsorted,
		Fail:     flags.fail,
	})
	if !config.ValidFormat(opts.Format) {
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	reports := make([]fileReport, 0, len(inputs))
	deadStores, failed := 0, 0
	for _, in := range inputs {
		a.logger.Debug("analyzing", "file", in.name, "bytes", len(in.source))
		result, err := api.AnalyzeWithOptions(in.source, opts.APIOptions(a.logger))
		if err != nil {
			return err
		}
		reports = append(reports, fileReport{File: in.name, Result: result})
		deadStores += len(result.DeadStores)
		if len(result.Errors) > 0 {
			failed++
		}
	}

	if err := writeReports(cmd.OutOrStdout(), reports, opts); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	switch {
	case failed > 0:
		return &exitError{code: exitSyntaxError}
	case opts.FailOnDeadStore && deadStores > 0:
		return &exitError{code: exitDeadStores}
	}
	return nil
}

func writeReports(w io.Writer, reports []fileReport, opts config.Options) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, reports, opts)
	}
}
