package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tsawler/otsl"
	"github.com/tsawler/otsl/format"
)

// convertOpts holds the flags of the convert command.
type convertOpts struct {
	output    string // output file, stdout when empty
	strict    bool   // fail on missing tables and malformed spans
	framed    bool   // wrap every sequence in <otsl> ... </otsl>
	allTables bool   // convert every table, one line each
}

func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert the tables of an HTML document to OTSL",
		Long:  `Convert reads an HTML document and prints the OTSL sequence of its first table, or of every table with --all. Without a file, or with "-", the document is read from standard input.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConvertConfig(cmd, &opts)
			return c.runConvert(cmd, inputArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when no table is found or a span is malformed")
	cmd.Flags().BoolVar(&opts.framed, "framed", false, "wrap each sequence in <otsl> and </otsl>")
	cmd.Flags().BoolVar(&opts.allTables, "all", false, "convert every table in the document")

	return cmd
}

// applyConvertConfig fills flags the user did not set from the config file.
func (c *CLI) applyConvertConfig(cmd *cobra.Command, opts *convertOpts) {
	flags := cmd.Flags()
	if !flags.Changed("strict") {
		opts.strict = c.config.Strict
	}
	if !flags.Changed("framed") {
		opts.framed = c.config.Framed
	}
	if !flags.Changed("all") {
		opts.allTables = c.config.AllTables
	}
}

func (c *CLI) runConvert(cmd *cobra.Command, input string, opts convertOpts) (err error) {
	logger := loggerFromContext(cmd.Context())

	if input != stdinName && format.Detect(input).IsDataset() {
		return errors.Errorf("%s looks like a dataset; use \"%s dataset\"", input, appName)
	}

	results, err := c.convertResults(cmd, input, opts.strict, opts.framed, opts.allTables)
	if err != nil {
		return err
	}

	out, err := createOutput(cmd, opts.output)
	if err != nil {
		return err
	}
	defer closeOutput(out, &err)

	for _, r := range results {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		switch {
		case r.Index < 0:
			logger.Warn("no table found", "input", input)
		case r.IsEmpty():
			logger.Warn("table has no rows", "index", r.Index)
		default:
			logger.Debug("converted table", "index", r.Index, "rows", r.Grid.Rows(), "cols", r.Grid.Cols())
			if n := len(r.Grid.Dropped()); n > 0 {
				logger.Warn("cells dropped outside the grid", "index", r.Index, "count", n)
			}
		}
		if _, err := fmt.Fprintln(out, r.OTSL); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	return nil
}

// convertResults parses input and runs the converter with the given options.
func (c *CLI) convertResults(cmd *cobra.Command, input string, strict, framed, all bool) ([]otsl.Result, error) {
	in, err := openInput(cmd, input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	conv := otsl.FromReader(in)
	if strict {
		conv = conv.Strict()
	}
	if framed {
		conv = conv.Framed()
	}
	if all {
		conv = conv.AllTables()
	}

	results, err := conv.Results()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "convert %s", input)
	}
	return results, nil
}
