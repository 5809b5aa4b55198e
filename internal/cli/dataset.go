package cli

import (
	"bufio"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tsawler/otsl/dataset"
)

// datasetOpts holds the flags of the dataset command.
type datasetOpts struct {
	output     string
	split      string
	limit      int
	skipErrors bool
	strict     bool
	framed     bool
	maxRecord  int
}

func (c *CLI) datasetCommand() *cobra.Command {
	var opts datasetOpts

	cmd := &cobra.Command{
		Use:   "dataset <file|->",
		Short: "Convert annotation records (JSONL or JSON array) to OTSL",
		Long: `Dataset reads table annotation records, one JSON object per line or a JSON array,
and writes one JSONL result per record with its id, OTSL sequence and grid size.
Gzip and zstd compressed input is detected and decoded.

The "html" field of a record may be an HTML string or a tokenized
{"structure": {"tokens": [...]}, "cells": [...]} annotation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyDatasetConfig(cmd, &opts)
			return c.runDataset(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output JSONL file (default stdout)")
	cmd.Flags().StringVar(&opts.split, "split", "", "only convert records of this split (e.g. train, val)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "stop after this many results (0 = no limit)")
	cmd.Flags().BoolVar(&opts.skipErrors, "skip-errors", false, "record per-record failures instead of stopping")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat missing tables and malformed spans as errors")
	cmd.Flags().BoolVar(&opts.framed, "framed", false, "wrap each sequence in <otsl> and </otsl>")
	cmd.Flags().IntVar(&opts.maxRecord, "max-record-bytes", dataset.DefaultMaxRecordBytes, "longest JSONL record accepted")

	return cmd
}

// applyDatasetConfig fills flags the user did not set from the config file.
func (c *CLI) applyDatasetConfig(cmd *cobra.Command, opts *datasetOpts) {
	flags := cmd.Flags()
	if !flags.Changed("split") {
		opts.split = c.config.Dataset.Split
	}
	if !flags.Changed("limit") {
		opts.limit = c.config.Dataset.Limit
	}
	if !flags.Changed("skip-errors") {
		opts.skipErrors = c.config.Dataset.SkipErrors
	}
	if !flags.Changed("strict") {
		opts.strict = c.config.Strict
	}
	if !flags.Changed("framed") {
		opts.framed = c.config.Framed
	}
}

func (c *CLI) runDataset(cmd *cobra.Command, input string, opts datasetOpts) (err error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if opts.limit < 0 {
		return errors.New("--limit must be >= 0")
	}
	if opts.maxRecord <= 0 {
		return errors.New("--max-record-bytes must be > 0")
	}

	raw, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer raw.Close()

	in, compression, err := dataset.Decompress(raw)
	if err != nil {
		return errors.Wrapf(err, "open %s", input)
	}
	defer in.Close()
	if compression != dataset.Uncompressed {
		logger.Debug("reading compressed input", "compression", compression)
	}

	out, err := createOutput(cmd, opts.output)
	if err != nil {
		return err
	}
	defer closeOutput(out, &err)

	w := bufio.NewWriter(out)

	p := dataset.NewProcessor(dataset.Options{
		Split:      opts.split,
		Limit:      opts.limit,
		SkipErrors: opts.skipErrors,
		Strict:     opts.strict,
		Framed:     opts.framed,

		MaxRecordBytes: opts.maxRecord,
	})
	p.OnResult = func(r dataset.Result) {
		switch {
		case r.Error != "":
			logger.Warn("record failed", "record", r.Record, "id", r.ID, "err", r.Error)
		case r.Dropped > 0:
			logger.Warn("cells dropped outside the grid", "record", r.Record, "id", r.ID, "count", r.Dropped)
		default:
			logger.Debug("converted record", "record", r.Record, "id", r.ID, "rows", r.Rows, "cols", r.Cols)
		}
	}

	prog := newProgress(logger)
	stats, runErr := p.Run(ctx, in, w)
	if err := w.Flush(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "writing output")
	}
	if runErr != nil {
		return runErr
	}

	prog.done(fmt.Sprintf("Converted %d records", stats.Written))

	status := cmd.ErrOrStderr()
	printSuccess(status, "%d written, %d skipped, %d empty", stats.Written, stats.Skipped, stats.Empty)
	if stats.Failed > 0 {
		printWarning(status, "%d records failed", stats.Failed)
	}
	if stats.Dropped > 0 {
		printWarning(status, "%d cells dropped outside their grid", stats.Dropped)
	}
	return nil
}
