package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsawler/otsl/token"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Show the logical grid of a table",
		Long:  `Inspect prints the dimensions, token counts and logical grid of the first table in an HTML document, or of every table with --all.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("all") {
				all = c.config.AllTables
			}
			return c.runInspect(cmd, inputArg(args), all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "inspect every table in the document")
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, all bool) error {
	results, err := c.convertResults(cmd, input, false, false, all)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.Index < 0 {
			printWarning(w, "no table found")
			continue
		}

		title := fmt.Sprintf("Table %d", r.Index)
		if r.Table.Caption != "" {
			title += ": " + r.Table.Caption
		}
		fmt.Fprintln(w, StyleTitle.Render(title))

		printKeyValue(w, "Source rows", strconv.Itoa(r.Table.RowCount()))
		printKeyValue(w, "Grid", fmt.Sprintf("%d x %d", r.Grid.Rows(), r.Grid.Cols()))
		printKeyValue(w, "Cells", strconv.Itoa(token.CellCount(r.Tokens)))
		printKeyValue(w, "Anchors", strconv.Itoa(len(r.Grid.Anchors())))
		if n := len(r.Grid.Dropped()); n > 0 {
			printWarning(w, "%d cells dropped outside the grid", n)
		}

		if r.IsEmpty() {
			printWarning(w, "table has no rows")
			continue
		}

		// Check the emitted tokens form a rectangle. The text form is not
		// reparsed since cell text may itself look like a tag.
		if rows, cols, err := token.Shape(r.Tokens); err != nil {
			printWarning(w, "sequence is ragged: %v", err)
		} else {
			printKeyValue(w, "Shape", fmt.Sprintf("%d x %d", rows, cols))
		}

		fmt.Fprintln(w, renderGrid(r.Grid))
		fmt.Fprintln(w, StyleDim.Render(r.OTSL))
	}
	return nil
}
