package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// stdinName selects standard input as the source.
const stdinName = "-"

// openInput opens path for reading. An empty path or "-" reads the
// command's standard input.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == stdinName {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// createOutput opens path for writing. An empty path or "-" writes to the
// command's standard output.
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == stdinName {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return f, nil
}

// closeOutput closes c and reports its error through err unless err
// already holds one. Use it deferred with a named error return.
func closeOutput(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = errors.Wrap(cerr, "closing output")
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// inputArg returns the first positional argument, or stdin.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinName
	}
	return args[0]
}
