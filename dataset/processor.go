package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/tsawler/otsl"
	"github.com/tsawler/otsl/format"
)

// Options controls batch conversion.
type Options struct {
	// Split keeps only records whose split matches. Empty keeps all.
	Split string

	// Limit stops after this many records are written. Zero means no limit.
	Limit int

	// SkipErrors records per-record failures in the output instead of
	// aborting the run.
	SkipErrors bool

	// Strict and Framed are passed through to the converter.
	Strict bool
	Framed bool

	// MaxRecordBytes caps the length of one JSONL line. Zero means
	// DefaultMaxRecordBytes.
	MaxRecordBytes int
}

// DefaultMaxRecordBytes is the default cap on a single JSONL record.
const DefaultMaxRecordBytes = 16 << 20

// ErrRecordTooLarge is reported for a JSONL line longer than
// Options.MaxRecordBytes. The line is skipped, so SkipErrors can continue
// past it.
var ErrRecordTooLarge = errors.New("record exceeds size limit")

// decodeError marks a failure confined to one record. Other read errors
// end the run even with SkipErrors set.
type decodeError struct{ err error }

func (e decodeError) Error() string { return e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }
func (e decodeError) Cause() error  { return e.err }

// Result is one output record.
type Result struct {
	ID       string `json:"id"`
	Filename string `json:"filename,omitempty"`
	Split    string `json:"split,omitempty"`
	OTSL     string `json:"otsl"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Dropped  int    `json:"dropped,omitempty"`
	Error    string `json:"error,omitempty"`

	// Position of the record in the input, 1-indexed. Blank JSONL lines
	// are not counted.
	Record int `json:"-"`
}

// Stats summarizes a run.
type Stats struct {
	Read    int // records decoded
	Written int // results written
	Skipped int // records filtered out by split
	Failed  int // records that could not be converted
	Empty   int // records whose html held no table
	Dropped int // source cells dropped across all records
}

// Processor converts annotation records to OTSL results.
type Processor struct {
	opts Options

	// OnResult, when set, is called after each result is written.
	OnResult func(Result)
}

// NewProcessor creates a processor with the given options.
func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts}
}

// Run reads records from in and writes JSONL results to out. It stops at
// the first undecodable or unconvertible record unless SkipErrors is set,
// and checks ctx between records.
func (p *Processor) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats

	br := bufio.NewReader(in)
	f, err := format.DetectFromReader(br)
	if err != nil {
		return stats, errors.Wrap(err, "detecting input format")
	}

	var next func() (Record, error)
	switch f {
	case format.JSON:
		next, err = arrayRecords(br)
		if err != nil {
			return stats, err
		}
	case format.JSONL, format.Unknown:
		limit := p.opts.MaxRecordBytes
		if limit <= 0 {
			limit = DefaultMaxRecordBytes
		}
		next = lineRecords(br, limit)
	default:
		return stats, errors.Errorf("unsupported input format %s", f)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if p.opts.Limit > 0 && stats.Written >= p.opts.Limit {
			return stats, nil
		}

		rec, err := next()
		if err == io.EOF {
			return stats, nil
		}

		var res Result
		if err != nil {
			var de decodeError
			if !p.opts.SkipErrors || !errors.As(err, &de) {
				return stats, errors.Wrapf(err, "record %d", n)
			}
			stats.Failed++
			res = Result{ID: Record{}.ID(), OTSL: otsl.EmptyTable, Error: err.Error()}
		} else {
			stats.Read++
			if p.opts.Split != "" && rec.Split != p.opts.Split {
				stats.Skipped++
				continue
			}

			res, err = p.convert(rec)
			if err != nil {
				if !p.opts.SkipErrors {
					return stats, errors.Wrapf(err, "record %d (%s)", n, res.ID)
				}
				stats.Failed++
				res.Error = err.Error()
			}
		}

		res.Record = n
		if res.Error == "" && res.OTSL == otsl.EmptyTable {
			stats.Empty++
		}
		stats.Dropped += res.Dropped

		if err := enc.Encode(res); err != nil {
			return stats, errors.Wrapf(err, "writing record %d", n)
		}
		stats.Written++

		if p.OnResult != nil {
			p.OnResult(res)
		}
	}
}

// convert turns one record into a result. The returned result carries the
// record identity even on error.
func (p *Processor) convert(rec Record) (Result, error) {
	res := Result{
		ID:       rec.ID(),
		Filename: rec.Filename,
		Split:    rec.Split,
		OTSL:     otsl.EmptyTable,
	}

	markup, err := rec.Markup()
	if err != nil {
		return res, err
	}

	conv := otsl.FromString(markup)
	if p.opts.Strict {
		conv = conv.Strict()
	}
	if p.opts.Framed {
		conv = conv.Framed()
	}

	results, err := conv.Results()
	if err != nil {
		return res, err
	}

	first := results[0]
	res.OTSL = first.OTSL
	if first.Grid != nil {
		res.Rows = first.Grid.Rows()
		res.Cols = first.Grid.Cols()
		res.Dropped = len(first.Grid.Dropped())
	}
	return res, nil
}

// lineRecords decodes one record per non-blank line of at most limit bytes.
func lineRecords(br *bufio.Reader, limit int) func() (Record, error) {
	return func() (Record, error) {
		for {
			line, tooLong, err := readLine(br, limit)
			if err != nil && err != io.EOF {
				return Record{}, errors.Wrap(err, "reading input")
			}
			if tooLong {
				return Record{}, decodeError{errors.Wrapf(ErrRecordTooLarge, "more than %d bytes", limit)}
			}

			line = bytes.TrimSpace(line)
			if len(line) > 0 {
				var rec Record
				if uerr := json.Unmarshal(line, &rec); uerr != nil {
					return Record{}, decodeError{errors.Wrap(uerr, "decoding record")}
				}
				return rec, nil
			}
			if err == io.EOF {
				return Record{}, io.EOF
			}
		}
	}
}

// readLine reads through the next newline. A line longer than limit is
// consumed but not kept, and tooLong is set.
func readLine(br *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, tooLong, err
	}
}

// arrayRecords decodes the elements of a top-level JSON array one by one.
func arrayRecords(br *bufio.Reader) (func() (Record, error), error) {
	dec := json.NewDecoder(br)
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "reading array start")
	}

	done := false
	return func() (Record, error) {
		if done || !dec.More() {
			done = true
			return Record{}, io.EOF
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			// The decoder cannot resynchronise inside an array
			done = true
			var syntax *json.SyntaxError
			var typ *json.UnmarshalTypeError
			if errors.As(err, &syntax) || errors.As(err, &typ) {
				return Record{}, decodeError{errors.Wrap(err, "decoding record")}
			}
			return Record{}, errors.Wrap(err, "reading input")
		}
		return rec, nil
	}, nil
}
