package otsl

// ConvertOptions holds configuration for conversion.
type ConvertOptions struct {
	// Report malformed spans and missing tables as errors
	strict bool

	// Wrap non-empty output in <otsl> ... </otsl>
	framed bool

	// Convert every table rather than only the first
	allTables bool
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		strict:    false,
		framed:    false,
		allTables: false,
	}
}

// clone creates a copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	return ConvertOptions{
		strict:    o.strict,
		framed:    o.framed,
		allTables: o.allTables,
	}
}
