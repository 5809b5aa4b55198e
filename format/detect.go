// Package format provides input format detection for the converter.
package format

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML document or fragment containing tables.
	HTML
	// JSONL indicates annotation records, one JSON object per line.
	JSONL
	// JSON indicates annotation records held in a single JSON array.
	JSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case JSONL:
		return "JSONL"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case JSONL:
		return ".jsonl"
	case JSON:
		return ".json"
	default:
		return ""
	}
}

// IsDataset reports whether the format carries annotation records.
func (f Format) IsDataset() bool {
	return f == JSONL || f == JSON
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".jsonl", ".ndjson":
		return JSONL
	case ".json":
		return JSON
	default:
		return Unknown
	}
}

// DetectFromMagic checks the leading bytes of content to determine format.
// Returns Unknown if the format cannot be determined.
func DetectFromMagic(data []byte) Format {
	data = bytes.TrimLeft(data, "\ufeff \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	switch data[0] {
	case '{':
		return JSONL
	case '[':
		return JSON
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content. Bare table
// fragments count as HTML.
func detectHTMLMagic(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	upper := strings.ToUpper(string(head))

	for _, prefix := range []string{"<!DOCTYPE HTML", "<HTML", "<TABLE", "<BODY", "<DIV"} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}

	return false
}

// DetectFromReader peeks at the start of r to determine format without
// consuming any input.
func DetectFromReader(r *bufio.Reader) (Format, error) {
	magic, err := r.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Unknown, err
	}
	return DetectFromMagic(magic), nil
}
