package dataset

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNoMarkup is returned for records without an "html" field.
var ErrNoMarkup = errors.New("record has no html")

// Record is a single annotation record.
type Record struct {
	Filename string          `json:"filename,omitempty"`
	Split    string          `json:"split,omitempty"`
	ImgID    json.Number     `json:"imgid,omitempty"`
	TableID  json.Number     `json:"table_id,omitempty"`
	HTML     json.RawMessage `json:"html,omitempty"`
}

// Annotation is the tokenized table markup of PubTabNet style records.
type Annotation struct {
	Structure struct {
		Tokens []string `json:"tokens"`
	} `json:"structure"`
	Cells []AnnotatedCell `json:"cells"`
}

// AnnotatedCell holds the content tokens of one cell, in structure order.
type AnnotatedCell struct {
	Tokens []string  `json:"tokens"`
	BBox   []float64 `json:"bbox,omitempty"`
}

// ID returns a stable identifier for the record: the filename, qualified
// by table_id when present, else the imgid, else a random UUID.
func (r Record) ID() string {
	switch {
	case r.Filename != "" && r.TableID != "":
		return r.Filename + "#" + r.TableID.String()
	case r.Filename != "":
		return r.Filename
	case r.ImgID != "":
		return r.ImgID.String()
	default:
		return uuid.NewString()
	}
}

// Markup returns the record's table as HTML.
func (r Record) Markup() (string, error) {
	raw := bytes.TrimSpace(r.HTML)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrNoMarkup
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(err, "decoding html string")
		}
		return s, nil
	case '{':
		var ann Annotation
		if err := json.Unmarshal(raw, &ann); err != nil {
			return "", errors.Wrap(err, "decoding html annotation")
		}
		return ann.Markup(), nil
	default:
		return "", errors.Errorf("unsupported html value starting with %q", raw[0])
	}
}

// Markup rebuilds HTML from structure tokens, inserting each cell's content
// after the token that completes an opening cell tag. Structure tokens do
// not include the table element itself, so it is added here.
func (a Annotation) Markup() string {
	var sb strings.Builder
	sb.WriteString("<table>")

	next := 0
	inCellTag := false
	for _, tok := range a.Structure.Tokens {
		sb.WriteString(tok)

		opensCell := false
		switch {
		case tok == "<td>" || tok == "<th>":
			opensCell = true
		case tok == "<td" || tok == "<th":
			inCellTag = true
		case tok == ">" && inCellTag:
			inCellTag = false
			opensCell = true
		}

		if opensCell && next < len(a.Cells) {
			sb.WriteString(strings.Join(a.Cells[next].Tokens, ""))
			next++
		}
	}

	sb.WriteString("</table>")
	return sb.String()
}
