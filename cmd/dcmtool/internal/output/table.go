// Package output renders dcmtool's print/list results as a table or as a
// JSON array of ElementRow objects, per the Format global flag.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexeyco/simpletable"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"
)

// ElementRow is one rendered (tag, VR, name, value) line, shared by the
// table and JSON writers so both stay in sync with what Render prints.
type ElementRow struct {
	File  string `json:"file,omitempty"`
	Tag   string `json:"tag"`
	VR    string `json:"vr"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Render writes rows to w in the requested format.
func Render(rows []ElementRow, format config.OutputFormat, w io.Writer) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return renderTable(rows, w)
	}
}

func renderTable(rows []ElementRow, w io.Writer) error {
	table := simpletable.New()

	showFile := false
	for _, r := range rows {
		if r.File != "" {
			showFile = true
			break
		}
	}

	header := []*simpletable.Cell{
		{Align: simpletable.AlignCenter, Text: "Tag"},
		{Align: simpletable.AlignCenter, Text: "VR"},
		{Align: simpletable.AlignCenter, Text: "Name"},
		{Align: simpletable.AlignLeft, Text: "Value"},
	}
	if showFile {
		header = append([]*simpletable.Cell{{Align: simpletable.AlignCenter, Text: "File"}}, header...)
	}
	table.Header = &simpletable.Header{Cells: header}
	table.Body = &simpletable.Body{}

	for _, r := range rows {
		cells := []*simpletable.Cell{
			{Text: r.Tag},
			{Text: r.VR},
			{Text: r.Name},
			{Text: r.Value},
		}
		if showFile {
			cells = append([]*simpletable.Cell{{Text: r.File}}, cells...)
		}
		table.Body.Cells = append(table.Body.Cells, cells)
	}

	table.SetStyle(simpletable.StyleCompactLite)
	_, err := fmt.Fprintln(w, table.String())
	return err
}
