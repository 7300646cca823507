package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// Placeholder replaces empty cells so columns stay aligned.
const Placeholder = "-"

// TableRenderer is implemented by types that can render themselves as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable writes data as a borderless, left-aligned table. Rows shorter
// than the header are padded and empty cells print as Placeholder.
func PrintTable(w io.Writer, data TableRenderer) error {
	headers := data.Headers()

	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range data.Rows() {
		table.Append(fillRow(row, len(headers)))
	}
	table.Render()
	return nil
}

func fillRow(row []string, width int) []string {
	filled := make([]string, max(width, len(row)))
	for i := range filled {
		if i < len(row) && row[i] != "" {
			filled[i] = row[i]
		} else {
			filled[i] = Placeholder
		}
	}
	return filled
}

// DetailTable renders a single record as FIELD / VALUE rows, e.g. the
// outcome of resolving one path.
type DetailTable struct {
	rows [][]string
}

// NewDetailTable creates an empty detail table.
func NewDetailTable() *DetailTable {
	return &DetailTable{}
}

// Add appends a field and returns t for chaining.
func (t *DetailTable) Add(field, value string) *DetailTable {
	t.rows = append(t.rows, []string{field, value})
	return t
}

// Headers implements TableRenderer.
func (t *DetailTable) Headers() []string {
	return []string{"Field", "Value"}
}

// Rows implements TableRenderer.
func (t *DetailTable) Rows() [][]string {
	return t.rows
}
