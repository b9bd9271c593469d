package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Academic Transcript",
		Caption: []string{"Student: Zoë Example"},
		Headers: []string{"Term", "Code", "Grade"},
		Rows: [][]string{
			{"2024-FALL", "SCI101", "A"},
			{"2025-SPRING", "HIS201", "-"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Term,Code,Grade\n2024-FALL,SCI101,A\n2025-SPRING,HIS201,-\n", string(payload))
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := (&PDFExporter{Widths: []float64{40}}).Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only-one"})

	_, err := NewCSVExporter().Render(table)
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Table{})
	assert.Error(t, err)
}

func TestColumnWidthsShareRemainder(t *testing.T) {
	widths := (&PDFExporter{Widths: []float64{50}}).columnWidths(3)
	assert.Equal(t, []float64{50, 70, 70}, widths)
}
