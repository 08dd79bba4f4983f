package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestRenderCSVPadsShortRows(t *testing.T) {
	out, err := Render(FormatCSV, Table{
		Columns: []string{"Employee", "Status", "Notes"},
		Rows: [][]string{
			{"Ada", "ON_TIME", ""},
			{"Bo", "ABSENT"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Employee,Status,Notes\nAda,ON_TIME,\nBo,ABSENT,\n", string(out))
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(FormatPDF, Table{
		Title:   "Attendance 2024-06-03",
		Columns: []string{"Employee", "Status"},
		Rows:    [][]string{{"Ada", "LATE_IN"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresColumns(t *testing.T) {
	_, err := Render(FormatCSV, Table{})
	assert.Error(t, err)
}
