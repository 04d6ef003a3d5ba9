package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Day", "Course"},
		Rows: []map[string]string{
			{"Day": "Sunday", "Course": "Anatomy"},
			{"Day": "Monday"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Day,Course\nSunday,Anatomy\nMonday,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Day", "Course"},
		Rows:    []map[string]string{{"Day": "Sunday", "Course": "Anatomy"}},
	}

	out, err := exporter.Render(data, "stage1 timetable")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = exporter.Render(Dataset{}, "")
	assert.Error(t, err)
}
