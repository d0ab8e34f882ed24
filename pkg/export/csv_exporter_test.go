package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	dataset := Dataset{
		Headers: []string{"Activity", "Enrolled"},
		Rows: [][]string{
			{"Chess Club", "8"},
			{"Drama, Improv", "12"},
		},
	}

	payload, err := exporter.Render(dataset)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Activity,Enrolled", lines[0])
	assert.Equal(t, "Chess Club,8", lines[1])
	assert.Equal(t, `"Drama, Improv",12`, lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	dataset := Dataset{
		Headers: []string{"Activity", "Enrolled"},
		Rows:    [][]string{{"Chess Club", "8"}},
	}

	payload, err := exporter.Render(dataset, "Activity Roster")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
