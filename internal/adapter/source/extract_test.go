package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanCYJ/crash-data-etl/internal/domain"
)

const detailPage = `<html><body>
<table border="0" cellpadding="3" width="500">
<tr><td colspan="2"><b>Accident details</b></td></tr>
<tr><td><b>Date:</b></td><td>July 28, 2001</td></tr>
<tr><td><b>Time:</b></td><td>1600</td></tr>
<tr><td><b>Location:</b></td><td>  Near Chicago, Illinois  </td></tr>
<tr><td><b>Aboard:</b></td><td>7   (passengers:6  crew:1)</td></tr>
<tr><td><b>Fatalities:</b></td><td>?</td></tr>
<tr><td>orphan cell</td></tr>
</table>
</body></html>`

func TestExtractRows(t *testing.T) {
	rows, err := extractRows(strings.NewReader(detailPage), "text/html")
	require.NoError(t, err)

	assert.Equal(t, []domain.TableRow{
		{Label: "Date", Value: "July 28, 2001"},
		{Label: "Time", Value: "1600"},
		{Label: "Location", Value: "Near Chicago, Illinois"},
		{Label: "Aboard", Value: "7   (passengers:6  crew:1)"},
		{Label: "Fatalities", Value: "?"},
	}, rows)
}

func TestExtractRows_NoDataTable(t *testing.T) {
	page := `<html><body><table border="1"><tr><td>a</td><td>b</td></tr></table></body></html>`

	_, err := extractRows(strings.NewReader(page), "text/html")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArchiveExhausted)
}

func TestExtractRows_Windows1252(t *testing.T) {
	// 0xE9 is é in windows-1252; the archive serves legacy encodings.
	page := "<html><body><table border=\"0\" cellpadding=\"3\">" +
		"<tr><td>Location:</td><td>Montr\xe9al, Canada</td></tr>" +
		"</table></body></html>"

	rows, err := extractRows(strings.NewReader(page), "text/html; charset=windows-1252")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Montréal, Canada", rows[0].Value)
}
