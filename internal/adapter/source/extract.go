package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/ryanCYJ/crash-data-etl/internal/domain"
)

// dataTableSelector matches the single detail table on an archive page.
// Older pages in the archive use no other structural marker.
const dataTableSelector = `table[border="0"][cellpadding="3"]`

// extractRows parses a detail page body and returns its label/value rows.
// The archive predates UTF-8; the content-type charset (typically
// windows-1252) is honored when decoding. Rows without exactly two cells are
// skipped; labels lose a trailing colon and surrounding whitespace. A page
// without the data table wraps domain.ErrArchiveExhausted.
func extractRows(body io.Reader, contentType string) ([]domain.TableRow, error) {
	decoded, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find(dataTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no data table: %w", domain.ErrArchiveExhausted)
	}

	var rows []domain.TableRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() != 2 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		label = strings.TrimSpace(strings.TrimSuffix(label, ":"))
		value := strings.TrimSpace(cells.Eq(1).Text())
		rows = append(rows, domain.TableRow{Label: label, Value: value})
	})
	return rows, nil
}
