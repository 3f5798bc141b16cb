// Package export renders clients and invoices as MYOB import files.
package export

import (
	"bytes"
	"strings"
)

// ContentType content type of the tab separated exports
const ContentType = "text/tab-separated-values"

// BOM UTF-8 byte order mark that starts every export file
const BOM = "\xEF\xBB\xBF"

const dateLayout = "2006-01-02"

var escaper = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// Escape replaces tab, carriage return and newline with a space so a value
// cannot break its row or shift the following columns.
func Escape(value string) string {
	return escaper.Replace(value)
}

// tsvBuffer accumulates a tab separated file: BOM, header row, data rows.
// Fields are escaped, never quoted.
type tsvBuffer struct {
	buf  bytes.Buffer
	rows int
}

func newTSV(header []string) *tsvBuffer {
	t := &tsvBuffer{}
	t.buf.WriteString(BOM)
	t.writeLine(header)
	return t
}

func (t *tsvBuffer) writeLine(fields []string) {
	for i, field := range fields {
		if i > 0 {
			t.buf.WriteByte('\t')
		}
		t.buf.WriteString(Escape(field))
	}
	t.buf.WriteByte('\n')
}

// writeRow appends a data row
func (t *tsvBuffer) writeRow(fields []string) {
	t.writeLine(fields)
	t.rows++
}

func (t *tsvBuffer) bytes() []byte {
	return t.buf.Bytes()
}
