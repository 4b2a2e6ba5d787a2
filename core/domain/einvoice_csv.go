package domain

// ParsedCSV is the decoded e-invoice summary attachment.
//
// Rows preserves the attachment line structure verbatim: lines split on
// '\n', fields split on '|'. A trailing newline in the source yields a
// final single-empty-field row, which is kept so the sheet write covers
// the same range the source file did.
type ParsedCSV struct {
	// Filename is the destination spreadsheet name, the first 6 bytes of
	// row 0 field 3 (the invoice period token, e.g. "202401").
	Filename string
	Rows     [][]string
}

// RowCount returns the number of rows including any trailing blank row.
func (p *ParsedCSV) RowCount() int {
	return len(p.Rows)
}
