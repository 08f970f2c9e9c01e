// Package spreadsheet reads source spreadsheets into domain rows.
//
// Two readers are provided: XLSXReader for Excel workbooks and CSVReader for
// comma or semicolon separated exports. Registry picks one per payload from
// its MIME type, file extension or leading bytes.
//
// In every format the first row is a header and is skipped. Rows with no
// value in any column are dropped, but the remaining rows keep their
// position so failures can be reported against the sheet.
package spreadsheet
