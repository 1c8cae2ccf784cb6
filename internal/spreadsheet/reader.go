package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"transcript-eval-platform/backend/internal/datastore"
)

// uniformFields are the input columns a workbook row can contribute. Any
// other column is ignored so callers can upload sheets with extra metadata.
var uniformFields = []string{"client_code", "transcript", "lead_data", "latest_message", "expected_output"}

// ParsedWorkbook is the result of reading an uploaded workbook: one record
// per data row across every sheet, in sheet order then row order.
type ParsedWorkbook struct {
	Records    []datastore.EvalRecord
	SheetNames []string
}

// ReadWorkbook parses an xlsx workbook from r. Every sheet is read; the first
// row of each sheet is treated as the header and matched case-insensitively
// against the uniform field names. Rows whose cells are all empty are
// skipped. An unreadable workbook is the one hard failure in the pipeline and
// is returned as an error.
func ReadWorkbook(r io.Reader) (*ParsedWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	parsed := &ParsedWorkbook{SheetNames: f.GetSheetList()}

	for _, sheet := range parsed.SheetNames {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		// Map header names to column indexes once per sheet.
		colIndex := make(map[string]int, len(rows[0]))
		for i, header := range rows[0] {
			colIndex[strings.ToLower(strings.TrimSpace(header))] = i
		}

		for _, row := range rows[1:] {
			rec := datastore.EvalRecord{}
			empty := true
			for _, field := range uniformFields {
				idx, ok := colIndex[field]
				if !ok || idx >= len(row) {
					continue
				}
				value := row[idx]
				if strings.TrimSpace(value) != "" {
					empty = false
				}
				switch field {
				case "client_code":
					rec.ClientCode = value
				case "transcript":
					rec.Transcript = value
				case "lead_data":
					rec.LeadData = value
				case "latest_message":
					rec.LatestMessage = value
				case "expected_output":
					rec.ExpectedOutput = value
				}
			}
			if empty {
				continue
			}
			parsed.Records = append(parsed.Records, rec)
		}
	}

	return parsed, nil
}
