package spreadsheet

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"transcript-eval-platform/backend/internal/datastore"
)

const resultsSheetName = "Results"

var inputColumns = []string{"id", "timestamp", "source", "client_code", "transcript", "lead_data", "latest_message", "expected_output"}

// WriteResults renders processed records into an xlsx workbook: the input
// columns first, then the ten result columns in their fixed order. Returns
// the serialized workbook bytes ready for object storage.
func WriteResults(records []datastore.ProcessedRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), resultsSheetName); err != nil {
		return nil, fmt.Errorf("naming results sheet: %w", err)
	}

	headers := append(append([]string{}, inputColumns...), datastore.ResultColumns...)
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("addressing header cell: %w", err)
		}
		if err := f.SetCellValue(resultsSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("writing header %q: %w", header, err)
		}
	}

	for rowIdx, rec := range records {
		values := []any{
			rec.ID, rec.Timestamp, rec.Source, rec.ClientCode,
			rec.Transcript, rec.LeadData, rec.LatestMessage, rec.ExpectedOutput,
			derefString(rec.PredictedOutput),
			derefString(rec.EvalReasoning),
			cellValue(rec.ScoreAccuracy),
			cellValue(rec.ScoreCompleteness),
			cellValue(rec.ScoreRelevance),
			cellValue(rec.ScoreOverall),
			derefString(rec.Differences),
			derefString(rec.PassFail),
			judgeRawCell(rec.JudgeRaw),
			derefString(rec.EvalError),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("addressing data cell: %w", err)
			}
			if err := f.SetCellValue(resultsSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", rec.ID, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func derefString(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

// cellValue keeps numeric scores as numbers and falls back to a string
// rendering for anything the judge returned that did not coerce.
func cellValue(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case float64, int, string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func judgeRawCell(raw map[string]any) any {
	if raw == nil {
		return ""
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return string(b)
}
