package evaluationengine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"transcript-eval-platform/backend/internal/coreengine/metricscalculator"
	"transcript-eval-platform/backend/internal/datastore"
)

// BatchProcessor evaluates a dataset row by row, sequentially and in order,
// and folds every row outcome into the fixed result columns. A failing row
// is recorded and skipped over; the batch itself never aborts.
type BatchProcessor struct {
	Evaluator *RowEvaluator
}

func NewBatchProcessor(evaluator *RowEvaluator) *BatchProcessor {
	return &BatchProcessor{Evaluator: evaluator}
}

// Process evaluates every record and returns one ProcessedRecord per input
// record, in input order. Column routing per outcome:
//   - row-level error: only eval_error is written.
//   - judge returned a scoring mapping: reasoning, the four scores,
//     differences, pass_fail and the raw judge payload are written.
//   - judge returned a tagged error: the error mapping is JSON-stringified
//     into eval_error and the scoring columns stay empty.
func (p *BatchProcessor) Process(ctx context.Context, records []datastore.EvalRecord) []datastore.ProcessedRecord {
	log := logrus.WithField("component", "batch_processor")
	processed := make([]datastore.ProcessedRecord, 0, len(records))

	for i, rec := range records {
		log.Infof("Evaluating row %d/%d (id=%d)", i+1, len(records), rec.ID)
		out := datastore.ProcessedRecord{EvalRecord: rec}

		outcome := p.Evaluator.EvaluateRow(ctx, rec)
		switch {
		case outcome.Error != "":
			out.EvalError = strPtr(outcome.Error)
		case outcome.Judge != nil:
			out.PredictedOutput = outcome.PredictedOutput
			applyJudgeColumns(&out, outcome.Judge)
		case outcome.JudgeError != nil:
			out.PredictedOutput = outcome.PredictedOutput
			out.EvalError = strPtr(stringifyJSON(outcome.JudgeError.AsMap()))
		default:
			out.PredictedOutput = outcome.PredictedOutput
		}

		processed = append(processed, out)
	}
	return processed
}

// applyJudgeColumns maps a judge scoring payload onto the result columns.
// Score values arrive pre-coerced by the judge client; whatever could not be
// coerced to a number is stored as-is rather than dropped.
func applyJudgeColumns(out *datastore.ProcessedRecord, judge map[string]any) {
	reasoning, ok := judge["reasoning"].(string)
	if !ok {
		reasoning, ok = judge["reason"].(string)
	}
	if ok {
		out.EvalReasoning = &reasoning
	}

	out.ScoreAccuracy = judge["accuracy"]
	out.ScoreCompleteness = judge["completeness"]
	out.ScoreRelevance = judge["relevance"]
	out.ScoreOverall = judge["overall"]

	if diff, present := judge["differences"]; present && diff != nil {
		if s, isString := diff.(string); isString {
			out.Differences = &s
		} else {
			out.Differences = strPtr(stringifyJSON(diff))
		}
	}

	if pf, isString := judge["pass_fail"].(string); isString {
		out.PassFail = &pf
	}

	out.JudgeRaw = judge
}

// Summarize computes batch-level aggregates over the processed records.
// Means are taken only over the rows that actually produced the underlying
// value; a batch with no such rows leaves the mean nil.
func (p *BatchProcessor) Summarize(records []datastore.ProcessedRecord) datastore.BatchSummary {
	summary := datastore.BatchSummary{}

	var overallSum float64
	var overallCount int
	var similaritySum float64
	var similarityCount int

	for _, rec := range records {
		if rec.EvalError != nil {
			summary.RowsErrored++
		}
		if rec.PredictedOutput == nil {
			continue
		}
		summary.RowsEvaluated++

		similaritySum += metricscalculator.TextSimilarity(rec.ExpectedOutput, *rec.PredictedOutput)
		similarityCount++

		if rec.PassFail != nil {
			switch *rec.PassFail {
			case "pass":
				summary.PassCount++
			case "fail":
				summary.FailCount++
			}
		}
		if overall, ok := rec.ScoreOverall.(float64); ok {
			overallSum += overall
			overallCount++
		}
	}

	if overallCount > 0 {
		mean := overallSum / float64(overallCount)
		summary.MeanOverallScore = &mean
	}
	if similarityCount > 0 {
		mean := similaritySum / float64(similarityCount)
		summary.MeanTextSimilarity = &mean
	}
	return summary
}

func stringifyJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func strPtr(s string) *string {
	return &s
}
