package evaluationengine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"transcript-eval-platform/backend/internal/coreengine/payloadbuilder"
	"transcript-eval-platform/backend/internal/coreengine/serviceclients"
	"transcript-eval-platform/backend/internal/datastore"
)

// RowOutcome is the unified result of evaluating one row. Exactly one outcome
// is produced per row: either Error is set (row-level failure, batch keeps
// going) or the other fields reflect the completed attempt. Judge and
// JudgeError are the two arms of the judge call; at most one is set.
type RowOutcome struct {
	PredictedOutput *string
	Judge           map[string]any
	JudgeError      *serviceclients.ClientError
	Error           string
}

// RowEvaluator drives the per-row pipeline: build payload, get a prediction
// from the transcript analyzer, then score it against the expected output via
// the judge. Judge calls are gated by a counting semaphore so callers can cap
// concurrent judge traffic; the default capacity of 1 serializes them.
type RowEvaluator struct {
	Analyzer *serviceclients.AnalyzerClient
	Judge    *serviceclients.JudgeClient

	judgeSem *semaphore.Weighted
}

// NewRowEvaluator creates a row evaluator. judgeConcurrency values below 1
// fall back to 1.
func NewRowEvaluator(analyzer *serviceclients.AnalyzerClient, judge *serviceclients.JudgeClient, judgeConcurrency int) *RowEvaluator {
	if judgeConcurrency < 1 {
		judgeConcurrency = 1
	}
	return &RowEvaluator{
		Analyzer: analyzer,
		Judge:    judge,
		judgeSem: semaphore.NewWeighted(int64(judgeConcurrency)),
	}
}

// EvaluateRow runs the full pipeline for one row. It never returns an error
// and never panics past its boundary: anything unexpected is recovered,
// logged and stringified into the outcome so a single bad row cannot abort
// the batch. Tagged analyzer failures degrade to an empty predicted text
// (the judge still runs and scores the absence of a prediction).
func (e *RowEvaluator) EvaluateRow(ctx context.Context, rec datastore.EvalRecord) (outcome RowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("component", "row_evaluator").Errorf("Error evaluating row %d: %v", rec.ID, r)
			outcome.Judge = nil
			outcome.JudgeError = nil
			outcome.Error = fmt.Sprintf("%v", r)
		}
	}()

	payload := payloadbuilder.Build(rec)

	analyzerResp, analyzerErr := e.Analyzer.Analyze(ctx, payload)
	predicted := ""
	if analyzerErr == nil {
		predicted = serviceclients.ExtractPredictedText(analyzerResp)
	}
	outcome.PredictedOutput = &predicted

	if err := e.judgeSem.Acquire(ctx, 1); err != nil {
		outcome.Error = fmt.Sprintf("acquiring judge slot: %v", err)
		return outcome
	}
	// Released via defer so a panic inside the judge call cannot leak the
	// slot and starve every later row.
	defer e.judgeSem.Release(1)
	judge, judgeErr := e.Judge.Score(ctx, rec.ExpectedOutput, predicted, rec.Transcript)

	outcome.Judge = judge
	outcome.JudgeError = judgeErr
	return outcome
}
