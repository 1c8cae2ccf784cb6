package datastore

// EvalRecord is one input row of transcript/lead data to be evaluated. Rows
// arrive either from an uploaded workbook or from an ad-hoc text submission
// and are immutable once stored.
type EvalRecord struct {
	ID             int    `bson:"id" json:"id"`
	Timestamp      string `bson:"timestamp" json:"timestamp"`
	Source         string `bson:"source" json:"source"` // "excel_upload" | "text_fields" | "unknown"
	ClientCode     string `bson:"client_code" json:"client_code"`
	Transcript     string `bson:"transcript" json:"transcript"`
	LeadData       string `bson:"lead_data" json:"lead_data"`
	LatestMessage  string `bson:"latest_message" json:"latest_message"`
	ExpectedOutput string `bson:"expected_output" json:"expected_output"`
}

// ProcessedRecord is an EvalRecord augmented with the ten fixed result
// columns produced by the batch processor. Column values are nil until the
// row has been evaluated; after evaluation every row carries at least one of
// predicted_output or eval_error.
//
// The score columns are interface-typed because the judge payload is
// semi-structured: scores are floats when coercible, but a non-coercible
// value is preserved as delivered rather than dropped.
type ProcessedRecord struct {
	EvalRecord `bson:",inline"`

	PredictedOutput   *string        `bson:"predicted_output" json:"predicted_output"`
	EvalReasoning     *string        `bson:"eval_reasoning" json:"eval_reasoning"`
	ScoreAccuracy     interface{}    `bson:"score_accuracy" json:"score_accuracy"`
	ScoreCompleteness interface{}    `bson:"score_completeness" json:"score_completeness"`
	ScoreRelevance    interface{}    `bson:"score_relevance" json:"score_relevance"`
	ScoreOverall      interface{}    `bson:"score_overall" json:"score_overall"`
	Differences       *string        `bson:"differences" json:"differences"`
	PassFail          *string        `bson:"pass_fail" json:"pass_fail"`
	JudgeRaw          map[string]any `bson:"judge_raw" json:"judge_raw"`
	EvalError         *string        `bson:"eval_error" json:"eval_error"`
}

// ResultColumns lists the appended result columns in their fixed order, as
// written to result workbooks and reported by the API.
var ResultColumns = []string{
	"predicted_output",
	"eval_reasoning",
	"score_accuracy",
	"score_completeness",
	"score_relevance",
	"score_overall",
	"differences",
	"pass_fail",
	"judge_raw",
	"eval_error",
}
