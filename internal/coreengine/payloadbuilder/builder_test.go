package payloadbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-eval-platform/backend/internal/datastore"
)

func leadData(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	ld, ok := payload["lead_data"].(map[string]any)
	require.True(t, ok, "payload must carry a lead_data object")
	return ld
}

func TestBuildOverlaysNestedLeadFields(t *testing.T) {
	rec := datastore.EvalRecord{
		ClientCode: "acme-01",
		LeadData:   "university_name: MIT\nbudget_currency: USD",
	}

	payload := Build(rec)
	ld := leadData(t, payload)

	university := ld["university"].(map[string]any)
	assert.Nil(t, university["id"])
	assert.Equal(t, "MIT", university["name"])
	assert.Equal(t, "MIT", ld["university_name"], "flat key is overwritten too")

	budget := ld["budget"].(map[string]any)
	assert.Equal(t, "USD", budget["currency"])
	assert.Equal(t, "USD", ld["budget_currency"])

	assert.Equal(t, "acme-01", payload["client_details"].(map[string]any)["client_code"])
}

func TestBuildDestinationCityClearsOnlyID(t *testing.T) {
	rec := datastore.EvalRecord{LeadData: "destination_city_name: Boston"}

	ld := leadData(t, Build(rec))
	city := ld["destination_city"].(map[string]any)
	assert.Nil(t, city["id"])
	assert.Nil(t, city["name"], "nested city name is intentionally not set")
	assert.Equal(t, "Boston", ld["destination_city_name"])
}

func TestBuildBudgetAndLeaseRouting(t *testing.T) {
	rec := datastore.EvalRecord{
		LeadData: "budget_duration: weekly\nmin_budget: 100\nmax_budget: 500\nlease_unit: months\nlease_value: 12",
	}

	ld := leadData(t, Build(rec))
	budget := ld["budget"].(map[string]any)
	assert.Equal(t, "weekly", budget["duration"])
	assert.Equal(t, "100", budget["min_budget"])
	assert.Equal(t, "500", budget["max_budget"])

	lease := ld["lease"].(map[string]any)
	assert.Equal(t, "months", lease["unit"])
	assert.Equal(t, "12", lease["value"])
	assert.Equal(t, "months", ld["lease_unit"])
}

func TestBuildIgnoresUnknownLeadKeys(t *testing.T) {
	rec := datastore.EvalRecord{LeadData: "favourite_colour: blue\nemail: a@b.co"}

	ld := leadData(t, Build(rec))
	_, present := ld["favourite_colour"]
	assert.False(t, present)
	assert.Equal(t, "a@b.co", ld["email"])
}

func TestBuildTranscriptAndLatestMessage(t *testing.T) {
	rec := datastore.EvalRecord{
		Transcript:    "assistant: hi\nuser: hello\nnoise",
		LatestMessage: "any rooms left?",
	}

	payload := Build(rec)
	transcript := payload["transcript"].([]any)
	require.Len(t, transcript, 2)
	assert.Equal(t, map[string]any{"role": "assistant", "content": "hi"}, transcript[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "hello"}, transcript[1])

	latest := payload["latest_message"].(map[string]any)
	assert.Equal(t, "widget", latest["channel"])
	assert.Equal(t, "any rooms left?", latest["text"])
}

func TestBuildIsIdempotentAndDoesNotMutateTemplate(t *testing.T) {
	rec := datastore.EvalRecord{
		ClientCode: "c1",
		LeadData:   "university_name: MIT\ndestination_country_name: USA",
		Transcript: "user: hey",
	}

	first := Build(rec)
	second := Build(rec)
	assert.Equal(t, first, second, "same row must build structurally equal payloads")

	// Overwriting through one payload must not leak into later builds.
	leadData(t, first)["university"].(map[string]any)["name"] = "tampered"
	third := Build(rec)
	assert.Equal(t, "MIT", leadData(t, third)["university"].(map[string]any)["name"])

	// The shared template itself stays untouched.
	tmplLead := baseTemplate["lead_data"].(map[string]any)
	assert.Equal(t, "", tmplLead["university_name"])
	assert.Nil(t, tmplLead["university"].(map[string]any)["name"])
	assert.Empty(t, baseTemplate["transcript"].([]any))
	assert.Equal(t, "", baseTemplate["client_details"].(map[string]any)["client_code"])
}
