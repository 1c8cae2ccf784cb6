package payloadbuilder

import (
	"transcript-eval-platform/backend/internal/coreengine/rowparser"
	"transcript-eval-platform/backend/internal/datastore"
)

// Build maps one input row onto the analyzer's request schema. It starts from
// a deep copy of the base template, overlays every parsed lead attribute that
// the template knows about, then patches in the parsed transcript, the latest
// message and the client code. The shared template is never mutated, so
// repeated builds from the same row are structurally identical.
func Build(rec datastore.EvalRecord) map[string]any {
	payload := deepCopyValue(baseTemplate).(map[string]any)
	leadData := payload["lead_data"].(map[string]any)

	for key, value := range rowparser.ParseLeadData(rec.LeadData) {
		if _, known := leadData[key]; !known {
			continue
		}
		// Every matched key gets the flat overwrite; the special cases below
		// additionally route the value into the nested sub-object.
		leadData[key] = value

		switch key {
		case "university_name":
			university := leadData["university"].(map[string]any)
			university["id"] = nil
			university["name"] = value
		case "destination_country_name":
			country := leadData["destination_country"].(map[string]any)
			country["id"] = nil
			country["name"] = value
		case "destination_city_name":
			// Unlike the university/country cases, only the id is cleared and
			// the nested name is left alone. Possibly a latent defect in the
			// upstream contract, but preserved to match the analyzer's
			// observed inputs.
			city := leadData["destination_city"].(map[string]any)
			city["id"] = nil
		case "budget_duration":
			leadData["budget"].(map[string]any)["duration"] = value
		case "budget_currency":
			leadData["budget"].(map[string]any)["currency"] = value
		case "min_budget":
			leadData["budget"].(map[string]any)["min_budget"] = value
		case "max_budget":
			leadData["budget"].(map[string]any)["max_budget"] = value
		case "lease_unit":
			leadData["lease"].(map[string]any)["unit"] = value
		case "lease_value":
			leadData["lease"].(map[string]any)["value"] = value
		}
	}

	turns := rowparser.ParseTranscript(rec.Transcript)
	transcript := make([]any, 0, len(turns))
	for _, turn := range turns {
		transcript = append(transcript, map[string]any{
			"role":    turn.Role,
			"content": turn.Content,
		})
	}
	payload["transcript"] = transcript

	payload["latest_message"] = map[string]any{
		"channel": "widget",
		"text":    rec.LatestMessage,
	}
	payload["client_details"].(map[string]any)["client_code"] = rec.ClientCode

	return payload
}
