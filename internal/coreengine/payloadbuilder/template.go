package payloadbuilder

// baseTemplate is the fixed skeleton of the transcript analyzer's request
// body. It is shared across all builds and must never be mutated in place;
// Build deep-copies it before overlaying row data. Flat lead_data keys double
// as the allow-list for the overlay: parsed attributes with no matching key
// here are ignored.
var baseTemplate = map[string]any{
	"client_details": map[string]any{
		"client_code": "",
	},
	"lead_data": map[string]any{
		"first_name":               "",
		"last_name":                "",
		"email":                    "",
		"phone":                    "",
		"nationality":              "",
		"university_name":          "",
		"destination_country_name": "",
		"destination_city_name":    "",
		"budget_duration":          "",
		"budget_currency":          "",
		"min_budget":               "",
		"max_budget":               "",
		"lease_unit":               "",
		"lease_value":              "",
		"move_in_date":             "",
		"room_type":                "",
		"university": map[string]any{
			"id":   nil,
			"name": nil,
		},
		"destination_country": map[string]any{
			"id":   nil,
			"name": nil,
		},
		"destination_city": map[string]any{
			"id":   nil,
			"name": nil,
		},
		"budget": map[string]any{
			"duration":   nil,
			"currency":   nil,
			"min_budget": nil,
			"max_budget": nil,
		},
		"lease": map[string]any{
			"unit":  nil,
			"value": nil,
		},
	},
	"transcript": []any{},
	"latest_message": map[string]any{
		"channel": "widget",
		"text":    "",
	},
}

// deepCopyValue produces a structural copy of a template value. The template
// only contains maps, slices and scalars, so these three cases cover it.
func deepCopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
