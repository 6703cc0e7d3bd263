package domain

import "encoding/json"

// NormalizedResult is the final analysis document handed to callers. Every
// required field is present; MissingFieldsNotes explains any defaults.
type NormalizedResult struct {
	CanAfford           bool              `json:"can_afford"`
	Confidence          float64           `json:"confidence"`
	RiskFactors         []string          `json:"risk_factors"`
	Recommendations     []string          `json:"recommendations"`
	Metrics             map[string]any    `json:"metrics"`
	IncomeVerification  map[string]any    `json:"income_verification"`
	TransactionAnalysis map[string]any    `json:"transaction_analysis"`
	MissingFieldsNotes  map[string]string `json:"missing_fields_notes"`
}

// AsMap returns the result as a generic JSON object.
func (r NormalizedResult) AsMap() (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
