package dto

import (
	"encoding/json"
)

// UnmarshalJSON records whether target_rent was sent so that an
// unparseable value can be told apart from an absent one.
func (r *AssessmentRequest) UnmarshalJSON(data []byte) error {
	type plain AssessmentRequest
	var aux struct {
		plain
		TargetRent json.RawMessage `json:"target_rent"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = AssessmentRequest(aux.plain)
	if len(aux.TargetRent) == 0 || string(aux.TargetRent) == "null" {
		return nil
	}

	r.targetRentPresent = true
	return json.Unmarshal(aux.TargetRent, &r.TargetRent)
}

// HasKeys reports whether the raw JSON object carries every key.
func HasKeys(data []byte, keys ...string) (missing []string, err error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing, nil
}
