package normalize

// applyMetricSynonyms rewrites alternate metric names onto the required ones.
// affordable_rent is dropped; target_rent always comes from the audit record.
func applyMetricSynonyms(metrics map[string]any) {
	delete(metrics, "affordable_rent")

	if v, ok := metrics["monthly_expenses"]; ok {
		metrics["total_monthly_expenses"] = v
		delete(metrics, "monthly_expenses")
	}

	if v, ok := metrics["gross_monthly_income"]; ok {
		metrics["monthly_income"] = v
	} else if v, ok := metrics["net_monthly_income"]; ok {
		metrics["monthly_income"] = v
	}

	if v, ok := metrics["total_debt_payments"]; ok {
		metrics["monthly_debt_payments"] = v
	}
}

// flatMappings moves flat transaction analysis keys into the nested shape.
var flatMappings = []struct {
	flatGroup, flatKey string
	group, field       string
	appendTo           bool
}{
	{"income", "salary", "incoming", "salary_wages", false},
	{"income", "additional_income", "incoming", "other_income", false},
	{"expenses", "rent", "outgoing", "current_rent", false},
	{"expenses", "utilities", "outgoing", "essential_expenses", true},
	{"expenses", "groceries", "outgoing", "essential_expenses", true},
	{"expenses", "transport", "outgoing", "essential_expenses", true},
	{"expenses", "debt_payments", "outgoing", "debt_payments", false},
	{"expenses", "discretionary", "outgoing", "non_essential_expenses", false},
}

// nestTransactionAnalysis rewrites {income:{salary}, expenses:{rent}} style
// input into {incoming:{salary_wages}, outgoing:{current_rent}}. Mapped keys
// are removed from the flat groups so a second pass is a no-op; keys without
// a mapping stay where they were and an emptied flat group is dropped.
func nestTransactionAnalysis(ta map[string]any) {
	touched := map[string]map[string]any{}

	for _, m := range flatMappings {
		flat, ok := asMap(ta[m.flatGroup])
		if !ok {
			continue
		}
		touched[m.flatGroup] = flat

		v, ok := flat[m.flatKey]
		if !ok {
			continue
		}
		delete(flat, m.flatKey)

		group, ok := asMap(ta[m.group])
		if !ok {
			group = map[string]any{}
			ta[m.group] = group
		}

		if m.appendTo {
			group[m.field] = append(toList(group[m.field]), toList(v)...)
			continue
		}
		group[m.field] = toList(v)
	}

	for name, flat := range touched {
		if len(flat) == 0 {
			delete(ta, name)
		}
	}
}
