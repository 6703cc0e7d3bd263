// Package normalize forces the explanation step's free-form output into the
// fixed result schema, with the audit record's verdict applied on top.
package normalize

import (
	"fmt"
	"unicode/utf8"

	"github.com/propma/affordability/internal/domain"
)

// NormalizeText decodes raw model text and normalizes it. Undecodable text
// is treated as an empty object.
func NormalizeText(raw string, record domain.AuditRecord) domain.NormalizedResult {
	data, _ := DecodeModelOutput(raw)
	return Normalize(data, record)
}

// Normalize returns a schema-complete result built from raw. raw is not
// modified. can_afford and metrics.target_rent are always taken from record.
func Normalize(raw map[string]any, record domain.AuditRecord) domain.NormalizedResult {
	data := deepCopy(raw)
	notes := collectNotes(data[FieldMissingFieldsNotes])

	if metrics, ok := asMap(data[FieldMetrics]); ok {
		applyMetricSynonyms(metrics)
	}
	if ta, ok := asMap(data[FieldTransactionAnalysis]); ok {
		nestTransactionAnalysis(ta)
	}

	fillTopLevel(data, notes)
	fillMetrics(data, notes)
	fillIncomeVerification(data, notes)
	fillTransactionAnalysis(data, notes)

	// The audit record is authoritative.
	data[FieldCanAfford] = record.CanAfford()
	metrics, _ := asMap(data[FieldMetrics])
	metrics["target_rent"] = targetRentValue(record)

	recs := sanitizeRecommendations(toList(data[FieldRecommendations]), record.CanAfford())
	data[FieldRecommendations] = recs

	pruneNotes(data, notes)

	confidence, _ := toFloat(data[FieldConfidence])
	ver, _ := asMap(data[FieldIncomeVerification])
	ta, _ := asMap(data[FieldTransactionAnalysis])

	return domain.NormalizedResult{
		CanAfford:           record.CanAfford(),
		Confidence:          confidence,
		RiskFactors:         toStrings(data[FieldRiskFactors]),
		Recommendations:     recs,
		Metrics:             metrics,
		IncomeVerification:  ver,
		TransactionAnalysis: ta,
		MissingFieldsNotes:  notes,
	}
}

// Renormalize runs an existing result through Normalize again.
func Renormalize(result domain.NormalizedResult, record domain.AuditRecord) (domain.NormalizedResult, error) {
	m, err := result.AsMap()
	if err != nil {
		return domain.NormalizedResult{}, err
	}
	return Normalize(m, record), nil
}

// ClaimedCanAfford reports the verdict the explanation step asserted, if any.
func ClaimedCanAfford(raw map[string]any) (value, present bool) {
	v, ok := raw[FieldCanAfford]
	if !ok {
		return false, false
	}
	return toBool(v)
}

func collectNotes(v any) map[string]string {
	notes := map[string]string{}
	m, ok := asMap(v)
	if !ok {
		return notes
	}
	for k, note := range m {
		if s, ok := note.(string); ok {
			notes[k] = s
			continue
		}
		notes[k] = fmt.Sprint(note)
	}
	return notes
}

func fillTopLevel(data map[string]any, notes map[string]string) {
	if _, ok := data[FieldCanAfford]; !ok || data[FieldCanAfford] == nil {
		notes[FieldCanAfford] = noteTopLevel
	}

	if _, ok := toFloat(data[FieldConfidence]); !ok {
		data[FieldConfidence] = float64(0)
		notes[FieldConfidence] = noteTopLevel
	}

	for _, field := range []string{FieldRiskFactors, FieldRecommendations} {
		if data[field] == nil {
			data[field] = []any{}
			notes[field] = noteTopLevel
		}
	}

	for _, field := range []string{FieldMetrics, FieldIncomeVerification, FieldTransactionAnalysis} {
		if _, ok := asMap(data[field]); !ok {
			data[field] = map[string]any{}
			notes[field] = noteTopLevel
		}
	}
}

func fillMetrics(data map[string]any, notes map[string]string) {
	metrics, _ := asMap(data[FieldMetrics])
	for _, name := range requiredMetrics {
		if metrics[name] == nil {
			metrics[name] = float64(0)
			notes[FieldMetrics+"."+name] = noteMetric
		}
	}
}

func fillIncomeVerification(data map[string]any, notes map[string]string) {
	ver, _ := asMap(data[FieldIncomeVerification])
	for _, f := range requiredIncomeVerification {
		if ver[f.name] == nil {
			ver[f.name] = f.def
			notes[FieldIncomeVerification+"."+f.name] = noteIncomeVerification
		}
	}
}

func fillTransactionAnalysis(data map[string]any, notes map[string]string) {
	ta, _ := asMap(data[FieldTransactionAnalysis])
	for _, req := range requiredTransactionAnalysis {
		group, ok := asMap(ta[req.group])
		if !ok {
			group = map[string]any{}
			ta[req.group] = group
		}
		for _, field := range req.fields {
			if group[field] == nil {
				group[field] = []any{}
				notes[FieldTransactionAnalysis+"."+req.group+"."+field] = noteTransactionList
				continue
			}
			group[field] = toList(group[field])
		}
		// Extra categories must be lists too.
		for k, v := range group {
			group[k] = toList(v)
		}
	}
}

func sanitizeRecommendations(items []any, canAfford bool) []string {
	if len(items) == 0 {
		if canAfford {
			return []string{recommendAffordable}
		}
		return []string{recommendUnaffordable}
	}

	out := make([]string, 0, len(items))
	for _, s := range toStrings(items) {
		switch n := utf8.RuneCountInString(s); {
		case n < minRecommendationLen:
			if canAfford {
				s = recommendShortAfford
			} else {
				s = recommendShortNotAfford
			}
		case n > maxRecommendationLen:
			s = string([]rune(s)[:maxRecommendationLen])
		}
		out = append(out, s)
	}
	return out
}

// pruneNotes drops notes whose field now carries a real value.
func pruneNotes(data map[string]any, notes map[string]string) {
	for path := range notes {
		if !isEmpty(lookup(data, path)) {
			delete(notes, path)
		}
	}
}

func targetRentValue(record domain.AuditRecord) float64 {
	rent := record.TargetRent()
	if !rent.Valid {
		return 0
	}
	return rent.Decimal.InexactFloat64()
}

func deepCopy(v map[string]any) map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = copyValue(val)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopy(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
