package normalize

// Top-level keys of a normalized result, in output order.
const (
	FieldCanAfford           = "can_afford"
	FieldConfidence          = "confidence"
	FieldRiskFactors         = "risk_factors"
	FieldRecommendations     = "recommendations"
	FieldMetrics             = "metrics"
	FieldIncomeVerification  = "income_verification"
	FieldTransactionAnalysis = "transaction_analysis"
	FieldMissingFieldsNotes  = "missing_fields_notes"
)

// Default notes recorded against filled fields.
const (
	noteTopLevel           = "Missing from model output. Filled with default value."
	noteMetric             = "Missing or undetermined. Set to 0."
	noteIncomeVerification = "Missing or undetermined. Set to default."
	noteTransactionList    = "Missing or undetermined. Set to empty list."
)

// Canned recommendations.
const (
	recommendAffordable     = "Set up automatic payments for rent"
	recommendUnaffordable   = "Look for more affordable housing options"
	recommendShortAfford    = "Consider setting up automatic payments for rent"
	recommendShortNotAfford = "Consider more affordable housing options"

	minRecommendationLen = 10
	maxRecommendationLen = 250
)

var requiredMetrics = []string{
	"monthly_income",
	"total_monthly_expenses",
	"monthly_debt_payments",
	"current_rent_payment",
	"disposable_income",
	"rent_to_income_ratio",
	"debt_to_income_ratio",
	"savings_rate",
	"target_rent",
	"total_debt",
}

// requiredIncomeVerification pairs each field with its default.
var requiredIncomeVerification = []struct {
	name string
	def  any
}{
	{"payslip_net_income", float64(0)},
	{"verified_average_deposit", float64(0)},
	{"is_verified", false},
	{"confidence", float64(0)},
	{"match_type", ""},
	{"stated_vs_documented_ratio", float64(0)},
	{"notes", ""},
}

var requiredTransactionAnalysis = []struct {
	group  string
	fields []string
}{
	{"incoming", []string{"salary_wages", "other_income"}},
	{"outgoing", []string{
		"essential_expenses",
		"non_essential_expenses",
		"debt_payments",
		"savings_investments",
		"current_rent",
	}},
}

// RequiredMetrics returns the metric keys every result carries.
func RequiredMetrics() []string {
	out := make([]string, len(requiredMetrics))
	copy(out, requiredMetrics)
	return out
}
