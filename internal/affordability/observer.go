package affordability

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/infrastructure/metrics"
)

// Transaction sources reported to observers.
const (
	SourceStructured    = "structured"
	SourceStatementText = "statement_text"
)

// Observer receives progress callbacks from the engine.
type Observer interface {
	TransactionsExtracted(source string, count int)
	IncomeResolved(totals Totals, payslipIncome decimal.Decimal)
	RecordBuilt(record domain.AuditRecord)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) TransactionsExtracted(string, int)      {}
func (NopObserver) IncomeResolved(Totals, decimal.Decimal) {}
func (NopObserver) RecordBuilt(domain.AuditRecord)         {}

// LogObserver writes engine progress to a zerolog logger at debug level,
// and the final record at info.
type LogObserver struct {
	Log zerolog.Logger
}

func (o LogObserver) TransactionsExtracted(source string, count int) {
	o.Log.Debug().
		Str("source", source).
		Int("count", count).
		Msg("transactions collected")
}

func (o LogObserver) IncomeResolved(totals Totals, payslipIncome decimal.Decimal) {
	o.Log.Debug().
		Str("transaction_income", totals.TransactionIncome.String()).
		Str("payslip_income", payslipIncome.String()).
		Str("total_income", totals.Income.String()).
		Str("total_expenses", totals.Expenses.String()).
		Bool("payslip_used", totals.PayslipUsed).
		Msg("income resolved")
}

func (o LogObserver) RecordBuilt(record domain.AuditRecord) {
	ev := o.Log.Info().
		Str("total_income", record.TotalIncome().String()).
		Str("max_affordable_rent", record.MaxAffordableRent().String()).
		Bool("can_afford", record.CanAfford()).
		Str("rule", record.Rule())
	if rent := record.TargetRent(); rent.Valid {
		ev = ev.Str("target_rent", rent.Decimal.String())
	}
	ev.Msg("audit record built")
}

// MetricsObserver records engine activity in Prometheus.
type MetricsObserver struct {
	Metrics *metrics.Metrics
}

func (o MetricsObserver) TransactionsExtracted(source string, count int) {
	o.Metrics.TransactionsScanned.WithLabelValues(source).Add(float64(count))
}

func (o MetricsObserver) IncomeResolved(Totals, decimal.Decimal) {}

func (o MetricsObserver) RecordBuilt(record domain.AuditRecord) {
	o.Metrics.AssessmentsCreated.WithLabelValues(strconv.FormatBool(record.CanAfford())).Inc()
	o.Metrics.AssessmentIncome.Observe(record.TotalIncome().InexactFloat64())
}

// MultiObserver fans callbacks out in order.
type MultiObserver []Observer

func (m MultiObserver) TransactionsExtracted(source string, count int) {
	for _, o := range m {
		o.TransactionsExtracted(source, count)
	}
}

func (m MultiObserver) IncomeResolved(totals Totals, payslipIncome decimal.Decimal) {
	for _, o := range m {
		o.IncomeResolved(totals, payslipIncome)
	}
}

func (m MultiObserver) RecordBuilt(record domain.AuditRecord) {
	for _, o := range m {
		o.RecordBuilt(record)
	}
}
