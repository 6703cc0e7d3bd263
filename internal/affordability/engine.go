package affordability

import (
	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/extract"
)

// Input is everything the engine looks at. Only TargetRent is expected;
// every other field degrades to an empty or zero value.
type Input struct {
	Transactions  []domain.Transaction
	StatementText string
	Payslip       *domain.Payslip
	CreditReport  *domain.CreditReport
	TargetRent    decimal.NullDecimal
}

// Analysis is the audit record plus the intermediate facts behind it.
type Analysis struct {
	Record       domain.AuditRecord
	Transactions []domain.Transaction
	Payslip      domain.PayslipFact
	Credit       domain.CreditFact
	Totals       Totals
}

// Engine runs the deterministic pre-processing. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	observer Observer
}

// NewEngine creates an engine reporting to observer. A nil observer is
// replaced with NopObserver.
func NewEngine(observer Observer) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{observer: observer}
}

// Preprocess builds the audit record for in.
func (e *Engine) Preprocess(in Input) (domain.AuditRecord, error) {
	a, err := e.Analyze(in)
	if err != nil {
		return domain.AuditRecord{}, err
	}
	return a.Record, nil
}

// Analyze builds the audit record and returns the facts it was built from.
func (e *Engine) Analyze(in Input) (Analysis, error) {
	if err := domain.ValidateTargetRent(in.TargetRent); err != nil {
		return Analysis{}, err
	}

	payslip := extract.ExtractPayslip(in.Payslip)

	txs := make([]domain.Transaction, 0, len(in.Transactions))
	txs = append(txs, in.Transactions...)
	e.observer.TransactionsExtracted(SourceStructured, len(in.Transactions))

	if len(in.Transactions) == 0 && in.StatementText != "" {
		scanned := extract.StatementTransactions(in.StatementText)
		e.observer.TransactionsExtracted(SourceStatementText, len(scanned))
		txs = append(txs, scanned...)
	}

	totals := Aggregate(txs, payslip.NetIncome)
	e.observer.IncomeResolved(totals, payslip.NetIncome)

	credit := domain.TotalDebtFromNegativeAccounts(in.CreditReport)

	record, err := domain.NewAuditRecord(domain.AuditParams{
		TotalIncome:   &totals.Income,
		TotalExpenses: totals.Expenses,
		TotalDebt:     credit.TotalDebt,
		TargetRent:    in.TargetRent,
	})
	if err != nil {
		return Analysis{}, err
	}
	e.observer.RecordBuilt(record)

	return Analysis{
		Record:       record,
		Transactions: txs,
		Payslip:      payslip,
		Credit:       credit,
		Totals:       totals,
	}, nil
}
