package extract

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
)

func TestStatementTransactions_SingleDebit(t *testing.T) {
	t.Parallel()

	txs := StatementTransactions("05 Jan 2025\nGROCERY STORE\n- R 450.00")
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if tx.Date != "05/01/2025" {
		t.Fatalf("unexpected date %q", tx.Date)
	}
	if tx.Description != "GROCERY STORE" {
		t.Fatalf("unexpected description %q", tx.Description)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("450")) {
		t.Fatalf("unexpected amount %s", tx.Amount)
	}
	if tx.Direction != domain.DirectionDebit {
		t.Fatalf("unexpected direction %s", tx.Direction)
	}
}

func TestStatementTransactions_MultipleEntries(t *testing.T) {
	t.Parallel()

	text := `STATEMENT
1 February 2025
SALARY
ACME LTD
R25,000.00
03 Feb 2025
DEBIT ORDER
-1,200.00
Balance brought forward`

	txs := StatementTransactions(text)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d: %+v", len(txs), txs)
	}

	if txs[0].Date != "01/02/2025" || txs[0].Description != "SALARY ACME LTD" {
		t.Fatalf("unexpected first transaction %+v", txs[0])
	}
	if txs[0].Direction != domain.DirectionCredit || !txs[0].Amount.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("unexpected first amount %+v", txs[0])
	}

	if txs[1].Direction != domain.DirectionDebit || !txs[1].Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected second transaction %+v", txs[1])
	}
}

func TestStatementTransactions_Edges(t *testing.T) {
	t.Parallel()

	t.Run("empty text", func(t *testing.T) {
		if txs := StatementTransactions(""); txs == nil || len(txs) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", txs)
		}
	})

	t.Run("amount outside lookahead", func(t *testing.T) {
		text := "05 Jan 2025\na\nb\nc\nd\ne\n100.00"
		if txs := StatementTransactions(text); len(txs) != 0 {
			t.Fatalf("expected no transactions, got %+v", txs)
		}
	})

	t.Run("unparseable date kept raw", func(t *testing.T) {
		txs := StatementTransactions("05 Sept 2025\nCOFFEE\n- R 30.00")
		if len(txs) != 1 || txs[0].Date != "05 Sept 2025" {
			t.Fatalf("expected raw date passthrough, got %+v", txs)
		}
	})

	t.Run("later date inside window joins the description", func(t *testing.T) {
		text := "01 Jan 2025\nopening\n02 Jan 2025\nRENT\n- R 7,000.00"
		txs := StatementTransactions(text)
		if len(txs) != 1 {
			t.Fatalf("expected 1 transaction, got %+v", txs)
		}
		if txs[0].Date != "01/01/2025" || txs[0].Description != "opening 02 Jan 2025 RENT" {
			t.Fatalf("first date consumes following lines up to the amount, got %+v", txs[0])
		}
	})
}
