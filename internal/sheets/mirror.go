// Package sheets defines the ledger-mirror port. The worker pushes committed
// transactions into an external spreadsheet so the bookkeeper's view survives
// independently of the primary store.
package sheets

import (
	"context"

	"farmpilot/internal/core"
)

type (
	// TransactionAppender mirrors a committed transaction to the ledger.
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, t core.Transaction, farmName string) (rowRef string, err error)
	}

	// TransactionRemover removes a mirrored transaction from the ledger.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, id int64) error
	}
)
