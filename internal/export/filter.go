package export

import "farmpilot/internal/core"

// Filter returns the subset of transactions inside the request's inclusive
// date range whose type toggle is enabled, preserving input order.
// Date comparison is by calendar instant with no timezone normalization
// beyond what the input encodes; this is best-effort by design of the data.
func Filter(transactions []core.Transaction, req Request) []core.Transaction {
	var out []core.Transaction
	for _, t := range transactions {
		if t.Date.Before(req.StartDate.Time) || t.Date.After(req.EndDate.Time) {
			continue
		}
		included := (req.IncludeIncome && t.Type == core.Income) ||
			(req.IncludeExpenses && t.Type == core.Expense)
		if !included {
			continue
		}
		out = append(out, t)
	}
	return out
}
