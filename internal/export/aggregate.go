package export

import (
	"sort"
	"time"

	"farmpilot/internal/core"
)

// Summary holds the totals computed over the filtered transaction set.
// NetProfit may be negative; a loss is a valid outcome, not a failure.
type Summary struct {
	TotalIncome   core.Money
	TotalExpenses core.Money
	NetProfit     core.Money
}

// Summarize computes income, expense, and net totals.
func Summarize(transactions []core.Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Type {
		case core.Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case core.Expense:
			s.TotalExpenses.Cents += t.Amount.Cents
		}
	}
	s.NetProfit.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents
	return s
}

// MonthGroup is one YYYY-MM bucket of the filtered set.
type MonthGroup struct {
	Key          string    // "2024-01"
	Month        time.Time // first day of the month
	Transactions []core.Transaction
}

// GroupByMonth buckets transactions by calendar month. Months are ordered
// most-recent-first, and transactions within a month are ordered descending
// by date. Every input transaction lands in exactly one bucket.
func GroupByMonth(transactions []core.Transaction) []MonthGroup {
	byKey := make(map[string]*MonthGroup)
	var keys []string
	for _, t := range transactions {
		key := t.Date.MonthKey()
		g, ok := byKey[key]
		if !ok {
			g = &MonthGroup{
				Key:   key,
				Month: time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC),
			}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.Transactions = append(g.Transactions, t)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]MonthGroup, 0, len(keys))
	for _, key := range keys {
		g := byKey[key]
		sort.SliceStable(g.Transactions, func(i, j int) bool {
			return g.Transactions[i].Date.After(g.Transactions[j].Date.Time)
		})
		out = append(out, *g)
	}
	return out
}
