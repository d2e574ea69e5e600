package export

import (
	"strings"

	"farmpilot/internal/core"
)

// csvHeader is the fixed column order expected by the spreadsheet import.
const csvHeader = "Date,Farm,Type,Category,Description,Amount"

// renderCSV produces the delimited-text artifact. The layout is fixed:
// header, one row per transaction in filter order, a blank separator, then
// the SUMMARY block with totals in the Amount column followed by the export
// timestamp and the requested date range.
//
// encoding/csv is deliberately not used: the format always quotes the Farm,
// Category and Description columns and never the others, which the writer's
// minimal-quoting rules cannot express.
func (s *Service) renderCSV(transactions []core.Transaction, farms farmLookup, req Request) (*Artifact, error) {
	sum := Summarize(transactions)

	rows := make([]string, 0, len(transactions)+9)
	rows = append(rows, csvHeader)
	for _, t := range transactions {
		row := []string{
			t.Date.ISO(),
			csvQuote(farms.Name(t.FarmID)),
			string(t.Type),
			csvQuote(t.Category),
			csvQuote(t.Description),
			t.Amount.DecimalString(),
		}
		rows = append(rows, strings.Join(row, ","))
	}

	rows = append(rows,
		"",
		"SUMMARY",
		"Total Income,,,,,"+csvQuote(sum.TotalIncome.DecimalString()),
		"Total Expenses,,,,,"+csvQuote(sum.TotalExpenses.DecimalString()),
		"Net Profit,,,,,"+csvQuote(sum.NetProfit.DecimalString()),
		"Export Date,,,,,"+csvQuote(s.now().Format("2006-01-02 15:04:05")),
		"Date Range,,,,,"+csvQuote(req.StartDate.ISO()+" to "+req.EndDate.ISO()),
	)

	return &Artifact{
		Filename:    "financial-data-" + req.StartDate.ISO() + "-to-" + req.EndDate.ISO() + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Disposition: Download,
		Content:     []byte(strings.Join(rows, "\n")),
	}, nil
}

// csvQuote wraps a value in double quotes, doubling any embedded quotes so
// commas inside the value survive spreadsheet import.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
