package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"farmpilot/internal/core"
)

//go:embed templates/report.html
var reportFS embed.FS

var reportTmpl = template.Must(template.ParseFS(reportFS, "templates/report.html"))

// reportData is the fully pre-formatted model handed to the report template.
// All money and date formatting happens here so the template stays dumb.
type reportData struct {
	PeriodStart      string
	PeriodEnd        string
	Generated        string
	TotalIncome      string
	TotalExpenses    string
	NetProfit        string
	NetClass         string // "profit" or "loss"
	Months           []reportMonth
	TransactionCount int
	FarmCount        int
}

type reportMonth struct {
	Label string // "January 2024"
	Count int
	Rows  []reportRow
}

type reportRow struct {
	Date        string // "Jan 05"
	Farm        string
	Category    string
	Description string
	Type        string
	Amount      string // signed, currency-formatted
	RowClass    string // "income-row" or "expense-row"
}

// renderReport produces the formatted-document artifact: a self-contained
// HTML page styled for the browser's print surface. Months appear
// most-recent-first with their transactions in descending date order.
func (s *Service) renderReport(transactions []core.Transaction, farms farmLookup, req Request, farmCount int) (*Artifact, error) {
	sum := Summarize(transactions)

	data := reportData{
		PeriodStart:      req.StartDate.Format("Jan 02, 2006"),
		PeriodEnd:        req.EndDate.Format("Jan 02, 2006"),
		Generated:        s.now().Format("Jan 02, 2006 at 15:04"),
		TotalIncome:      sum.TotalIncome.FormatUSD(),
		TotalExpenses:    sum.TotalExpenses.FormatUSD(),
		NetProfit:        sum.NetProfit.FormatUSD(),
		NetClass:         "profit",
		TransactionCount: len(transactions),
		FarmCount:        farmCount,
	}
	if sum.NetProfit.Cents < 0 {
		data.NetClass = "loss"
	}

	for _, g := range GroupByMonth(transactions) {
		month := reportMonth{
			Label: g.Month.Format("January 2006"),
			Count: len(g.Transactions),
		}
		for _, t := range g.Transactions {
			sign := "+"
			rowClass := "income-row"
			if t.Type == core.Expense {
				sign = "-"
				rowClass = "expense-row"
			}
			desc := t.Description
			if desc == "" {
				desc = "-"
			}
			month.Rows = append(month.Rows, reportRow{
				Date:        t.Date.Format("Jan 02"),
				Farm:        farms.Name(t.FarmID),
				Category:    t.Category,
				Description: desc,
				Type:        string(t.Type),
				Amount:      sign + t.Amount.FormatUSD(),
				RowClass:    rowClass,
			})
		}
		data.Months = append(data.Months, month)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report template: %w", err)
	}

	return &Artifact{
		ContentType: "text/html; charset=utf-8",
		Disposition: Preview,
		Content:     buf.Bytes(),
	}, nil
}
