package http

import (
	"net/http"
	"time"

	"farmpilot/internal/core"
	"farmpilot/internal/log"
)

// dashboardData feeds the landing page template.
type dashboardData struct {
	FarmCount      int
	CropCount      int
	EquipmentCount int
	OpenTasks      []taskView
	Weather        *weatherView
	Summary        summaryView
}

type taskView struct {
	Title    string
	Priority string
	DueDate  string
	Overdue  bool
}

type weatherView struct {
	Temperature   int
	Condition     string
	Humidity      int
	Wind          int
	Precipitation int
	UVIndex       string
}

type summaryView struct {
	TotalIncome   string
	TotalExpenses string
	NetProfit     string
	Loss          bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	data := dashboardData{}

	if farms, err := s.getFarms(ctx); err == nil {
		data.FarmCount = len(farms)
	} else {
		s.logger.ErrorContext(ctx, "Farm list error", "error", err)
	}
	if crops, err := s.records.ListCrops(ctx); err == nil {
		data.CropCount = len(crops)
	}
	if equipment, err := s.records.ListEquipment(ctx); err == nil {
		data.EquipmentCount = len(equipment)
	}

	today := time.Now()
	if tasks, err := s.records.ListTasks(ctx); err == nil {
		for _, t := range tasks {
			if t.Completed {
				continue
			}
			data.OpenTasks = append(data.OpenTasks, taskView{
				Title:    t.Title,
				Priority: t.Priority,
				DueDate:  t.DueDate.ISO(),
				Overdue:  !t.DueDate.IsZero() && t.DueDate.Before(today),
			})
		}
	}

	if obs, err := s.records.CurrentWeather(ctx); err == nil {
		data.Weather = &weatherView{
			Temperature:   obs.Temperature,
			Condition:     obs.Condition,
			Humidity:      obs.Humidity,
			Wind:          obs.Wind,
			Precipitation: obs.Precipitation,
			UVIndex:       obs.UVIndex,
		}
	}

	if txs, err := s.getTransactions(ctx); err == nil {
		data.Summary = summarizeForView(txs)
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		s.logger.ErrorContext(ctx, "Dashboard template execution failed", "error", err, "template", "dashboard.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// transactionsPageData feeds the transactions page: the ledger table plus
// the farm options for the entry form.
type transactionsPageData struct {
	Transactions []transactionRow
	Farms        []core.Farm
	Summary      summaryView
}

type transactionRow struct {
	ID          int64
	Date        string
	Type        string
	Category    string
	Description string
	Amount      string
	Farm        string
}

func (s *Server) handleTransactionsPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	txs, err := s.getTransactions(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Transaction list error", "error", err)
		http.Error(w, "failed to load transactions", http.StatusInternalServerError)
		return
	}
	farms, err := s.getFarms(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Farm list error", "error", err)
	}

	farmNames := make(map[int64]string, len(farms))
	for _, f := range farms {
		farmNames[f.ID] = f.Name
	}

	data := transactionsPageData{
		Farms:   farms,
		Summary: summarizeForView(txs),
	}
	for _, t := range txs {
		name := farmNames[t.FarmID]
		if name == "" {
			name = "Unknown Farm"
		}
		data.Transactions = append(data.Transactions, transactionRow{
			ID:          t.ID,
			Date:        t.Date.ISO(),
			Type:        string(t.Type),
			Category:    t.Category,
			Description: t.Description,
			Amount:      t.Amount.FormatUSD(),
			Farm:        name,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		s.logger.ErrorContext(ctx, "Transactions template execution failed", "error", err, "template", "transactions.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleFinancialSummary renders the income/expense totals partial used by
// the dashboard and the transactions page.
func (s *Server) handleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs, err := s.getTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Financial summary error", "error", err)
		_, _ = w.Write([]byte(`<section id="financial-summary" class="financial-summary"><div class="placeholder">Error loading summary</div></section>`))
		return
	}

	data := summarizeForView(txs)
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="financial-summary" class="financial-summary"><div class="placeholder">Net: ` + data.NetProfit + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "financial_summary.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "financial_summary.html")
		_, _ = w.Write([]byte(`<section id="financial-summary" class="financial-summary"><div class="placeholder">Error rendering summary</div></section>`))
	}
}

func summarizeForView(txs []core.Transaction) summaryView {
	var income, expenses int64
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income += t.Amount.Cents
		case core.Expense:
			expenses += t.Amount.Cents
		}
	}
	net := income - expenses
	return summaryView{
		TotalIncome:   core.Money{Cents: income}.FormatUSD(),
		TotalExpenses: core.Money{Cents: expenses}.FormatUSD(),
		NetProfit:     core.Money{Cents: net}.FormatUSD(),
		Loss:          net < 0,
	}
}
