package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/shopspring/decimal"
)

// Theme colors
var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	goodStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorOrange)
	badStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// renderTable draws a rounded table with a section title above it
func renderTable(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return sectionStyle.Render(title) + "\n" + t.Render() + "\n"
}

// RenderTitle renders a boxed heading
func RenderTitle(title string) string {
	return titleStyle.Render(title) + "\n"
}

// RenderAllocation renders reconciled totals and per-expense adjustments
func RenderAllocation(a *domain.AllocationResult) string {
	var b strings.Builder

	rows := [][]string{
		{"Income", money(a.Income)},
		{"Savings", money(a.AdjustedSavings)},
		{"Savings floor", money(a.SavingsFloor)},
		{"Debt budget", money(a.AdjustedDebtBudget)},
		{"Minimum payments", money(a.AdjustedMinPaymentTotal)},
		{"Expenses", money(a.AdjustedExpenseTotal)},
		{"Spare cash", goodStyle.Render(money(a.SpareCash))},
	}
	if a.ResidualDeficit.IsPositive() {
		rows = append(rows, []string{"Residual deficit", badStyle.Render(money(a.ResidualDeficit))})
	}
	b.WriteString(renderTable("Allocation", []string{"Item", "Amount"}, rows))

	if len(a.ExpenseAdjustments) > 0 {
		exp := make([][]string, 0, len(a.ExpenseAdjustments))
		for _, adj := range a.ExpenseAdjustments {
			reason := string(adj.Reason)
			if adj.Reason != domain.ReasonUnchanged {
				reason = warnStyle.Render(reason)
			}
			exp = append(exp, []string{
				adj.Name,
				strconv.FormatBool(adj.IsEssential),
				money(adj.OriginalAmount),
				money(adj.AdjustedAmount),
				money(adj.Floor),
				reason,
			})
		}
		b.WriteString(renderTable("Expenses", []string{"Expense", "Essential", "Original", "Adjusted", "Floor", "Reason"}, exp))
	}

	return b.String()
}

func resultRow(r domain.SimulationResult, recommended string) []string {
	months := strconv.Itoa(r.MonthsToPayoff)
	if !r.PaidOff {
		months = badStyle.Render(months + "+")
	}
	mark := ""
	if r.Strategy == recommended {
		mark = goodStyle.Render("recommended")
	}
	return []string{r.Strategy, months, money(r.TotalInterestPaid), mark}
}

// RenderComparison renders the snowball and avalanche results side by side
func RenderComparison(cmp domain.StrategyComparison) string {
	rows := [][]string{
		resultRow(cmp.Snowball, cmp.Recommended),
		resultRow(cmp.Avalanche, cmp.Recommended),
	}
	out := renderTable("Payoff strategies", []string{"Strategy", "Months", "Interest", ""}, rows)
	if cmp.InterestSaved.IsPositive() || cmp.MonthsSaved > 0 {
		out += fmt.Sprintf("  %s saves %s in interest and %d months\n",
			cmp.Recommended, money(cmp.InterestSaved), cmp.MonthsSaved)
	}
	return out
}

// RenderResult renders a single strategy run
func RenderResult(r domain.SimulationResult) string {
	return renderTable("Payoff", []string{"Strategy", "Months", "Interest", ""}, [][]string{resultRow(r, "")})
}

// RenderSchedule renders month-by-month payoff rows
func RenderSchedule(schedule []domain.PayoffMonth) string {
	rows := make([][]string, 0, len(schedule))
	for _, m := range schedule {
		rows = append(rows, []string{
			strconv.Itoa(m.Month),
			money(m.InterestAccrued),
			money(m.MinimumPaid),
			money(m.ExtraPaid),
			m.TargetLoan,
			money(m.RemainingBalance),
		})
	}
	return renderTable("Schedule", []string{"Month", "Interest", "Minimums", "Extra", "Target", "Remaining"}, rows)
}

// RenderAdvice renders the advice messages and the seven cures checklist
func RenderAdvice(a domain.Advice) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Advice"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Emergency fund target: %s\n", money(a.EmergencyTarget)))
	for _, msg := range a.Messages {
		b.WriteString("  • " + msg + "\n")
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(a.Checklist))
	for _, c := range a.Checklist {
		status := badStyle.Render("no")
		if c.Done {
			status = goodStyle.Render("yes")
		}
		rows = append(rows, []string{strconv.Itoa(c.Number), c.Title, status, c.Detail})
	}
	b.WriteString(renderTable("Seven cures", []string{"#", "Cure", "Done", "Detail"}, rows))

	return b.String()
}

// RenderPlan renders a complete coaching plan
func RenderPlan(p *domain.Plan) string {
	var b strings.Builder
	b.WriteString(RenderTitle("FORTUNA PLAN " + p.Month))
	b.WriteString("\n")
	b.WriteString(RenderAllocation(p.Allocation))
	b.WriteString("\n")
	b.WriteString(RenderComparison(p.Comparison))
	b.WriteString("\n")
	b.WriteString(RenderAdvice(p.Advice))
	return b.String()
}

// RenderHistory renders recorded snapshots
func RenderHistory(snapshots []*domain.Snapshot) string {
	if len(snapshots) == 0 {
		return "  No snapshots recorded yet. Run plan with --save.\n"
	}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.Month,
			money(s.Salary),
			money(s.Savings),
			money(s.DebtBudget),
			money(s.ExpenseTotal),
			strconv.Itoa(s.Snowball.MonthsToPayoff),
			strconv.Itoa(s.Avalanche.MonthsToPayoff),
			money(s.CurrentSavings),
		})
	}
	return renderTable("History", []string{"Month", "Salary", "Savings", "Debt", "Expenses", "Snowball", "Avalanche", "Saved"}, rows)
}
