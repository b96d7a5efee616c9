package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/storage"
	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ChartWidth           = 800
	ChartHeight          = 400
	chartMargin          = 20
	DefaultReportURLLife = 24 * time.Hour
)

var ErrReportStorageNotConfigured = errors.New("report storage not configured")

var (
	chartBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	chartAxis       = color.NRGBA{R: 96, G: 96, B: 96, A: 255}
	chartBar        = color.NRGBA{R: 46, G: 125, B: 50, A: 255}
)

// ReportService renders plans as CSV or PNG and archives them to object storage
type ReportService struct {
	storage   domain.ReportStorage
	publisher websocket.EventPublisher
	urlLife   time.Duration
	now       func() time.Time
}

// NewReportService creates a new ReportService. storage may be nil, which
// disables archiving.
func NewReportService(storage domain.ReportStorage, urlLife time.Duration) *ReportService {
	if urlLife <= 0 {
		urlLife = DefaultReportURLLife
	}
	return &ReportService{
		storage:   storage,
		publisher: &websocket.NoOpPublisher{},
		urlLife:   urlLife,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReportService) SetEventPublisher(publisher websocket.EventPublisher) {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	s.publisher = publisher
}

// CanArchive indicates whether archiving is supported (storage configured)
func (s *ReportService) CanArchive() bool {
	return s != nil && s.storage != nil
}

// Export renders plan in the requested format
func (s *ReportService) Export(plan *domain.Plan, format domain.ReportFormat) (*domain.Report, error) {
	if plan == nil || plan.Allocation == nil {
		return nil, fmt.Errorf("%w: plan has no allocation", domain.ErrInvalidInput)
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case domain.ReportFormatCSV:
		data, err = renderCSV(plan)
	case domain.ReportFormatPNG:
		data, err = renderChart(plan.Schedule)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		Format:   format,
		Filename: fmt.Sprintf("fortuna-plan-%s.%s", plan.Month, format),
		Data:     data,
	}, nil
}

// Archive uploads a rendered report and returns a presigned download URL
func (s *ReportService) Archive(ctx context.Context, householdID uuid.UUID, month string, report *domain.Report) (*domain.ArchivedReport, error) {
	if !s.CanArchive() {
		return nil, ErrReportStorageNotConfigured
	}

	objectPath := storage.ReportObjectPath(householdID, month, report.Format)
	stored, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(report.Data), report.Format.ContentType(), int64(len(report.Data)))
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := s.storage.GeneratePresignedURL(ctx, stored, s.urlLife)
	if err != nil {
		// An unreachable report is useless; ignore errors during cleanup
		_ = s.storage.Delete(ctx, stored)
		return nil, fmt.Errorf("failed to sign report url: %w", err)
	}

	archived := &domain.ArchivedReport{
		ObjectPath: stored,
		URL:        url,
		ExpiresAt:  s.now().Add(s.urlLife).UTC(),
	}
	s.publisher.Publish(householdID, websocket.ReportArchived(archived))
	return archived, nil
}

func renderCSV(plan *domain.Plan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	alloc := plan.Allocation

	rows := [][]string{
		{"section", "item", "value"},
		{"allocation", "month", plan.Month},
		{"allocation", "income", money(alloc.Income)},
		{"allocation", "savings", money(alloc.AdjustedSavings)},
		{"allocation", "savings_floor", money(alloc.SavingsFloor)},
		{"allocation", "debt_budget", money(alloc.AdjustedDebtBudget)},
		{"allocation", "minimum_payments", money(alloc.AdjustedMinPaymentTotal)},
		{"allocation", "expenses", money(alloc.AdjustedExpenseTotal)},
		{"allocation", "spare_cash", money(alloc.SpareCash)},
		{"allocation", "residual_deficit", money(alloc.ResidualDeficit)},
		{"allocation", "iterations", strconv.Itoa(alloc.Iterations)},
		{"allocation", "emergency_target", money(plan.Advice.EmergencyTarget)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	sections := []struct {
		header []string
		rows   [][]string
	}{
		{
			header: []string{"expense", "essential", "original", "adjusted", "floor", "reason"},
			rows:   expenseRows(alloc.ExpenseAdjustments),
		},
		{
			header: []string{"strategy", "months_to_payoff", "total_interest", "paid_off", "recommended"},
			rows: [][]string{
				strategyRow(plan.Comparison.Snowball, plan.Comparison.Recommended),
				strategyRow(plan.Comparison.Avalanche, plan.Comparison.Recommended),
			},
		},
		{
			header: []string{"month", "interest", "minimum_paid", "extra_paid", "target_loan", "remaining_balance"},
			rows:   scheduleRows(plan.Schedule),
		},
	}
	for _, sec := range sections {
		if err := w.Write(nil); err != nil {
			return nil, fmt.Errorf("writing csv: %w", err)
		}
		if err := w.Write(sec.header); err != nil {
			return nil, fmt.Errorf("writing csv: %w", err)
		}
		if err := w.WriteAll(sec.rows); err != nil {
			return nil, fmt.Errorf("writing csv: %w", err)
		}
	}

	return buf.Bytes(), nil
}

func expenseRows(adjustments []domain.ExpenseAdjustment) [][]string {
	rows := make([][]string, 0, len(adjustments))
	for _, adj := range adjustments {
		rows = append(rows, []string{
			adj.Name,
			strconv.FormatBool(adj.IsEssential),
			money(adj.OriginalAmount),
			money(adj.AdjustedAmount),
			money(adj.Floor),
			string(adj.Reason),
		})
	}
	return rows
}

func strategyRow(r domain.SimulationResult, recommended string) []string {
	return []string{
		r.Strategy,
		strconv.Itoa(r.MonthsToPayoff),
		money(r.TotalInterestPaid),
		strconv.FormatBool(r.PaidOff),
		strconv.FormatBool(r.Strategy == recommended),
	}
}

func scheduleRows(schedule []domain.PayoffMonth) [][]string {
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
	return rows
}

// renderChart draws remaining debt per month as a bar chart. Long schedules
// are sampled down to one bar per pixel column.
func renderChart(schedule []domain.PayoffMonth) ([]byte, error) {
	img := imaging.New(ChartWidth, ChartHeight, chartBackground)

	plotW := ChartWidth - 2*chartMargin
	plotH := ChartHeight - 2*chartMargin
	baseline := ChartHeight - chartMargin

	img = imaging.Paste(img, imaging.New(plotW, 1, chartAxis), image.Pt(chartMargin, baseline))
	img = imaging.Paste(img, imaging.New(1, plotH, chartAxis), image.Pt(chartMargin, chartMargin))

	peak := decimal.Zero
	for _, m := range schedule {
		peak = decimal.Max(peak, m.RemainingBalance)
	}

	if len(schedule) > 0 && peak.IsPositive() {
		cols := len(schedule)
		if cols > plotW {
			cols = plotW
		}
		barW := plotW / cols

		for c := 0; c < cols; c++ {
			m := schedule[c*len(schedule)/cols]
			h := int(m.RemainingBalance.Div(peak).InexactFloat64() * float64(plotH))
			if h <= 0 {
				continue
			}
			bar := imaging.New(barW, h, chartBar)
			img = imaging.Paste(img, bar, image.Pt(chartMargin+1+c*barW, baseline-h))
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
