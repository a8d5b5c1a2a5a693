package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// --- DTOs ---

type MethodCollection struct {
	Method string `json:"method"`
	Count  int64  `json:"count"`
	Total  string `json:"total"`
}

type CollectionsReport struct {
	From           string             `json:"from"`
	To             string             `json:"to"`
	ByMethod       []MethodCollection `json:"by_method"`
	TotalCollected string             `json:"total_collected"`
	Outstanding    string             `json:"outstanding"`
}

type CollectionsFilter struct {
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
}

// --- Interface ---

type ReportService interface {
	GetCollections(ctx context.Context, filter CollectionsFilter) (CollectionsReport, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// --- Implementation ---

// GetCollections aggregates payment records by method over a date
// range and reports the outstanding balance still due across every
// invoice in the range.
func (s *reportService) GetCollections(ctx context.Context, filter CollectionsFilter) (CollectionsReport, error) {
	from, to, err := resolveRange(filter)
	if err != nil {
		return CollectionsReport{}, err
	}

	methodQuery := `
		SELECT
			p.method AS method,
			COUNT(*) AS count,
			COALESCE(SUM(p.amount), 0) AS total
		FROM payment_records p
		WHERE p.date >= ? AND p.date < ?
		GROUP BY p.method
		ORDER BY total DESC
	`

	type methodRow struct {
		Method string  `gorm:"column:method"`
		Count  int64   `gorm:"column:count"`
		Total  float64 `gorm:"column:total"`
	}

	var rows []methodRow
	if err := s.db.WithContext(ctx).Raw(methodQuery, from, to).Scan(&rows).Error; err != nil {
		return CollectionsReport{}, fmt.Errorf("failed to query collections: %w", err)
	}

	report := CollectionsReport{
		From: from.Format("2006-01-02"),
		To:   to.AddDate(0, 0, -1).Format("2006-01-02"),
	}

	var totalCollected float64
	for _, r := range rows {
		totalCollected += r.Total
		report.ByMethod = append(report.ByMethod, MethodCollection{
			Method: r.Method,
			Count:  r.Count,
			Total:  fmt.Sprintf("%.2f", r.Total),
		})
	}
	report.TotalCollected = fmt.Sprintf("%.2f", totalCollected)

	// Outstanding spans invoices issued in the range, whatever the
	// dates of their receipts.
	outstandingQuery := `
		SELECT COALESCE(SUM(
			CASE WHEN i.grand_total - paid.total > 0 THEN i.grand_total - paid.total ELSE 0 END
		), 0) AS outstanding
		FROM invoices i
		LEFT JOIN (
			SELECT invoice_id, COALESCE(SUM(amount), 0) AS total
			FROM payment_records
			GROUP BY invoice_id
		) paid ON paid.invoice_id = i.id
		WHERE i.issue_date >= ? AND i.issue_date < ?
	`

	type outstandingRow struct {
		Outstanding float64 `gorm:"column:outstanding"`
	}
	var out outstandingRow
	if err := s.db.WithContext(ctx).Raw(outstandingQuery, from, to).Scan(&out).Error; err != nil {
		return CollectionsReport{}, fmt.Errorf("failed to query outstanding balance: %w", err)
	}
	report.Outstanding = fmt.Sprintf("%.2f", out.Outstanding)

	return report, nil
}

// resolveRange parses the filter dates, defaulting to the current
// month. The returned end is exclusive.
func resolveRange(filter CollectionsFilter) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if filter.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
		}
		from = parsed
	}
	if filter.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date must not be before start_date")
	}
	return from, to, nil
}
