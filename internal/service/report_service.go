package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"ledger-board/internal/domain"
	"ledger-board/internal/policy"
	"ledger-board/internal/repository"
	"ledger-board/internal/storage"
)

// Summary holds the headline totals of the ledger.
type Summary struct {
	TotalIncome      int64
	TotalExpense     int64
	Balance          int64
	TransactionCount int
}

// MonthEntry is one point of the monthly series. Month is the sortable
// "2006-01" key, Label the human-readable form.
type MonthEntry struct {
	Month   string
	Label   string
	Income  int64
	Expense int64
}

// TypeEntry is one slice of the income/expense breakdown.
type TypeEntry struct {
	Name  string
	Value int64
}

// Report bundles everything the reports page renders: totals, the monthly
// series, the type breakdown and the raw ascending transaction list.
type Report struct {
	Summary       Summary
	MonthlySeries []MonthEntry
	TypeBreakdown []TypeEntry
	Transactions  []domain.Transaction
}

// ReportService builds ledger reports and durable CSV exports.
type ReportService interface {
	Summary(ctx context.Context, p domain.Principal) (*Report, error)
	Export(ctx context.Context, p domain.Principal) (string, error)
	ListExports(ctx context.Context, p domain.Principal) ([]storage.ObjectInfo, error)
	ExportURL(ctx context.Context, p domain.Principal, key string) (string, error)
}

type reportService struct {
	txs       repository.TransactionRepository
	store     storage.Service
	bucket    string
	keyPrefix string
}

func NewReportService(txs repository.TransactionRepository, store storage.Service, bucket, keyPrefix string) ReportService {
	return &reportService{
		txs:       txs,
		store:     store,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}
}

func (s *reportService) Summary(ctx context.Context, p domain.Principal) (*Report, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanViewTransactions(p) {
		return nil, ErrForbidden
	}

	txs, err := s.txs.ListByDateAsc(ctx)
	if err != nil {
		return nil, err
	}
	report := Aggregate(txs)
	return &report, nil
}

// Aggregate reduces a transaction set, ordered by date ascending, into the
// report payload. It is a pure function: identical input yields identical
// output, and an empty set yields zeroed totals rather than an error.
func Aggregate(txs []domain.Transaction) Report {
	summary := Summary{TransactionCount: len(txs)}
	byMonth := make(map[string]*MonthEntry)

	for _, tx := range txs {
		key := tx.OccurredOn.Format("2006-01")
		entry, ok := byMonth[key]
		if !ok {
			entry = &MonthEntry{
				Month: key,
				Label: tx.OccurredOn.Format("Jan 2006"),
			}
			byMonth[key] = entry
		}

		switch tx.Kind {
		case domain.KindIncome:
			summary.TotalIncome += tx.Amount
			entry.Income += tx.Amount
		case domain.KindExpense:
			summary.TotalExpense += tx.Amount
			entry.Expense += tx.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	series := make([]MonthEntry, 0, len(byMonth))
	for _, entry := range byMonth {
		series = append(series, *entry)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })

	if txs == nil {
		txs = []domain.Transaction{}
	}

	return Report{
		Summary:       summary,
		MonthlySeries: series,
		TypeBreakdown: []TypeEntry{
			{Name: "Income", Value: summary.TotalIncome},
			{Name: "Expense", Value: summary.TotalExpense},
		},
		Transactions: txs,
	}
}

// BuildCSV renders the transaction list in the export column layout.
func BuildCSV(txs []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "description", "amount", "kind", "occurred_on", "owner_id"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Description,
			strconv.FormatInt(tx.Amount, 10),
			string(tx.Kind),
			tx.OccurredOn.Format("2006-01-02"),
			tx.OwnerID,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) Export(ctx context.Context, p domain.Principal) (string, error) {
	if err := requirePrincipal(p); err != nil {
		return "", err
	}
	if !policy.CanManageTransactions(p) {
		return "", ErrForbidden
	}
	if s.store == nil || s.bucket == "" {
		return "", fmt.Errorf("storage service not configured")
	}

	txs, err := s.txs.ListByDateAsc(ctx)
	if err != nil {
		return "", err
	}
	body, err := BuildCSV(txs)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/ledger-%s.csv", s.keyPrefix, time.Now().UTC().Format("20060102-150405"))
	return s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(body), "text/csv")
}

func (s *reportService) ListExports(ctx context.Context, p domain.Principal) ([]storage.ObjectInfo, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanManageTransactions(p) {
		return nil, ErrForbidden
	}
	if s.store == nil || s.bucket == "" {
		return nil, fmt.Errorf("storage service not configured")
	}
	return s.store.ListObjects(ctx, s.bucket, s.keyPrefix)
}

func (s *reportService) ExportURL(ctx context.Context, p domain.Principal, key string) (string, error) {
	if err := requirePrincipal(p); err != nil {
		return "", err
	}
	if !policy.CanManageTransactions(p) {
		return "", ErrForbidden
	}
	if key == "" {
		return "", validationErr("key", "key is required")
	}
	if s.store == nil || s.bucket == "" {
		return "", fmt.Errorf("storage service not configured")
	}
	return s.store.GetObjectURL(ctx, s.bucket, key, 15*time.Minute)
}
