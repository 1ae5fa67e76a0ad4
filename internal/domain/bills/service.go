package bills

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/classifier"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/normalizer"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/tabular"
	"github.com/FACorreiaa/mansion-ledger/pkg/config"
	"github.com/FACorreiaa/mansion-ledger/pkg/observability"
	"github.com/FACorreiaa/mansion-ledger/pkg/tablestore"
)

// subtotalRe matches the summary rows Horganice appends below the table.
var subtotalRe = regexp.MustCompile(`(?i)^รวม|total|summary`)

// Summary reports one bill import run.
type Summary struct {
	RunID      uuid.UUID
	SourceFile string
	Month      string
	Parsed     int // billable records built
	Skipped    int // blank, subtotal, or zero-amount rows
	Inserted   int
	Updated    int
}

func (s *Summary) String() string {
	return fmt.Sprintf("Imported %d bills from %q for month %s. Upserts → inserted: %d, updated: %d",
		s.Parsed, s.SourceFile, s.Month, s.Inserted, s.Updated)
}

// Service runs the Horganice report import end to end: grid → header →
// columns → records → upsert. One run processes one file; the host
// guarantees runs never overlap, so there is no locking here.
type Service struct {
	store    tablestore.Store
	loc      *time.Location
	cycleDay int
	floors   map[string]string
	logger   *slog.Logger
}

// NewService wires a bill import service.
func NewService(store tablestore.Store, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		loc:      cfg.Billing.Location(),
		cycleDay: cfg.Billing.CycleDay,
		floors:   cfg.Accounts.FloorAccounts,
		logger:   logger,
	}
}

// ImportFile imports the report at path. The file's modification time is
// the report's effective date for billing-month derivation.
func (s *Service) ImportFile(ctx context.Context, path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat report: %w", err)
	}
	grid, err := tabular.OpenReport(path)
	if err != nil {
		return nil, err
	}
	return s.ImportGrid(ctx, grid, filepath.Base(path), info.ModTime())
}

// ImportGrid imports an already-read report grid. Header location and
// column classification failures are terminal: nothing is written for a
// structurally unrecognized source.
func (s *Service) ImportGrid(ctx context.Context, grid tabular.Grid, sourceName string, effective time.Time) (*Summary, error) {
	headerRow, err := grid.LocateHeaderBySentinel()
	if err != nil {
		observability.RunFailures.WithLabelValues("bills").Inc()
		return nil, fmt.Errorf("report %s: %w", sourceName, err)
	}

	header := grid.HeaderStrings(headerRow)
	cols, err := classifier.ResolveBillColumns(header)
	if err != nil {
		observability.RunFailures.WithLabelValues("bills").Inc()
		return nil, fmt.Errorf("report %s: %w", sourceName, err)
	}

	month := normalizer.BillingMonth(effective, s.loc, s.cycleDay)
	records, skipped := s.buildRecords(grid, headerRow, header, cols, month, sourceName)

	observability.RowsParsed.WithLabelValues("bills").Add(float64(len(records) + skipped))
	observability.RowsSkipped.WithLabelValues("bills").Add(float64(skipped))

	table, err := s.store.Ensure(ctx, TableName, Schema)
	if err != nil {
		return nil, fmt.Errorf("ensure %s: %w", TableName, err)
	}
	result, err := Upsert(ctx, table, records)
	if err != nil {
		return nil, fmt.Errorf("upsert bills: %w", err)
	}

	observability.BillsInserted.Add(float64(result.Inserted))
	observability.BillsUpdated.Add(float64(result.Updated))

	summary := &Summary{
		RunID:      uuid.New(),
		SourceFile: sourceName,
		Month:      month,
		Parsed:     len(records),
		Skipped:    skipped,
		Inserted:   result.Inserted,
		Updated:    result.Updated,
	}
	s.logger.Info("bill import finished",
		slog.String("file", sourceName),
		slog.String("month", month),
		slog.Int("parsed", summary.Parsed),
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated),
	)
	return summary, nil
}

// buildRecords converts data rows into canonical bill records. Row-level
// problems skip the row, never the run.
func (s *Service) buildRecords(grid tabular.Grid, headerRow int, header []string, cols *classifier.BillColumns, month, sourceName string) ([]Record, int) {
	var records []Record
	skipped := 0

	for _, row := range grid.DataRows(headerRow) {
		room := cellString(row, cols.Room)
		if room == "" || subtotalRe.MatchString(room) {
			skipped++
			continue
		}

		amount, items, ok := resolveAmount(row, header, cols)
		if !ok {
			// No usable non-zero amount: the room simply isn't billable
			// this cycle.
			skipped++
			continue
		}

		account := classifier.AccountForRoom(room, s.floors)
		if account == "" {
			s.logger.Warn("no account mapping for room", slog.String("room", room))
		}

		records = append(records, Record{
			BillID:      BillID(month, room),
			Room:        room,
			Tenant:      cellString(row, cols.Tenant),
			Month:       month,
			Type:        "Rent",
			AmountDue:   amount,
			DueDate:     dueDate(row, cols, s.loc),
			Account:     account,
			ChargeItems: items,
			Notes:       fmt.Sprintf("Imported: %s", sourceName),
		})
	}
	return records, skipped
}

// resolveAmount prefers a non-zero explicit total column; otherwise it sums
// every matched charge column, recording each non-zero contribution.
func resolveAmount(row []tabular.Cell, header []string, cols *classifier.BillColumns) (decimal.Decimal, string, bool) {
	var parts []string

	if cols.Total >= 0 && cols.Total < len(row) {
		if num, ok := normalizer.StrictNumber(row[cols.Total]); ok && !num.IsZero() {
			parts = append(parts, fmt.Sprintf("%s %s", header[cols.Total], num))
			return num, strings.Join(parts, "; "), true
		}
	}

	total := decimal.Zero
	found := false
	for _, i := range cols.Charges {
		if i >= len(row) {
			continue
		}
		if num, ok := normalizer.StrictNumber(row[i]); ok && !num.IsZero() {
			found = true
			total = total.Add(num)
			parts = append(parts, fmt.Sprintf("%s %s", header[i], num))
		}
	}
	if !found {
		return decimal.Zero, "", false
	}
	return total, strings.Join(parts, "; "), true
}

func dueDate(row []tabular.Cell, cols *classifier.BillColumns, loc *time.Location) string {
	if cols.Due < 0 || cols.Due >= len(row) {
		return ""
	}
	return normalizer.DateString(row[cols.Due], loc)
}

func cellString(row []tabular.Cell, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col].String()
}
