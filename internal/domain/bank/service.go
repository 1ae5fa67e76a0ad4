package bank

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/classifier"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/sniffer"
	"github.com/FACorreiaa/mansion-ledger/pkg/config"
	"github.com/FACorreiaa/mansion-ledger/pkg/observability"
	"github.com/FACorreiaa/mansion-ledger/pkg/tablestore"
)

// Summary reports one statement import run.
type Summary struct {
	RunID      uuid.UUID
	SourceFile string
	Account    string
	Delimiter  rune
	Columns    string // classifier diagnostic
	Parsed     int    // credit records built
	Skipped    int    // dateless, amountless, or debit rows
	Appended   int
	Duplicates int
}

func (s *Summary) String() string {
	return fmt.Sprintf("Imported %d credits from %q into account %s. Appended: %d, duplicates: %d",
		s.Parsed, s.SourceFile, s.Account, s.Appended, s.Duplicates)
}

// Service runs the bank-statement import end to end: bytes → decoded grid
// → columns → credit records → dedup append. The receiving account is
// operator-supplied per run, since statements rarely carry it.
type Service struct {
	store  tablestore.Store
	loc    *time.Location
	codes  []string
	logger *slog.Logger
}

// NewService wires a statement import service.
func NewService(store tablestore.Store, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		loc:    cfg.Billing.Location(),
		codes:  cfg.Accounts.Codes,
		logger: logger,
	}
}

// ImportFile imports the statement CSV at path into the given account.
func (s *Service) ImportFile(ctx context.Context, path, account string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}
	return s.ImportBytes(ctx, data, filepath.Base(path), account)
}

// ImportBytes imports raw statement bytes. Encoding and delimiter are
// detected from content; decode and classification failures are terminal,
// nothing is written for an unrecognized statement.
func (s *Service) ImportBytes(ctx context.Context, data []byte, sourceName, account string) (*Summary, error) {
	code, err := ParseAccountCode(account, s.codes)
	if err != nil {
		return nil, err
	}

	grid, delim, err := sniffer.ReadGrid(data)
	if err != nil {
		observability.RunFailures.WithLabelValues("bank").Inc()
		return nil, fmt.Errorf("statement %s: %w", sourceName, err)
	}

	headerRow, err := grid.LocateHeaderLoose()
	if err != nil {
		observability.RunFailures.WithLabelValues("bank").Inc()
		return nil, fmt.Errorf("statement %s: %w", sourceName, err)
	}

	rows := grid.DataRows(headerRow)
	cols, err := classifier.ResolveBankColumns(grid.HeaderStrings(headerRow), rows)
	if err != nil {
		observability.RunFailures.WithLabelValues("bank").Inc()
		return nil, fmt.Errorf("statement %s: %w", sourceName, err)
	}

	records, skipped := buildRecords(rows, cols, code, s.loc)

	observability.RowsParsed.WithLabelValues("bank").Add(float64(len(records) + skipped))
	observability.RowsSkipped.WithLabelValues("bank").Add(float64(skipped))

	table, err := s.store.Ensure(ctx, TableName, Schema)
	if err != nil {
		return nil, fmt.Errorf("ensure %s: %w", TableName, err)
	}
	result, err := Append(ctx, table, records)
	if err != nil {
		return nil, err
	}

	observability.TxnsAppended.Add(float64(result.Appended))

	summary := &Summary{
		RunID:      uuid.New(),
		SourceFile: sourceName,
		Account:    code,
		Delimiter:  delim,
		Columns:    cols.Diagnostic(),
		Parsed:     len(records),
		Skipped:    skipped,
		Appended:   result.Appended,
		Duplicates: result.Duplicates,
	}
	s.logger.Info("bank import finished",
		slog.String("file", sourceName),
		slog.String("account", code),
		slog.String("delimiter", string(delim)),
		slog.String("columns", summary.Columns),
		slog.Int("parsed", summary.Parsed),
		slog.Int("appended", summary.Appended),
		slog.Int("duplicates", summary.Duplicates),
	)
	return summary, nil
}
